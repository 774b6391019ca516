package vcard

import "strings"

// DataType is the value type of a property (the VALUE parameter).
type DataType string

// Known data types. DataTypeNone means "no declared type".
const (
	DataTypeNone          DataType = ""
	DataTypeURL           DataType = "url"
	DataTypeURI           DataType = "uri"
	DataTypeText          DataType = "text"
	DataTypeInteger       DataType = "integer"
	DataTypeBoolean       DataType = "boolean"
	DataTypeLanguageTag   DataType = "language-tag"
	DataTypeDateAndOrTime DataType = "date-and-or-time"
	DataTypeTimestamp     DataType = "timestamp"
	DataTypeUTCOffset     DataType = "utc-offset"
	DataTypeContentID     DataType = "content-id"
	DataTypeUnknown       DataType = "unknown"
)

// ParseDataType normalizes a VALUE parameter.
func ParseDataType(s string) DataType {
	return DataType(strings.ToLower(strings.TrimSpace(s)))
}

// IsLink reports whether the data type names a URL or URI.
func (d DataType) IsLink() bool {
	return d == DataTypeURL || d == DataTypeURI
}

func (d DataType) String() string {
	return string(d)
}

// Encoding is the value of the ENCODING parameter.
type Encoding string

// Encoding tokens. 2.1 spells base64 "BASE64", 3.0 spells it "b".
const (
	EncodingBase64          Encoding = "BASE64"
	EncodingB               Encoding = "b"
	EncodingQuotedPrintable Encoding = "QUOTED-PRINTABLE"
	Encoding8Bit            Encoding = "8BIT"
)

// IsBase64 reports whether e is either base64 spelling.
func (e Encoding) IsBase64() bool {
	return strings.EqualFold(string(e), string(EncodingBase64)) || strings.EqualFold(string(e), string(EncodingB))
}

// Equal compares encodings case-insensitively.
func (e Encoding) Equal(other Encoding) bool {
	return strings.EqualFold(string(e), string(other))
}
