package vcard

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// DataURI is an inline binary payload of the form
// data:<media-type>;base64,<payload> (RFC 2397).
type DataURI struct {
	ContentType string
	Data        []byte
}

// NewDataURI builds a data URI. An empty content type is left empty.
func NewDataURI(contentType string, data []byte) DataURI {
	return DataURI{ContentType: contentType, Data: data}
}

// ParseDataURI parses a data URI. Both the base64 and the percent-encoded
// forms are accepted; anything else returns ErrNotDataURI.
func ParseDataURI(s string) (DataURI, error) {
	const scheme = "data:"
	if len(s) < len(scheme) || !strings.EqualFold(s[:len(scheme)], scheme) {
		return DataURI{}, ErrNotDataURI
	}
	rest := s[len(scheme):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return DataURI{}, fmt.Errorf("%w: missing comma", ErrNotDataURI)
	}
	meta, payload := rest[:comma], rest[comma+1:]

	isBase64 := false
	var contentType string
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0:
			contentType = part
		case strings.EqualFold(part, "base64"):
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return DataURI{}, fmt.Errorf("%w: %v", ErrNotDataURI, err)
		}
		return DataURI{ContentType: contentType, Data: data}, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return DataURI{}, fmt.Errorf("%w: %v", ErrNotDataURI, err)
	}
	return DataURI{ContentType: contentType, Data: []byte(text)}, nil
}

// String renders the URI in base64 form.
func (u DataURI) String() string {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(u.ContentType)
	b.WriteString(";base64,")
	b.WriteString(EncodeBase64(u.Data))
	return b.String()
}

// EncodeBase64 encodes data with the standard padded alphabet.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64Lenient decodes base64 text and never fails. Whitespace and
// characters outside the alphabet are dropped and missing padding is
// tolerated, so malformed input yields a best-effort (possibly meaningless)
// payload rather than an error.
func DecodeBase64Lenient(s string) []byte {
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '/':
			b.WriteRune(r)
		case r == '-':
			b.WriteRune('+')
		case r == '_':
			b.WriteRune('/')
		}
	}
	clean := b.String()
	// A single dangling character carries less than one byte.
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}
	data, err := base64.RawStdEncoding.DecodeString(clean)
	if err != nil {
		return []byte{}
	}
	return data
}
