package vcard

import (
	"fmt"
	"strings"
)

// Version identifies a vCard protocol version.
type Version int

// Supported vCard versions.
const (
	V2_1 Version = iota + 1
	V3_0
	V4_0
)

// AllVersions lists every supported version, oldest first.
var AllVersions = []Version{V2_1, V3_0, V4_0}

// XML namespace of xCard documents (RFC 6351).
const NamespaceV4 = "urn:ietf:params:xml:ns:vcard-4.0"

// Policy holds the per-version marshaling rules that differ between
// vCard versions. It is looked up once per call instead of switching on the
// version in every hook.
type Policy struct {
	// Namespace is the XML namespace for xCard elements. Only 4.0 has one.
	Namespace string
	// URLDataType is the data type of a property value that is a link to a
	// remote resource.
	URLDataType DataType
	// EmbeddedDataType is the data type of a binary payload written inline.
	// DataTypeNone means the payload is written as raw encoded text.
	EmbeddedDataType DataType
	// Base64 is the ENCODING token used for inline binary payloads. Empty
	// when the version embeds binary data as a data URI instead.
	Base64 Encoding
	// LegacyContentType is true when the content type of a binary value
	// travels in the TYPE parameter rather than MEDIATYPE.
	LegacyContentType bool
}

var policies = map[Version]Policy{
	V2_1: {
		URLDataType:       DataTypeURL,
		EmbeddedDataType:  DataTypeNone,
		Base64:            EncodingBase64,
		LegacyContentType: true,
	},
	V3_0: {
		URLDataType:       DataTypeURI,
		EmbeddedDataType:  DataTypeNone,
		Base64:            EncodingB,
		LegacyContentType: true,
	},
	V4_0: {
		Namespace:        NamespaceV4,
		URLDataType:      DataTypeURI,
		EmbeddedDataType: DataTypeURI,
	},
}

// Policy returns the marshaling policy of the version. Unknown versions get
// the 4.0 policy.
func (v Version) Policy() Policy {
	if p, ok := policies[v]; ok {
		return p
	}
	return policies[V4_0]
}

// IsLegacy reports whether v is 2.1 or 3.0.
func (v Version) IsLegacy() bool {
	return v == V2_1 || v == V3_0
}

func (v Version) String() string {
	switch v {
	case V2_1:
		return "2.1"
	case V3_0:
		return "3.0"
	case V4_0:
		return "4.0"
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

// ParseVersion parses a VERSION property value.
func ParseVersion(s string) (Version, error) {
	switch strings.TrimSpace(s) {
	case "2.1":
		return V2_1, nil
	case "3.0":
		return V3_0, nil
	case "4.0":
		return V4_0, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
}

// ContainsVersion reports whether v appears in versions.
func ContainsVersion(versions []Version, v Version) bool {
	for _, candidate := range versions {
		if candidate == v {
			return true
		}
	}
	return false
}

// Library identification written into generated PRODID properties.
const (
	LibraryName    = "sdn-vcard"
	LibraryVersion = "0.1.0"
)

// ProductIdentifier returns the PRODID value naming this library.
func ProductIdentifier() string {
	return LibraryName + " " + LibraryVersion
}
