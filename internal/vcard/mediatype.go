package vcard

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMediaType is written into data URIs when a payload has no declared
// content type.
const DefaultMediaType = "application/octet-stream"

// MediaType describes the content type of a binary property. Value is the
// raw token as it appeared in a TYPE parameter ("jpeg"); Type and Subtype
// form the full media type ("image", "jpeg").
type MediaType struct {
	Type    string
	Subtype string
	Value   string
}

// ParseMediaType splits a "type/subtype" string. Parameters after ";" are
// dropped. A string without "/" yields a descriptor with only Value set.
func ParseMediaType(s string) *MediaType {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	mt := &MediaType{Value: s}
	if i := strings.IndexByte(s, '/'); i > 0 && i < len(s)-1 {
		mt.Type = strings.ToLower(s[:i])
		mt.Subtype = strings.ToLower(s[i+1:])
	}
	return mt
}

// MediaType returns "type/subtype", or "" when either half is unknown.
func (m *MediaType) MediaType() string {
	if m == nil || m.Type == "" || m.Subtype == "" {
		return ""
	}
	return m.Type + "/" + m.Subtype
}

// IsZero reports whether the descriptor carries no information.
func (m *MediaType) IsZero() bool {
	return m == nil || (m.Type == "" && m.Subtype == "" && m.Value == "")
}

// Equal compares two descriptors by media type, falling back to the raw
// value when neither has a full media type.
func (m *MediaType) Equal(other *MediaType) bool {
	if m.IsZero() || other.IsZero() {
		return m.IsZero() && other.IsZero()
	}
	if m.MediaType() != "" || other.MediaType() != "" {
		return m.MediaType() == other.MediaType()
	}
	return strings.EqualFold(m.Value, other.Value)
}

func (m *MediaType) String() string {
	if mt := m.MediaType(); mt != "" {
		return mt
	}
	if m == nil {
		return ""
	}
	return m.Value
}

// MediaFamily is a table of well-known content types for one kind of binary
// property (images, sounds, keys). Legacy vCards name content types with
// short tokens ("jpeg", "wave", "pgp") where 4.0 uses full media types.
type MediaFamily struct {
	// Prefix is the top-level type assumed for unknown legacy tokens.
	Prefix  string
	entries []familyEntry
}

type familyEntry struct {
	token     string
	mediaType string
}

// Well-known families.
var (
	ImageTypes = &MediaFamily{Prefix: "image", entries: []familyEntry{
		{"gif", "image/gif"},
		{"jpeg", "image/jpeg"},
		{"png", "image/png"},
		{"bmp", "image/bmp"},
		{"tiff", "image/tiff"},
		{"pict", "image/x-pict"},
		{"ps", "application/postscript"},
		{"pdf", "application/pdf"},
		{"mpeg", "video/mpeg"},
		{"qtime", "video/quicktime"},
		{"avi", "video/x-msvideo"},
		{"wmf", "image/x-wmf"},
		{"met", "image/x-met"},
		{"cgm", "image/cgm"},
	}}
	SoundTypes = &MediaFamily{Prefix: "audio", entries: []familyEntry{
		{"wave", "audio/wav"},
		{"pcm", "audio/x-pcm"},
		{"aiff", "audio/aiff"},
		{"mp3", "audio/mpeg"},
		{"ogg", "audio/ogg"},
		{"aac", "audio/aac"},
		{"flac", "audio/flac"},
	}}
	KeyTypes = &MediaFamily{Prefix: "application", entries: []familyEntry{
		{"pgp", "application/pgp-keys"},
		{"gpg", "application/pgp-keys"},
		{"x509", "application/x-x509-ca-cert"},
		{"pkcs12", "application/x-pkcs12"},
	}}
)

// FromMediaType builds a descriptor from a 4.0 MEDIATYPE value or a data URI
// content type.
func (f *MediaFamily) FromMediaType(mediaType string) *MediaType {
	mt := ParseMediaType(mediaType)
	full := mt.MediaType()
	for _, e := range f.entries {
		if e.mediaType == full {
			return &MediaType{Type: mt.Type, Subtype: mt.Subtype, Value: e.token}
		}
	}
	if full != "" {
		mt.Value = mt.Subtype
	}
	return mt
}

// FromType builds a descriptor from a legacy TYPE value such as "jpeg" or
// "image/jpeg".
func (f *MediaFamily) FromType(typ string) *MediaType {
	typ = strings.TrimSpace(typ)
	if strings.Contains(typ, "/") {
		return f.FromMediaType(typ)
	}
	for _, e := range f.entries {
		if strings.EqualFold(e.token, typ) {
			mt := ParseMediaType(e.mediaType)
			mt.Value = e.token
			return mt
		}
	}
	mt := &MediaType{Value: typ}
	if typ != "" && f.Prefix != "" {
		mt.Type = f.Prefix
		mt.Subtype = strings.ToLower(typ)
	}
	return mt
}

// SniffMediaType inspects a payload and returns its detected content type.
func SniffMediaType(data []byte, family *MediaFamily) *MediaType {
	detected := mimetype.Detect(data).String()
	if family == nil {
		return ParseMediaType(detected)
	}
	return family.FromMediaType(detected)
}
