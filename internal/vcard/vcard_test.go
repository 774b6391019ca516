package vcard

import (
	"bytes"
	"errors"
	"testing"
)

func TestParametersOrderAndCase(t *testing.T) {
	p := NewParameters()
	p.Add("TYPE", "home")
	p.Add("Pref", "1")
	p.Add("type", "work")

	names := p.Names()
	if len(names) != 2 || names[0] != "type" || names[1] != "pref" {
		t.Fatalf("unexpected names: %v", names)
	}
	if got := p.All("Type"); len(got) != 2 || got[0] != "home" || got[1] != "work" {
		t.Errorf("TYPE values mismatch: %v", got)
	}
	if p.Pref() != 1 {
		t.Errorf("Pref = %d, want 1", p.Pref())
	}
}

func TestParametersRemove(t *testing.T) {
	p := NewParameters()
	p.Add("value", "uri")
	p.Add("mediatype", "image/png")
	p.Remove("VALUE")

	if p.Has("value") {
		t.Error("VALUE should be removed")
	}
	if p.Len() != 1 || p.Names()[0] != "mediatype" {
		t.Errorf("unexpected names after remove: %v", p.Names())
	}
	p.Remove("missing")
}

func TestParametersCloneIsolated(t *testing.T) {
	p := NewParameters()
	p.Add("type", "home")

	c := p.Clone()
	c.SetType("jpeg")
	c.SetEncoding(EncodingB)

	if p.Type() != "home" {
		t.Errorf("original TYPE changed to %q", p.Type())
	}
	if p.Has("encoding") {
		t.Error("original gained ENCODING")
	}
	if c.Type() != "jpeg" || !c.Encoding().IsBase64() {
		t.Errorf("clone not updated: type=%q encoding=%q", c.Type(), c.Encoding())
	}
}

func TestParametersSetEmptyRemoves(t *testing.T) {
	p := NewParameters()
	p.SetMediaType("image/png")
	p.SetMediaType("")
	if !p.IsEmpty() {
		t.Errorf("expected empty table, got %v", p.Names())
	}
}

func TestVersionPolicy(t *testing.T) {
	tests := []struct {
		version  Version
		url      DataType
		embedded DataType
		base64   Encoding
		ns       string
	}{
		{V2_1, DataTypeURL, DataTypeNone, EncodingBase64, ""},
		{V3_0, DataTypeURI, DataTypeNone, EncodingB, ""},
		{V4_0, DataTypeURI, DataTypeURI, "", NamespaceV4},
	}
	for _, tt := range tests {
		p := tt.version.Policy()
		if p.URLDataType != tt.url || p.EmbeddedDataType != tt.embedded || p.Base64 != tt.base64 || p.Namespace != tt.ns {
			t.Errorf("%s: unexpected policy %+v", tt.version, p)
		}
		if p.LegacyContentType != tt.version.IsLegacy() {
			t.Errorf("%s: LegacyContentType = %v", tt.version, p.LegacyContentType)
		}
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion(" 3.0 ")
	if err != nil || v != V3_0 {
		t.Fatalf("ParseVersion failed: %v %v", v, err)
	}
	if _, err := ParseVersion("5.0"); !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("expected ErrUnknownVersion, got %v", err)
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	u, err := ParseDataURI("data:image/jpeg;base64,QUJD")
	if err != nil {
		t.Fatalf("ParseDataURI failed: %v", err)
	}
	if u.ContentType != "image/jpeg" || string(u.Data) != "ABC" {
		t.Errorf("unexpected data URI: %q %q", u.ContentType, u.Data)
	}
	if got := u.String(); got != "data:image/jpeg;base64,QUJD" {
		t.Errorf("String() = %q", got)
	}
}

func TestDataURIPercentEncoded(t *testing.T) {
	u, err := ParseDataURI("data:text/plain,hello%20world")
	if err != nil {
		t.Fatalf("ParseDataURI failed: %v", err)
	}
	if string(u.Data) != "hello world" {
		t.Errorf("payload = %q", u.Data)
	}
}

func TestDataURIRejects(t *testing.T) {
	for _, s := range []string{"http://example.com/a.jpg", "data:image/png;base64", "data:image/png;base64,!!!"} {
		if _, err := ParseDataURI(s); !errors.Is(err, ErrNotDataURI) {
			t.Errorf("%q: expected ErrNotDataURI, got %v", s, err)
		}
	}
}

func TestDecodeBase64Lenient(t *testing.T) {
	if got := DecodeBase64Lenient("QUJD"); string(got) != "ABC" {
		t.Errorf("valid input decoded to %q", got)
	}
	if got := DecodeBase64Lenient("QU JD\r\n"); string(got) != "ABC" {
		t.Errorf("whitespace input decoded to %q", got)
	}
	if got := DecodeBase64Lenient("QUI"); string(got) != "AB" {
		t.Errorf("unpadded input decoded to %q", got)
	}
	// Garbage never fails.
	if got := DecodeBase64Lenient("%%%"); got == nil {
		t.Error("expected non-nil payload for garbage input")
	}
}

func TestMediaFamily(t *testing.T) {
	mt := ImageTypes.FromType("JPEG")
	if mt.MediaType() != "image/jpeg" || mt.Value != "jpeg" {
		t.Errorf("FromType(JPEG) = %+v", mt)
	}

	mt = ImageTypes.FromMediaType("image/png")
	if mt.Value != "png" {
		t.Errorf("FromMediaType(image/png).Value = %q", mt.Value)
	}

	mt = ImageTypes.FromType("heic")
	if mt.MediaType() != "image/heic" {
		t.Errorf("unknown token mapped to %q", mt.MediaType())
	}

	if !ImageTypes.FromType("jpeg").Equal(ImageTypes.FromMediaType("image/jpeg")) {
		t.Error("legacy and 4.0 descriptors should be equal")
	}
}

func TestSniffMediaType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if mt := SniffMediaType(png, ImageTypes); mt.MediaType() != "image/png" {
		t.Errorf("sniffed %q", mt.MediaType())
	}
}

func TestBinaryExclusive(t *testing.T) {
	p := NewPhotoURL("http://example.com/me.jpg", nil)
	p.SetData([]byte("ABC"), nil)
	if p.HasURL() || !p.HasData() {
		t.Errorf("SetData should clear the URL")
	}
	p.SetURL("http://example.com/me.jpg", nil)
	if p.HasData() {
		t.Errorf("SetURL should clear the payload")
	}
	if !bytes.Equal(NewPhotoData(nil, nil).Data(), []byte{}) {
		t.Error("nil payload should be stored as empty payload")
	}
}

func TestCardAccessors(t *testing.T) {
	c := NewCard()
	c.Add(NewKind("group"), NewFormattedName("Team"))
	c.AddGrouped("item1", NewEmail("team@example.com"))

	if !c.Kind().IsGroup() {
		t.Error("expected group kind")
	}
	if c.DisplayName() != "Team" {
		t.Errorf("DisplayName = %q", c.DisplayName())
	}
	emails := c.PropertiesNamed("email")
	if len(emails) != 1 || emails[0].Group() != "item1" {
		t.Fatalf("unexpected emails: %v", emails)
	}
	if !c.Remove(emails[0]) || c.Len() != 2 {
		t.Errorf("Remove failed, len=%d", c.Len())
	}
}

func TestWarningsNilSafe(t *testing.T) {
	var w *Warnings
	w.Addf("ignored %d", 1)
	if w.Len() != 0 || w.List() != nil {
		t.Error("nil Warnings should discard")
	}
}
