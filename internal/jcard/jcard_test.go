package jcard

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

func sampleCard() *vcard.Card {
	card := vcard.NewCard()
	card.Add(vcard.NewFormattedName("Alice"))
	email := vcard.NewEmail("a@example.com")
	email.Parameters().Add("type", "work")
	email.Parameters().Add("type", "pref")
	card.AddGrouped("item1", email)
	card.Add(vcard.NewPhotoData([]byte("ABC"), vcard.ImageTypes.FromType("png")))
	return card
}

func TestWriterLayout(t *testing.T) {
	w := NewWriter(Config{})
	w.Add(sampleCard())
	if len(w.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", w.Warnings())
	}

	data, err := w.Marshal(-1)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var doc []any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc[0] != "vcard" {
		t.Fatalf("unexpected document: %s", data)
	}
	props := doc[1].([]any)
	if len(props) != 4 {
		t.Fatalf("expected version + 3 properties, got %d: %s", len(props), data)
	}
	version := props[0].([]any)
	if version[0] != "version" || version[3] != "4.0" {
		t.Errorf("version property = %v", version)
	}
	email := props[2].([]any)
	params := email[1].(map[string]any)
	if params["group"] != "item1" {
		t.Errorf("group parameter = %v", params["group"])
	}
	if types, ok := params["type"].([]any); !ok || len(types) != 2 {
		t.Errorf("type parameter = %v", params["type"])
	}
	photo := props[3].([]any)
	if photo[2] != "uri" || photo[3] != "data:image/png;base64,QUJD" {
		t.Errorf("photo property = %v", photo)
	}
}

func TestWriterFiltersLegacyProperties(t *testing.T) {
	card := vcard.NewCard()
	card.Add(vcard.NewFormattedName("Alice"), vcard.NewMailer("mutt"), vcard.NewProductID("other"))

	w := NewWriter(DefaultConfig())
	w.Add(card)
	if len(w.Warnings()) != 1 || !strings.Contains(w.Warnings()[0], "MAILER") {
		t.Errorf("unexpected warnings: %v", w.Warnings())
	}
	data, _ := w.Marshal(-1)
	if strings.Contains(string(data), "mutt") || strings.Contains(string(data), "other") {
		t.Errorf("filtered properties were written: %s", data)
	}
	if !strings.Contains(string(data), vcard.ProductIdentifier()) {
		t.Errorf("generated PRODID missing: %s", data)
	}
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter(Config{})
	w.Add(sampleCard())
	second := vcard.NewCard()
	second.Add(vcard.NewFormattedName("Bob"), vcard.NewExtended("X-SHOE-SIZE", "44"))
	w.Add(second)

	var buf bytes.Buffer
	if _, err := w.WriteIndent(&buf, 2); err != nil {
		t.Fatalf("WriteIndent failed: %v", err)
	}

	cards, warnings, err := Parse(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	alice := cards[0]
	emails := alice.PropertiesNamed(vcard.PropEmail)
	if len(emails) != 1 || emails[0].Group() != "item1" || len(emails[0].Parameters().Types()) != 2 {
		t.Errorf("email lost data: %v", emails)
	}
	photo := alice.PropertiesNamed(vcard.PropPhoto)[0].(*vcard.Photo)
	if string(photo.Data()) != "ABC" || photo.ContentType().MediaType() != "image/png" {
		t.Errorf("photo = %q %v", photo.Data(), photo.ContentType())
	}

	ext := cards[1].PropertiesNamed("X-SHOE-SIZE")
	if len(ext) != 1 || ext[0].(*vcard.Extended).Value != "44" {
		t.Errorf("extended property = %v", ext)
	}
}

func TestParseRejects(t *testing.T) {
	for _, doc := range []string{`{"vcard": []}`, `["vcard"]`, `[["vcard", []], "x"]`} {
		if _, _, err := Parse([]byte(doc), nil); !errors.Is(err, ErrNotJCard) {
			t.Errorf("%s: expected ErrNotJCard, got %v", doc, err)
		}
	}
}

func TestParseMalformedProperty(t *testing.T) {
	doc := `["vcard", [["version", {}, "text", "4.0"], ["fn"], ["fn", {}, "text", "Alice"]]]`
	cards, warnings, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", warnings)
	}
	if cards[0].DisplayName() != "Alice" {
		t.Errorf("FN = %q", cards[0].DisplayName())
	}
}

func TestEmptyWriter(t *testing.T) {
	data, err := NewWriter(Config{}).Marshal(-1)
	if err != nil || string(data) != "[]" {
		t.Errorf("Marshal = %s, %v", data, err)
	}
}
