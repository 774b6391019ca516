package textcard

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

func photoCard() *vcard.Card {
	card := vcard.NewCard()
	card.Add(
		vcard.NewFormattedName("John Doe"),
		vcard.NewPhotoData([]byte("ABC"), vcard.ImageTypes.FromType("jpeg")),
	)
	return card
}

func TestWriteVersions(t *testing.T) {
	tests := []struct {
		version vcard.Version
		want    []string
	}{
		{vcard.V2_1, []string{"VERSION:2.1", "ENCODING=BASE64", "TYPE=jpeg", ":QUJD"}},
		{vcard.V3_0, []string{"VERSION:3.0", "ENCODING=b", "TYPE=jpeg", ":QUJD", "PRODID:" + vcard.ProductIdentifier()}},
		{vcard.V4_0, []string{"VERSION:4.0", "PHOTO:data:image/jpeg;base64", "PRODID:" + vcard.ProductIdentifier()}},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Version = tt.version
		out, warnings, err := Marshal(photoCard(), cfg)
		if err != nil {
			t.Fatalf("Marshal %s failed: %v", tt.version, err)
		}
		if len(warnings) != 0 {
			t.Errorf("%s: unexpected warnings %v", tt.version, warnings)
		}
		for _, want := range tt.want {
			if !strings.Contains(out, want) {
				t.Errorf("%s: output missing %q:\n%s", tt.version, want, out)
			}
		}
		if tt.version == vcard.V2_1 && strings.Contains(out, "PRODID") {
			t.Errorf("2.1 output carries PRODID:\n%s", out)
		}
	}
}

func TestRoundTripVersions(t *testing.T) {
	for _, v := range vcard.AllVersions {
		cfg := DefaultConfig()
		cfg.Version = v
		out, _, err := Marshal(photoCard(), cfg)
		if err != nil {
			t.Fatalf("Marshal %s failed: %v", v, err)
		}

		cards, warnings, err := Parse(strings.NewReader(out), nil)
		if err != nil {
			t.Fatalf("Parse %s failed: %v", v, err)
		}
		if len(warnings) != 0 {
			t.Errorf("%s: unexpected warnings %v", v, warnings)
		}
		if len(cards) != 1 {
			t.Fatalf("%s: expected 1 card, got %d", v, len(cards))
		}
		card := cards[0]
		if card.Version != v {
			t.Errorf("version = %s, want %s", card.Version, v)
		}
		if card.DisplayName() != "John Doe" {
			t.Errorf("%s: FN = %q", v, card.DisplayName())
		}
		photo := card.PropertiesNamed(vcard.PropPhoto)[0].(*vcard.Photo)
		if string(photo.Data()) != "ABC" {
			t.Errorf("%s: photo data = %q", v, photo.Data())
		}
		if photo.ContentType().MediaType() != "image/jpeg" {
			t.Errorf("%s: photo content type = %v", v, photo.ContentType())
		}
		if photo.Parameters().Has(vcard.ParamEncoding) || photo.Parameters().Has(vcard.ParamType) {
			t.Errorf("%s: consumed parameters left on photo: %v", v, photo.Parameters().Names())
		}
	}
}

func TestValueParameter(t *testing.T) {
	card := vcard.NewCard()
	card.Add(
		vcard.NewFormattedName("Jane"),
		vcard.NewLogoURL("http://example.com/logo.png", vcard.ImageTypes.FromType("png")),
	)

	cfg := DefaultConfig()
	cfg.Version = vcard.V3_0
	out, _, err := Marshal(card, cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(out, "VALUE=uri") {
		t.Errorf("3.0 link should declare VALUE=uri:\n%s", out)
	}

	cfg.Version = vcard.V4_0
	out, _, err = Marshal(card, cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(out, "VALUE=") {
		t.Errorf("4.0 link uses the default data type, VALUE not expected:\n%s", out)
	}
	if !strings.Contains(out, "MEDIATYPE=image/png") {
		t.Errorf("4.0 link should carry MEDIATYPE:\n%s", out)
	}

	cards, _, err := Parse(strings.NewReader(out), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	logo := cards[0].PropertiesNamed(vcard.PropLogo)[0].(*vcard.Logo)
	if logo.URL() != "http://example.com/logo.png" {
		t.Errorf("logo URL = %q", logo.URL())
	}
}

func TestNoteEscaping(t *testing.T) {
	note := "first line\nsecond, with comma; and semicolon\\backslash"
	card := vcard.NewCard()
	card.Add(vcard.NewFormattedName("Escaper"), vcard.NewNote(note))

	out, _, err := Marshal(card, DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(out, "first line\nsecond") {
		t.Errorf("newline written raw:\n%s", out)
	}

	cards, _, err := Parse(strings.NewReader(out), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := cards[0].PropertiesNamed(vcard.PropNote)[0].(*vcard.Note).Value
	if got != note {
		t.Errorf("note = %q, want %q", got, note)
	}
}

func TestGroups(t *testing.T) {
	card := vcard.NewCard()
	card.Add(vcard.NewFormattedName("Grouped"))
	card.AddGrouped("item1", vcard.NewEmail("one@example.com"))

	out, _, err := Marshal(card, DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(out, "item1.EMAIL:one@example.com") {
		t.Errorf("group prefix missing:\n%s", out)
	}

	cards, _, err := Parse(strings.NewReader(out), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	email := cards[0].PropertiesNamed(vcard.PropEmail)[0]
	if email.Group() != "item1" {
		t.Errorf("group = %q", email.Group())
	}
}

func TestWriteWarnings(t *testing.T) {
	card := vcard.NewCard()
	card.Add(vcard.NewMailer("mutt"), vcard.NewMember("urn:uuid:1"))

	_, warnings, err := Marshal(card, DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	// Missing FN, MAILER not in 4.0, MEMBER without KIND=group.
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[1], "MAILER") || !strings.Contains(warnings[2], "MEMBER") {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestKeepsProdIDWhenDisabled(t *testing.T) {
	card := vcard.NewCard()
	card.Add(vcard.NewFormattedName("P"), vcard.NewProductID("other"))

	cfg := DefaultConfig()
	cfg.AddProdID = false
	out, _, err := Marshal(card, cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(out, "PRODID:other") || strings.Contains(out, vcard.ProductIdentifier()) {
		t.Errorf("unexpected PRODID handling:\n%s", out)
	}
}

func TestParseMissingVersion(t *testing.T) {
	in := "BEGIN:VCARD\r\nFN:Old Timer\r\nPHOTO;TYPE=JPEG;ENCODING=BASE64:QUJD\r\nEND:VCARD\r\n"
	cards, _, err := Parse(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	card := cards[0]
	if card.Version != vcard.V2_1 {
		t.Errorf("version = %s, want 2.1", card.Version)
	}
	photo := card.PropertiesNamed(vcard.PropPhoto)[0].(*vcard.Photo)
	if string(photo.Data()) != "ABC" || photo.ContentType().Value != "jpeg" {
		t.Errorf("photo = %q %v", photo.Data(), photo.ContentType())
	}
}

func TestParseUnknownProperty(t *testing.T) {
	in := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:X\r\nX-SHOE-SIZE:42\r\nEND:VCARD\r\n"
	cards, _, err := Parse(strings.NewReader(in), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	props := cards[0].PropertiesNamed("X-SHOE-SIZE")
	if len(props) != 1 || props[0].(*vcard.Extended).Value != "42" {
		t.Errorf("extended property = %v", props)
	}
}

func TestParseEmpty(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""), nil)
	if !errors.Is(err, vcard.ErrEmptyCard) {
		t.Errorf("expected ErrEmptyCard, got %v", err)
	}
}

func TestWriteMany(t *testing.T) {
	a := vcard.NewCard()
	a.Add(vcard.NewFormattedName("A"))
	b := vcard.NewCard()
	b.Add(vcard.NewFormattedName("B"))

	var buf bytes.Buffer
	if _, err := Write(&buf, []*vcard.Card{a, b}, DefaultConfig()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	cards, _, err := Parse(&buf, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cards) != 2 || cards[0].DisplayName() != "A" || cards[1].DisplayName() != "B" {
		t.Errorf("cards = %d", len(cards))
	}
}

func TestCardToQR(t *testing.T) {
	pngData, _, err := CardToQR(photoCard(), DefaultConfig(), 0)
	if err != nil {
		t.Fatalf("CardToQR failed: %v", err)
	}
	// PNG magic bytes
	if len(pngData) < 8 || pngData[0] != 0x89 || pngData[1] != 'P' || pngData[2] != 'N' || pngData[3] != 'G' {
		t.Error("output is not a valid PNG")
	}

	cards, _, err := QRToCards(pngData, nil)
	if err != nil {
		t.Fatalf("QRToCards failed: %v", err)
	}
	if len(cards) != 1 || cards[0].DisplayName() != "John Doe" {
		t.Fatalf("unexpected cards: %v", cards)
	}
	photo := cards[0].PropertiesNamed(vcard.PropPhoto)[0].(*vcard.Photo)
	if string(photo.Data()) != "ABC" {
		t.Errorf("photo data = %q", photo.Data())
	}
}

func TestCardToQREmpty(t *testing.T) {
	if _, _, err := CardToQR(vcard.NewCard(), DefaultConfig(), 256); !errors.Is(err, vcard.ErrEmptyCard) {
		t.Errorf("expected ErrEmptyCard, got %v", err)
	}
	if _, _, err := CardToQR(nil, DefaultConfig(), 256); !errors.Is(err, vcard.ErrEmptyCard) {
		t.Errorf("expected ErrEmptyCard for nil card, got %v", err)
	}
}

func TestTextToQRInvalidSize(t *testing.T) {
	if _, err := TextToQR("hello", MaxQRSize+1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := TextToQR("", 256); !errors.Is(err, vcard.ErrEmptyCard) {
		t.Errorf("expected ErrEmptyCard, got %v", err)
	}
}

func TestTextToQRImage(t *testing.T) {
	img, err := TextToQRImage("hello", 128)
	if err != nil {
		t.Fatalf("TextToQRImage failed: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("width = %d, want 128", img.Bounds().Dx())
	}
	text, err := QRImageToText(img)
	if err != nil {
		t.Fatalf("QRImageToText failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
}

func TestQRToTextInvalid(t *testing.T) {
	if _, err := QRToText(nil); !errors.Is(err, ErrQRDecode) {
		t.Errorf("expected ErrQRDecode for nil data, got %v", err)
	}
	if _, err := QRToText([]byte("not a png")); !errors.Is(err, ErrQRDecode) {
		t.Errorf("expected ErrQRDecode for invalid data, got %v", err)
	}
	if _, err := QRImageToText(nil); !errors.Is(err, ErrQRDecode) {
		t.Errorf("expected ErrQRDecode for nil image, got %v", err)
	}
}
