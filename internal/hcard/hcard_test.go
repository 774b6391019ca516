package hcard

import (
	"strings"
	"testing"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

func TestWriter(t *testing.T) {
	card := vcard.NewCard()
	card.Add(
		vcard.NewFormattedName("Alice & Bob"),
		vcard.NewEmail("team@example.com"),
		vcard.NewPhotoURL("http://example.com/team.png", vcard.ImageTypes.FromType("png")),
		&vcard.Logo{},
	)

	w := NewWriter(nil)
	w.Add(card)
	if len(w.Warnings()) != 1 || !strings.Contains(w.Warnings()[0], "LOGO") {
		t.Errorf("unexpected warnings: %v", w.Warnings())
	}

	out := w.String()
	for _, want := range []string{
		`<div class="vcard">`,
		`<span class="fn">Alice &amp; Bob</span>`,
		`<a class="email" href="mailto:team@example.com">team@example.com</a>`,
		`<object class="photo" data="http://example.com/team.png" type="image/png"></object>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestParse(t *testing.T) {
	page := `<html><body>
<div class="vcard">
  <h1 class="fn">Alice</h1>
  <p>Mail <a class="email" href="mailto:alice@example.com?subject=hi">write to me</a></p>
  <object class="photo" data="img/alice.jpg" type="image/jpeg"></object>
  <img class="logo" src="logo.png">
  <span class="adr">not a supported property</span>
</div>
<div class="vcard"><span class="fn">Bob</span>
  <object class="photo" data="data:image/gif;base64,QUJD"></object>
</div>
</body></html>`

	cards, warnings, err := Parse(strings.NewReader(page), "http://example.com/people/", nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "LOGO") {
		t.Errorf("expected one LOGO warning, got %v", warnings)
	}

	alice := cards[0]
	if alice.DisplayName() != "Alice" {
		t.Errorf("FN = %q", alice.DisplayName())
	}
	emails := alice.PropertiesNamed(vcard.PropEmail)
	if len(emails) != 1 || emails[0].(*vcard.Email).Value != "alice@example.com" {
		t.Errorf("emails = %v", emails)
	}
	photo := alice.PropertiesNamed(vcard.PropPhoto)[0].(*vcard.Photo)
	if photo.URL() != "http://example.com/people/img/alice.jpg" || photo.ContentType().Value != "jpeg" {
		t.Errorf("photo = %q %+v", photo.URL(), photo.ContentType())
	}

	bob := cards[1].PropertiesNamed(vcard.PropPhoto)[0].(*vcard.Photo)
	if string(bob.Data()) != "ABC" || bob.ContentType().MediaType() != "image/gif" {
		t.Errorf("inline photo = %q %v", bob.Data(), bob.ContentType())
	}
}

func TestRoundTrip(t *testing.T) {
	card := vcard.NewCard()
	card.Add(vcard.NewFormattedName("Carol"), vcard.NewNote("likes, commas"),
		vcard.NewSoundData([]byte("ABC"), vcard.SoundTypes.FromType("ogg")))

	w := NewWriter(nil)
	w.Add(card)
	cards, warnings, err := Parse(strings.NewReader(w.String()), "", nil)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Parse failed: %v %v", err, warnings)
	}
	got := cards[0]
	if got.DisplayName() != "Carol" || got.PropertiesNamed(vcard.PropNote)[0].(*vcard.Note).Value != "likes, commas" {
		t.Errorf("text properties lost")
	}
	sound := got.PropertiesNamed(vcard.PropSound)[0].(*vcard.Sound)
	if string(sound.Data()) != "ABC" || sound.ContentType().MediaType() != "audio/ogg" {
		t.Errorf("sound = %q %v", sound.Data(), sound.ContentType())
	}
}
