// Package hcard writes and reads hCards, vCards embedded in HTML with the
// microformat class names ("vcard", "fn", "email", "photo", ...).
package hcard

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/net/html"

	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var log = logging.Logger("hcard")

const rootClass = "vcard"

// Writer renders cards as <div class="vcard"> blocks.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	registry *scribe.Registry
	cards    []*html.Node
	warnings vcard.Warnings
}

// NewWriter returns an empty writer. A nil registry means
// scribe.NewRegistry().
func NewWriter(registry *scribe.Registry) *Writer {
	if registry == nil {
		registry = scribe.NewRegistry()
	}
	return &Writer{registry: registry}
}

// Warnings returns the warnings recorded by the last Add call.
func (w *Writer) Warnings() []string { return w.warnings.List() }

// Len returns the number of cards added.
func (w *Writer) Len() int { return len(w.cards) }

// Add renders card. Properties the scribes omit become warnings.
func (w *Writer) Add(card *vcard.Card) {
	w.warnings.Reset()
	if card.FormattedName() == nil {
		w.warnings.Addf("hCard requires that a formatted name be defined.")
	}

	root := element("div", rootClass)
	for _, p := range card.Properties() {
		s := w.registry.ScribeFor(p)
		el := element("span", strings.ToLower(p.Name()))
		switch outcome := s.WriteHTML(p, scribe.NewHTMLElement(el, nil)); outcome.Action {
		case scribe.ActionEmit:
			root.AppendChild(el)
		case scribe.ActionOmit:
			w.warnings.Addf("%s property will not be marshalled: %s", p.Name(), outcome.Reason)
		case scribe.ActionUnsupported:
			w.warnings.Addf("%s property will not be marshalled: hCard does not support embedded vCards.", p.Name())
		}
	}
	w.cards = append(w.cards, root)
}

func element(tag, class string) *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: tag,
		Attr: []html.Attribute{{Key: "class", Val: class}},
	}
}

// WriteTo renders every card, one per line.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, n := range w.cards {
		if err := html.Render(&buf, n); err != nil {
			return 0, fmt.Errorf("failed to render hCard: %w", err)
		}
		buf.WriteByte('\n')
	}
	return buf.WriteTo(out)
}

// String renders every card.
func (w *Writer) String() string {
	var b strings.Builder
	// strings.Builder never fails.
	_, _ = w.WriteTo(&b)
	return b.String()
}

// Parse finds every element with class "vcard" in an HTML page and reads the
// properties inside it. Relative links are resolved against baseURL, which
// may be empty. Elements whose class names no registered property are
// ignored; properties that cannot be read become warnings. A nil registry
// means scribe.NewRegistry().
func Parse(r io.Reader, baseURL string, registry *scribe.Registry) ([]*vcard.Card, []string, error) {
	if registry == nil {
		registry = scribe.NewRegistry()
	}
	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		base = u
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var (
		cards    []*vcard.Card
		warnings vcard.Warnings
	)
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, rootClass) {
			cards = append(cards, parseCard(n, base, registry, &warnings))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	return cards, warnings.List(), nil
}

func parseCard(root *html.Node, base *url.URL, registry *scribe.Registry, w *vcard.Warnings) *vcard.Card {
	card := vcard.NewCard()
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			// Nested cards belong to their own root.
			if hasClass(c, rootClass) {
				continue
			}
			for _, class := range classes(c) {
				s, ok := registry.Get(class)
				if !ok {
					continue
				}
				prop, err := s.ParseHTML(scribe.NewHTMLElement(c, base), w)
				if err != nil {
					w.Addf("%s property will be skipped: %v", s.PropertyName(), err)
					log.Warnf("skipping <%s class=%q>: %s", c.Data, class, err)
					continue
				}
				card.Add(prop)
			}
			walk(c)
		}
	}
	walk(root)
	return card
}

func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "class") {
			return strings.Fields(strings.ToLower(a.Val))
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}
