package xcard

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

// Errors
var (
	ErrNotXCard = errors.New("document is not an xCard")
)

// Parse reads every <vcard> in an xCard document. Properties whose value
// cannot be understood are skipped and reported in the returned warnings.
// A nil registry means scribe.NewRegistry().
func Parse(r io.Reader, registry *scribe.Registry) ([]*vcard.Card, []string, error) {
	if registry == nil {
		registry = scribe.NewRegistry()
	}
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, nil, fmt.Errorf("failed to read xCard: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "vcards" || root.NamespaceURI() != vcard.NamespaceV4 {
		return nil, nil, ErrNotXCard
	}

	var (
		cards    []*vcard.Card
		warnings vcard.Warnings
	)
	for _, cardEl := range root.ChildElements() {
		if !isVCardElement(cardEl, "vcard") {
			continue
		}
		card := vcard.NewCard()
		for _, child := range cardEl.ChildElements() {
			if isVCardElement(child, "group") {
				group := child.SelectAttrValue("name", "")
				for _, propEl := range child.ChildElements() {
					parseProperty(registry, card, propEl, group, &warnings)
				}
				continue
			}
			parseProperty(registry, card, child, "", &warnings)
		}
		cards = append(cards, card)
	}
	return cards, warnings.List(), nil
}

func isVCardElement(el *etree.Element, local string) bool {
	return el.Tag == local && el.NamespaceURI() == vcard.NamespaceV4
}

func parseProperty(registry *scribe.Registry, card *vcard.Card, el *etree.Element, group string, w *vcard.Warnings) {
	ns := el.NamespaceURI()
	var s scribe.Scribe
	if ns == vcard.NamespaceV4 {
		s = registry.Lookup(el.Tag)
	} else {
		q := vcard.QName{Space: ns, Local: el.Tag}
		if s = registry.LookupQName(q); s == nil {
			s = scribe.NewExtendedScribe(el.Tag, q)
		}
	}

	params := readParameters(el)
	prop, err := s.ParseXML(scribe.NewXMLElement(el, ns, vcard.V4_0), params, w)
	if err != nil {
		w.Addf("%s property will be skipped: %v", s.PropertyName(), err)
		log.Warnf("skipping <%s>: %s", el.Tag, err)
		return
	}
	if group != "" {
		prop.SetGroup(group)
	}
	card.Add(prop)
}

func readParameters(el *etree.Element) *vcard.Parameters {
	params := vcard.NewParameters()
	for _, child := range el.ChildElements() {
		if !isVCardElement(child, "parameters") {
			continue
		}
		for _, paramEl := range child.ChildElements() {
			for _, valueEl := range paramEl.ChildElements() {
				params.Add(paramEl.Tag, valueEl.Text())
			}
		}
	}
	return params
}
