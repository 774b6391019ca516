// Package jcard writes and reads jCards (RFC 7095), the JSON form of
// vCard 4.0.
package jcard

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	logging "github.com/ipfs/go-log/v2"

	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var log = logging.Logger("jcard")

// Errors
var (
	ErrNotJCard = errors.New("document is not a jCard")
)

// groupParam carries the group tag of a property; jCard has no other place
// for it.
const groupParam = "group"

// Config controls jCard output.
type Config struct {
	// AddProdID replaces any PRODID on the card with one naming this
	// library.
	AddProdID bool
	// Registry resolves scribes. Nil means scribe.NewRegistry().
	Registry *scribe.Registry
}

// DefaultConfig returns the default writer settings.
func DefaultConfig() Config {
	return Config{AddProdID: true}
}

// Writer accumulates cards and renders them as one jCard document. A single
// card is written as ["vcard", [...]]; several as an array of those.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	registry  *scribe.Registry
	addProdID bool
	cards     []any
	warnings  vcard.Warnings
}

// NewWriter returns an empty writer.
func NewWriter(cfg Config) *Writer {
	if cfg.Registry == nil {
		cfg.Registry = scribe.NewRegistry()
	}
	return &Writer{registry: cfg.Registry, addProdID: cfg.AddProdID}
}

// Warnings returns the warnings recorded by the last Add call.
func (w *Writer) Warnings() []string { return w.warnings.List() }

// Len returns the number of cards added.
func (w *Writer) Len() int { return len(w.cards) }

// Add marshals card. Properties that cannot be written become warnings.
func (w *Writer) Add(card *vcard.Card) {
	w.warnings.Reset()
	if card.FormattedName() == nil {
		w.warnings.Addf("vCard version %s requires that a formatted name be defined.", vcard.V4_0)
	}

	props := []any{[]any{"version", map[string]any{}, string(vcard.DataTypeText), vcard.V4_0.String()}}
	for _, p := range card.Properties() {
		if _, ok := p.(*vcard.ProductID); ok && w.addProdID {
			continue
		}
		if !vcard.ContainsVersion(p.SupportedVersions(), vcard.V4_0) {
			w.warnings.Addf("The %s property is not supported by jCard (vCard version 4.0) and will not be added.", p.Name())
			continue
		}
		if _, ok := p.(vcard.MembershipReference); ok && !card.Kind().IsGroup() {
			w.warnings.Addf("The value of KIND must be set to %q in order to add %s properties to the vCard.", vcard.KindGroup, p.Name())
			continue
		}
		if arr := w.marshalProperty(p, card); arr != nil {
			props = append(props, arr)
		}
	}
	if w.addProdID {
		props = append(props, w.marshalProperty(vcard.NewProductID(vcard.ProductIdentifier()), card))
	}
	w.cards = append(w.cards, []any{"vcard", props})
}

func (w *Writer) marshalProperty(p vcard.Property, card *vcard.Card) []any {
	s := w.registry.ScribeFor(p)
	value, outcome := s.WriteJSON(p)
	switch outcome.Action {
	case scribe.ActionOmit:
		w.warnings.Addf("%s property will not be marshalled: %s", p.Name(), outcome.Reason)
		return nil
	case scribe.ActionUnsupported:
		w.warnings.Addf("%s property will not be marshalled: jCard does not support embedded vCards.", p.Name())
		return nil
	}

	params := s.PrepareParameters(p, vcard.V4_0, card)
	params.Remove(vcard.ParamValue)
	obj := make(map[string]any, params.Len()+1)
	for _, name := range params.Names() {
		if vs := params.All(name); len(vs) == 1 {
			obj[name] = vs[0]
		} else {
			obj[name] = vs
		}
	}
	if g := p.Group(); g != "" {
		obj[groupParam] = g
	}

	dataType := s.DataType(p, vcard.V4_0)
	if dataType == vcard.DataTypeNone {
		dataType = vcard.DataTypeUnknown
	}
	arr := []any{strings.ToLower(p.Name()), obj, string(dataType)}
	return append(arr, value.Values...)
}

// Marshal renders the cards added so far. A negative indent produces
// compact output.
func (w *Writer) Marshal(indent int) ([]byte, error) {
	var doc any = w.cards
	switch len(w.cards) {
	case 0:
		doc = []any{}
	case 1:
		doc = w.cards[0]
	}
	if indent < 0 {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
}

// WriteIndent writes the document to out.
func (w *Writer) WriteIndent(out io.Writer, indent int) (int64, error) {
	data, err := w.Marshal(indent)
	if err != nil {
		return 0, fmt.Errorf("failed to encode jCard: %w", err)
	}
	n, err := out.Write(data)
	return int64(n), err
}

// WriteTo writes the compact document to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	return w.WriteIndent(out, -1)
}

// Parse reads a single jCard or an array of jCards. Properties that cannot
// be unmarshaled are skipped and reported in the returned warnings. A nil
// registry means scribe.NewRegistry().
func Parse(data []byte, registry *scribe.Registry) ([]*vcard.Card, []string, error) {
	if registry == nil {
		registry = scribe.NewRegistry()
	}
	var doc []any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotJCard, err)
	}

	var raw [][]any
	if isCard(doc) {
		raw = [][]any{doc}
	} else {
		for _, item := range doc {
			arr, ok := item.([]any)
			if !ok || !isCard(arr) {
				return nil, nil, ErrNotJCard
			}
			raw = append(raw, arr)
		}
	}

	var warnings vcard.Warnings
	cards := make([]*vcard.Card, 0, len(raw))
	for _, arr := range raw {
		cards = append(cards, parseCard(arr[1].([]any), registry, &warnings))
	}
	return cards, warnings.List(), nil
}

func isCard(arr []any) bool {
	if len(arr) != 2 {
		return false
	}
	name, ok := arr[0].(string)
	if !ok || !strings.EqualFold(name, "vcard") {
		return false
	}
	_, ok = arr[1].([]any)
	return ok
}

func parseCard(props []any, registry *scribe.Registry, w *vcard.Warnings) *vcard.Card {
	card := vcard.NewCard()
	for _, item := range props {
		arr, ok := item.([]any)
		if !ok || len(arr) < 3 {
			w.Addf("ignoring malformed jCard property: %v", item)
			continue
		}
		name, _ := arr[0].(string)
		if name == "" || strings.EqualFold(name, vcard.PropVersion) {
			continue
		}

		params := vcard.NewParameters()
		var group string
		if obj, ok := arr[1].(map[string]any); ok {
			keys := make([]string, 0, len(obj))
			for key := range obj {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if strings.EqualFold(key, groupParam) {
					group = fmt.Sprint(obj[key])
					continue
				}
				for _, s := range paramValues(obj[key]) {
					params.Add(key, s)
				}
			}
		}

		typ, _ := arr[2].(string)
		dataType := vcard.ParseDataType(typ)
		if dataType == vcard.DataTypeUnknown {
			dataType = vcard.DataTypeNone
		}

		s := registry.Lookup(name)
		prop, err := s.ParseJSON(scribe.JSONValue{Values: arr[3:]}, dataType, params, w)
		if err != nil {
			w.Addf("%s property will be skipped: %v", s.PropertyName(), err)
			log.Warnf("skipping %s: %s", name, err)
			continue
		}
		if group != "" {
			prop.SetGroup(group)
		}
		card.Add(prop)
	}
	return card
}

func paramValues(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(t)}
	}
}
