package textcard

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	govcard "github.com/emersion/go-vcard"
	logging "github.com/ipfs/go-log/v2"

	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var log = logging.Logger("textcard")

// Config controls text output.
type Config struct {
	// Version is the version written. Zero means 4.0.
	Version vcard.Version
	// AddProdID replaces any PRODID on the card with one naming this
	// library. 2.1 has no PRODID, so the flag is ignored there.
	AddProdID bool
	// Registry resolves scribes. Nil means scribe.NewRegistry().
	Registry *scribe.Registry
}

// DefaultConfig returns the default writer settings.
func DefaultConfig() Config {
	return Config{Version: vcard.V4_0, AddProdID: true}
}

func (c Config) withDefaults() Config {
	if c.Version == 0 {
		c.Version = vcard.V4_0
	}
	if c.Registry == nil {
		c.Registry = scribe.NewRegistry()
	}
	return c
}

// Write encodes cards in the text syntax. It returns the warnings of every
// card, in order.
func Write(w io.Writer, cards []*vcard.Card, cfg Config) ([]string, error) {
	cfg = cfg.withDefaults()
	enc := govcard.NewEncoder(w)

	var warnings vcard.Warnings
	for _, card := range cards {
		gc := marshalCard(card, cfg, &warnings)
		if err := enc.Encode(gc); err != nil {
			return warnings.List(), fmt.Errorf("failed to encode vCard: %w", err)
		}
	}
	return warnings.List(), nil
}

// Marshal encodes a single card.
func Marshal(card *vcard.Card, cfg Config) (string, []string, error) {
	var b strings.Builder
	warnings, err := Write(&b, []*vcard.Card{card}, cfg)
	if err != nil {
		return "", warnings, err
	}
	return b.String(), warnings, nil
}

func marshalCard(card *vcard.Card, cfg Config, w *vcard.Warnings) govcard.Card {
	v := cfg.Version
	addProdID := cfg.AddProdID && vcard.ContainsVersion((&vcard.ProductID{}).SupportedVersions(), v)

	gc := govcard.Card{}
	gc.SetValue(govcard.FieldVersion, v.String())
	if card.FormattedName() == nil && v != vcard.V2_1 {
		w.Addf("vCard version %s requires that a formatted name be defined.", v)
	}

	props := card.Properties()
	if addProdID {
		kept := props[:0]
		for _, p := range props {
			if _, ok := p.(*vcard.ProductID); !ok {
				kept = append(kept, p)
			}
		}
		props = append(kept, vcard.NewProductID(vcard.ProductIdentifier()))
	}

	for _, p := range props {
		if !vcard.ContainsVersion(p.SupportedVersions(), v) {
			w.Addf("The %s property is not supported by vCard version %s and will not be added.", p.Name(), v)
			continue
		}
		if _, ok := p.(vcard.MembershipReference); ok && !card.Kind().IsGroup() {
			w.Addf("The value of KIND must be set to %q in order to add %s properties to the vCard.", vcard.KindGroup, p.Name())
			continue
		}

		s := cfg.Registry.ScribeFor(p)
		value, outcome := s.WriteText(p, v)
		switch outcome.Action {
		case scribe.ActionOmit:
			w.Addf("%s property will not be marshalled: %s", p.Name(), outcome.Reason)
			continue
		case scribe.ActionUnsupported:
			w.Addf("%s property will not be marshalled: embedded vCards are not supported.", p.Name())
			continue
		}

		params := s.PrepareParameters(p, v, card)
		params.Remove(vcard.ParamValue)
		// VALUE is only needed when it differs from what a reader assumes.
		if dt := s.DataType(p, v); dt != vcard.DataTypeNone && dt != s.DefaultDataType(v) {
			params.SetValue(dt)
		}
		gc.Add(p.Name(), &govcard.Field{
			Value:  value,
			Params: toFieldParams(params),
			Group:  p.Group(),
		})
	}
	return gc
}

func toFieldParams(params *vcard.Parameters) govcard.Params {
	if params.IsEmpty() {
		return nil
	}
	out := make(govcard.Params, params.Len())
	for _, name := range params.Names() {
		out[strings.ToUpper(name)] = params.All(name)
	}
	return out
}

// Parse decodes every card in r. Cards without a VERSION are read as 2.1.
// Properties that cannot be unmarshaled are skipped and reported in the
// returned warnings. A nil registry means scribe.NewRegistry().
func Parse(r io.Reader, registry *scribe.Registry) ([]*vcard.Card, []string, error) {
	if registry == nil {
		registry = scribe.NewRegistry()
	}
	dec := govcard.NewDecoder(r)

	var (
		cards    []*vcard.Card
		warnings vcard.Warnings
	)
	for {
		gc, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return cards, warnings.List(), fmt.Errorf("failed to decode vCard: %w", err)
		}
		cards = append(cards, unmarshalCard(gc, registry, &warnings))
	}
	if len(cards) == 0 {
		return nil, warnings.List(), vcard.ErrEmptyCard
	}
	return cards, warnings.List(), nil
}

func unmarshalCard(gc govcard.Card, registry *scribe.Registry, w *vcard.Warnings) *vcard.Card {
	v := vcard.V2_1
	if raw := gc.Value(govcard.FieldVersion); raw != "" {
		parsed, err := vcard.ParseVersion(raw)
		if err != nil {
			w.Addf("unknown VERSION %q, reading as 4.0", raw)
			parsed = vcard.V4_0
		}
		v = parsed
	}

	card := vcard.NewCard()
	card.Version = v

	names := make([]string, 0, len(gc))
	for name := range gc {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.EqualFold(name, govcard.FieldVersion) {
			continue
		}
		s := registry.Lookup(name)
		for _, field := range gc[name] {
			params := fromFieldParams(field.Params)
			dataType := params.Value()
			params.Remove(vcard.ParamValue)
			if dataType == vcard.DataTypeNone {
				dataType = s.DefaultDataType(v)
			}

			prop, err := s.ParseText(restoreEscapes(field.Value), dataType, v, params, w)
			if err != nil {
				w.Addf("%s property will be skipped: %v", s.PropertyName(), err)
				log.Warnf("skipping %s: %s", name, err)
				continue
			}
			if field.Group != "" {
				prop.SetGroup(field.Group)
			}
			card.Add(prop)
		}
	}
	return card
}

func fromFieldParams(fp govcard.Params) *vcard.Parameters {
	params := vcard.NewParameters()
	keys := make([]string, 0, len(fp))
	for k := range fp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values := fp[k]
		// 2.1 allows bare TYPE values: PHOTO;JPEG:...
		if len(values) == 0 || (len(values) == 1 && values[0] == "") {
			params.Add(vcard.ParamType, k)
			continue
		}
		for _, value := range values {
			params.Add(k, value)
		}
	}
	return params
}

// restoreEscapes re-escapes what the tokenizer unescaped (backslashes,
// newlines and commas) so that scribes unescape each value exactly once.
// The tokenizer leaves "\;" alone.
func restoreEscapes(s string) string {
	if !strings.ContainsAny(s, "\\\n,") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && s[i+1] == ';' {
				b.WriteByte('\\')
				continue
			}
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case ',':
			b.WriteString(`\,`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
