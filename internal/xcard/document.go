// Package xcard writes and reads xCard documents (RFC 6351): vCards
// expressed as XML under the urn:ietf:params:xml:ns:vcard-4.0 namespace.
package xcard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	logging "github.com/ipfs/go-log/v2"

	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var log = logging.Logger("xcard")

// parameterElementNames maps parameter names to the element that holds each
// of their values. Names not listed use "unknown".
var parameterElementNames = map[string]string{
	vcard.ParamAltID:     "text",
	vcard.ParamCalScale:  "text",
	vcard.ParamGeo:       "uri",
	vcard.ParamLabel:     "text",
	vcard.ParamLanguage:  "language-tag",
	vcard.ParamMediaType: "text",
	vcard.ParamPID:       "text",
	vcard.ParamPref:      "integer",
	vcard.ParamSortAs:    "text",
	vcard.ParamType:      "text",
	vcard.ParamTZ:        "uri",
}

// ParameterElementName returns the name of the element that wraps each
// value of the named parameter.
func ParameterElementName(param string) string {
	if name, ok := parameterElementNames[strings.ToLower(param)]; ok {
		return name
	}
	return string(vcard.DataTypeUnknown)
}

// Config controls document assembly.
type Config struct {
	// AddProdID replaces any PRODID on the card with one naming this
	// library.
	AddProdID bool
	// ProductID is the generated PRODID value. Empty means
	// vcard.ProductIdentifier().
	ProductID string
	// Registry resolves scribes. Nil means scribe.NewRegistry().
	Registry *scribe.Registry
}

// DefaultConfig returns the default assembly settings.
func DefaultConfig() Config {
	return Config{AddProdID: true}
}

// Document is an xCard document under construction. Cards are appended with
// AddCard; the warnings of the most recent call are available from Warnings.
//
// A Document is not safe for concurrent use.
type Document struct {
	doc       *etree.Document
	root      *etree.Element
	version   vcard.Version
	addProdID bool
	productID string
	registry  *scribe.Registry
	warnings  vcard.Warnings
	cards     int
}

// NewDocument returns an empty document holding a <vcards> root.
func NewDocument(cfg Config) *Document {
	if cfg.Registry == nil {
		cfg.Registry = scribe.NewRegistry()
	}
	if cfg.ProductID == "" {
		cfg.ProductID = vcard.ProductIdentifier()
	}

	d := &Document{
		doc:       etree.NewDocument(),
		version:   vcard.V4_0,
		addProdID: cfg.AddProdID,
		productID: cfg.ProductID,
		registry:  cfg.Registry,
	}
	d.doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	d.root = scribe.NewElement("vcards", d.namespace(), "")
	d.doc.SetRoot(d.root)
	return d
}

func (d *Document) namespace() string {
	return d.version.Policy().Namespace
}

// Root returns the <vcards> element.
func (d *Document) Root() *etree.Element { return d.root }

// Len returns the number of cards added.
func (d *Document) Len() int { return d.cards }

// Warnings returns the warnings recorded by the last AddCard call.
func (d *Document) Warnings() []string { return d.warnings.List() }

// AddCard marshals card into a <vcard> element and appends it to the root.
// Problems with individual properties become warnings; the rest of the card
// is still written.
func (d *Document) AddCard(card *vcard.Card) {
	d.warnings.Reset()

	if card.FormattedName() == nil {
		d.warnings.Addf("vCard version %s requires that a formatted name be defined.", d.version)
	}

	buckets := newGroupBuckets()
	for _, p := range card.Properties() {
		if _, ok := p.(*vcard.ProductID); ok && d.addProdID {
			continue
		}
		if !vcard.ContainsVersion(p.SupportedVersions(), d.version) {
			d.warnings.Addf("The %s property is not supported by xCard (vCard version %s) and will not be added to the xCard. Supported versions are %s",
				p.Name(), d.version, formatVersions(p.SupportedVersions()))
			continue
		}
		if _, ok := p.(vcard.MembershipReference); ok && !card.Kind().IsGroup() {
			d.warnings.Addf("The value of KIND must be set to %q in order to add %s properties to the vCard.", vcard.KindGroup, p.Name())
			continue
		}
		buckets.add(p.Group(), p)
	}
	if d.addProdID {
		buckets.add("", vcard.NewProductID(d.productID))
	}

	ns := d.namespace()
	cardEl := scribe.NewElement("vcard", ns, ns)
	for _, group := range buckets.order {
		parent := cardEl
		if group != "" {
			parent = scribe.NewElement("group", ns, ns)
			parent.CreateAttr("name", group)
			cardEl.AddChild(parent)
		}
		for _, p := range buckets.props[group] {
			el, outcome := d.marshalProperty(p, card)
			switch outcome.Action {
			case scribe.ActionEmit:
				parent.AddChild(el)
			case scribe.ActionOmit:
				d.warnings.Addf("%s property will not be marshalled: %s", p.Name(), outcome.Reason)
			case scribe.ActionUnsupported:
				d.warnings.Addf("%s property will not be marshalled: xCard does not support embedded vCards.", p.Name())
			}
		}
	}
	d.root.AddChild(cardEl)
	d.cards++
	log.Debugf("added card %q with %d warnings", card.DisplayName(), d.warnings.Len())
}

// marshalProperty builds the element for one property. The element is
// detached; the caller appends it only when the outcome is Emit.
func (d *Document) marshalProperty(p vcard.Property, card *vcard.Card) (*etree.Element, scribe.Outcome) {
	s := d.registry.ScribeFor(p)
	ns := d.namespace()

	local, space := strings.ToLower(p.Name()), ns
	if q := s.QName(p); !q.IsZero() {
		local = q.Local
		if q.Space != "" {
			space = q.Space
		}
	}
	el := scribe.NewElement(local, space, ns)

	params := s.PrepareParameters(p, d.version, card)
	// Data types are carried by the value element names.
	params.Remove(vcard.ParamValue)
	if !params.IsEmpty() {
		el.AddChild(d.parametersElement(params, space))
	}

	outcome := s.WriteXML(p, scribe.NewXMLElement(el, space, d.version))
	return el, outcome
}

func (d *Document) parametersElement(params *vcard.Parameters, parentNS string) *etree.Element {
	ns := d.namespace()
	paramsEl := scribe.NewElement("parameters", ns, parentNS)
	for _, name := range params.Names() {
		paramEl := paramsEl.CreateElement(name)
		valueName := ParameterElementName(name)
		for _, value := range params.All(name) {
			paramEl.CreateElement(valueName).SetText(value)
		}
	}
	return paramsEl
}

// WriteIndent renders the document to w. A negative indent writes the
// document on one line; otherwise nested elements are indented by that many
// spaces. The document itself is not modified.
func (d *Document) WriteIndent(w io.Writer, indent int) (int64, error) {
	doc := d.doc.Copy()
	if indent >= 0 {
		doc.Indent(indent)
	}
	n, err := doc.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write xCard: %w", err)
	}
	return n, nil
}

// WriteTo renders the document without indentation.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.WriteIndent(w, etree.NoIndent)
}

// String renders the document with the given indent.
func (d *Document) String(indent int) string {
	var b strings.Builder
	// strings.Builder never fails.
	_, _ = d.WriteIndent(&b, indent)
	return b.String()
}

// WriteFile renders the document into the file at path.
func (d *Document) WriteFile(path string, indent int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := d.WriteIndent(f, indent); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// groupBuckets partitions properties by group tag, keeping the order in
// which groups were first seen and the order of properties within a group.
type groupBuckets struct {
	order []string
	props map[string][]vcard.Property
}

func newGroupBuckets() *groupBuckets {
	return &groupBuckets{props: make(map[string][]vcard.Property)}
}

func (b *groupBuckets) add(group string, p vcard.Property) {
	if _, ok := b.props[group]; !ok {
		b.order = append(b.order, group)
	}
	b.props[group] = append(b.props[group], p)
}

func formatVersions(versions []vcard.Version) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
