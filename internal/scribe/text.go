package scribe

import (
	"strings"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

// textScribe handles properties whose value is a single string.
type textScribe struct {
	name     string
	dataType vcard.DataType
	newProp  func(value string) vcard.Property
	value    func(p vcard.Property) string
	// hrefPrefix, when set, makes the hCard value a link ("mailto:").
	hrefPrefix string
}

func textValue(p vcard.Property) string {
	switch t := p.(type) {
	case *vcard.FormattedName:
		return t.Value
	case *vcard.Note:
		return t.Value
	case *vcard.Email:
		return t.Value
	case *vcard.Mailer:
		return t.Value
	case *vcard.ProductID:
		return t.Value
	case *vcard.Kind:
		return t.Value
	case *vcard.Member:
		return t.URI
	}
	return ""
}

// FormattedNameScribe returns the FN scribe.
func FormattedNameScribe() Scribe {
	return &textScribe{name: vcard.PropFormattedName, dataType: vcard.DataTypeText, value: textValue,
		newProp: func(v string) vcard.Property { return vcard.NewFormattedName(v) }}
}

// NoteScribe returns the NOTE scribe.
func NoteScribe() Scribe {
	return &textScribe{name: vcard.PropNote, dataType: vcard.DataTypeText, value: textValue,
		newProp: func(v string) vcard.Property { return vcard.NewNote(v) }}
}

// EmailScribe returns the EMAIL scribe.
func EmailScribe() Scribe {
	return &textScribe{name: vcard.PropEmail, dataType: vcard.DataTypeText, value: textValue, hrefPrefix: "mailto:",
		newProp: func(v string) vcard.Property { return vcard.NewEmail(v) }}
}

// MailerScribe returns the MAILER scribe.
func MailerScribe() Scribe {
	return &textScribe{name: vcard.PropMailer, dataType: vcard.DataTypeText, value: textValue,
		newProp: func(v string) vcard.Property { return vcard.NewMailer(v) }}
}

// ProductIDScribe returns the PRODID scribe.
func ProductIDScribe() Scribe {
	return &textScribe{name: vcard.PropProductID, dataType: vcard.DataTypeText, value: textValue,
		newProp: func(v string) vcard.Property { return vcard.NewProductID(v) }}
}

// KindScribe returns the KIND scribe.
func KindScribe() Scribe {
	return &textScribe{name: vcard.PropKind, dataType: vcard.DataTypeText, value: textValue,
		newProp: func(v string) vcard.Property { return vcard.NewKind(strings.ToLower(v)) }}
}

// MemberScribe returns the MEMBER scribe.
func MemberScribe() Scribe {
	return &textScribe{name: vcard.PropMember, dataType: vcard.DataTypeURI, value: textValue,
		newProp: func(v string) vcard.Property { return vcard.NewMember(v) }}
}

func (s *textScribe) PropertyName() string { return s.name }

func (s *textScribe) QName(vcard.Property) vcard.QName { return vcard.QName{} }

func (s *textScribe) DefaultDataType(vcard.Version) vcard.DataType { return s.dataType }

func (s *textScribe) DataType(vcard.Property, vcard.Version) vcard.DataType { return s.dataType }

func (s *textScribe) PrepareParameters(p vcard.Property, _ vcard.Version, _ *vcard.Card) *vcard.Parameters {
	return p.Parameters().Clone()
}

func (s *textScribe) WriteText(p vcard.Property, _ vcard.Version) (string, Outcome) {
	return s.value(p), Emit()
}

func (s *textScribe) ParseText(value string, _ vcard.DataType, _ vcard.Version, params *vcard.Parameters, _ *vcard.Warnings) (vcard.Property, error) {
	return s.build(UnescapeText(value), params), nil
}

func (s *textScribe) WriteXML(p vcard.Property, el *XMLElement) Outcome {
	el.Append(s.dataType, s.value(p))
	return Emit()
}

func (s *textScribe) ParseXML(el *XMLElement, params *vcard.Parameters, _ *vcard.Warnings) (vcard.Property, error) {
	value, ok := el.First(s.dataType)
	if !ok {
		return nil, missingElement(s.dataType)
	}
	return s.build(value, params), nil
}

func (s *textScribe) WriteJSON(p vcard.Property) (JSONValue, Outcome) {
	return SingleJSON(s.value(p)), Emit()
}

func (s *textScribe) ParseJSON(value JSONValue, _ vcard.DataType, params *vcard.Parameters, _ *vcard.Warnings) (vcard.Property, error) {
	return s.build(value.AsSingle(), params), nil
}

func (s *textScribe) WriteHTML(p vcard.Property, el *HTMLElement) Outcome {
	value := s.value(p)
	if s.hrefPrefix != "" {
		el.SetTag("a")
		el.SetAttr("href", s.hrefPrefix+value)
	}
	el.SetText(value)
	return Emit()
}

func (s *textScribe) ParseHTML(el *HTMLElement, _ *vcard.Warnings) (vcard.Property, error) {
	value := el.Text()
	if s.hrefPrefix != "" {
		if href := el.Attr("href"); strings.HasPrefix(strings.ToLower(href), s.hrefPrefix) {
			value = href[len(s.hrefPrefix):]
			if i := strings.IndexByte(value, '?'); i >= 0 {
				value = value[:i]
			}
		}
	}
	if s.dataType.IsLink() {
		if href := el.AbsURL("href"); href != "" {
			value = href
		}
	}
	return s.newProp(value), nil
}

func (s *textScribe) build(value string, params *vcard.Parameters) vcard.Property {
	p := s.newProp(value)
	AdoptParameters(p, params)
	return p
}

// extendedScribe writes any property without a dedicated scribe as raw
// text.
type extendedScribe struct {
	name  string
	qname vcard.QName
}

// NewExtendedScribe returns a scribe for an extension property. A non-zero
// qname places the property's xCard element in its own namespace.
func NewExtendedScribe(name string, qname vcard.QName) Scribe {
	return &extendedScribe{name: strings.ToUpper(name), qname: qname}
}

func (s *extendedScribe) PropertyName() string { return s.name }

func (s *extendedScribe) QName(p vcard.Property) vcard.QName {
	if e, ok := p.(*vcard.Extended); ok && !e.XMLName.IsZero() {
		return e.XMLName
	}
	return s.qname
}

func (s *extendedScribe) DefaultDataType(vcard.Version) vcard.DataType { return vcard.DataTypeNone }

func (s *extendedScribe) DataType(p vcard.Property, _ vcard.Version) vcard.DataType {
	if e, ok := p.(*vcard.Extended); ok {
		return e.DataType
	}
	return vcard.DataTypeNone
}

func (s *extendedScribe) PrepareParameters(p vcard.Property, _ vcard.Version, _ *vcard.Card) *vcard.Parameters {
	return p.Parameters().Clone()
}

func (s *extendedScribe) WriteText(p vcard.Property, _ vcard.Version) (string, Outcome) {
	return extendedValue(p), Emit()
}

func (s *extendedScribe) ParseText(value string, dataType vcard.DataType, _ vcard.Version, params *vcard.Parameters, _ *vcard.Warnings) (vcard.Property, error) {
	return s.build(UnescapeText(value), dataType, params), nil
}

func (s *extendedScribe) WriteXML(p vcard.Property, el *XMLElement) Outcome {
	el.Append(s.DataType(p, el.Version()), extendedValue(p))
	return Emit()
}

// ParseXML takes the first value element whatever its name.
func (s *extendedScribe) ParseXML(el *XMLElement, params *vcard.Parameters, _ *vcard.Warnings) (vcard.Property, error) {
	values := el.Values()
	if len(values) == 0 {
		return s.build(el.Element().Text(), vcard.DataTypeNone, params), nil
	}
	dataType := vcard.ParseDataType(values[0].Tag)
	if dataType == vcard.DataTypeUnknown {
		dataType = vcard.DataTypeNone
	}
	return s.build(values[0].Text(), dataType, params), nil
}

func (s *extendedScribe) WriteJSON(p vcard.Property) (JSONValue, Outcome) {
	return SingleJSON(extendedValue(p)), Emit()
}

func (s *extendedScribe) ParseJSON(value JSONValue, dataType vcard.DataType, params *vcard.Parameters, _ *vcard.Warnings) (vcard.Property, error) {
	if dataType == vcard.DataTypeUnknown {
		dataType = vcard.DataTypeNone
	}
	return s.build(value.AsSingle(), dataType, params), nil
}

func (s *extendedScribe) WriteHTML(p vcard.Property, el *HTMLElement) Outcome {
	el.SetText(extendedValue(p))
	return Emit()
}

func (s *extendedScribe) ParseHTML(el *HTMLElement, _ *vcard.Warnings) (vcard.Property, error) {
	return s.build(el.Text(), vcard.DataTypeNone, nil), nil
}

func (s *extendedScribe) build(value string, dataType vcard.DataType, params *vcard.Parameters) vcard.Property {
	e := vcard.NewExtended(s.name, value)
	e.DataType = dataType
	e.XMLName = s.qname
	AdoptParameters(e, params)
	return e
}

func extendedValue(p vcard.Property) string {
	if e, ok := p.(*vcard.Extended); ok {
		return e.Value
	}
	return textValue(p)
}
