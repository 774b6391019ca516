package scribe

import (
	"fmt"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

// Scribe marshals and unmarshals one property type in every syntax and
// version. Implementations are stateless and safe for concurrent use.
//
// Marshal hooks never mutate the property. Unmarshal hooks may consume
// entries of the parameter table they are given (for example ENCODING once
// the payload is decoded) and attach what is left to the property they
// return.
type Scribe interface {
	// PropertyName returns the upper-cased name of the property type.
	PropertyName() string
	// QName returns the XML name used for p in xCard output. A zero QName
	// means "lower-cased property name in the version's namespace".
	QName(p vcard.Property) vcard.QName

	// DefaultDataType is the data type a bare value of this property type
	// has at version v, ignoring any instance.
	DefaultDataType(v vcard.Version) vcard.DataType
	// DataType inspects p to choose the data type at version v.
	DataType(p vcard.Property, v vcard.Version) vcard.DataType
	// PrepareParameters returns a new parameter table for writing p at
	// version v. The property's own table is never modified.
	PrepareParameters(p vcard.Property, v vcard.Version, card *vcard.Card) *vcard.Parameters

	// WriteText returns the unescaped text-syntax value.
	WriteText(p vcard.Property, v vcard.Version) (string, Outcome)
	// ParseText builds a property from an escaped text-syntax value.
	ParseText(value string, dataType vcard.DataType, v vcard.Version, params *vcard.Parameters, w *vcard.Warnings) (vcard.Property, error)

	WriteXML(p vcard.Property, el *XMLElement) Outcome
	ParseXML(el *XMLElement, params *vcard.Parameters, w *vcard.Warnings) (vcard.Property, error)

	WriteJSON(p vcard.Property) (JSONValue, Outcome)
	ParseJSON(value JSONValue, dataType vcard.DataType, params *vcard.Parameters, w *vcard.Warnings) (vcard.Property, error)

	WriteHTML(p vcard.Property, el *HTMLElement) Outcome
	ParseHTML(el *HTMLElement, w *vcard.Warnings) (vcard.Property, error)
}

// AdoptParameters copies params into the property's own table, replacing
// whatever it held.
func AdoptParameters(p vcard.Property, params *vcard.Parameters) {
	if p == nil || params == nil {
		return
	}
	*p.Parameters() = *params.Clone()
}

func missingElement(dataType vcard.DataType) error {
	name := string(dataType)
	if name == "" {
		name = string(vcard.DataTypeUnknown)
	}
	return fmt.Errorf("%w: missing expected <%s> value element", vcard.ErrCannotParse, name)
}

func cannotParse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", vcard.ErrCannotParse, fmt.Sprintf(format, args...))
}
