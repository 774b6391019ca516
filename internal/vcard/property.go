package vcard

import "strings"

// Property names of the built-in property types.
const (
	PropFormattedName = "FN"
	PropNote          = "NOTE"
	PropEmail         = "EMAIL"
	PropMailer        = "MAILER"
	PropProductID     = "PRODID"
	PropKind          = "KIND"
	PropMember        = "MEMBER"
	PropPhoto         = "PHOTO"
	PropLogo          = "LOGO"
	PropSound         = "SOUND"
	PropKey           = "KEY"
	PropVersion       = "VERSION"
)

// Property is a single vCard property instance.
type Property interface {
	// Name returns the upper-cased property name.
	Name() string
	// Group returns the group tag, or "" when ungrouped.
	Group() string
	SetGroup(group string)
	// Parameters returns the property's own parameter table.
	Parameters() *Parameters
	// SupportedVersions lists the vCard versions the property exists in.
	SupportedVersions() []Version
}

// MembershipReference is implemented by properties that are only valid on a
// card whose KIND is "group".
type MembershipReference interface {
	Property
	MemberURI() string
}

// PropertyBase carries the state every property has. Embed it.
type PropertyBase struct {
	group  string
	params Parameters
}

// Group returns the group tag.
func (b *PropertyBase) Group() string { return b.group }

// SetGroup sets the group tag.
func (b *PropertyBase) SetGroup(group string) { b.group = group }

// Parameters returns the parameter table owned by the property.
func (b *PropertyBase) Parameters() *Parameters { return &b.params }

// SupportedVersions defaults to every version.
func (b *PropertyBase) SupportedVersions() []Version { return AllVersions }

// TextProperty is a property whose value is a single string.
type TextProperty struct {
	PropertyBase
	Value string
}

// FormattedName is the FN property (the display name).
type FormattedName struct{ TextProperty }

// NewFormattedName returns an FN property.
func NewFormattedName(value string) *FormattedName {
	return &FormattedName{TextProperty{Value: value}}
}

func (*FormattedName) Name() string { return PropFormattedName }

// Note is the NOTE property.
type Note struct{ TextProperty }

// NewNote returns a NOTE property.
func NewNote(value string) *Note { return &Note{TextProperty{Value: value}} }

func (*Note) Name() string { return PropNote }

// Email is the EMAIL property.
type Email struct{ TextProperty }

// NewEmail returns an EMAIL property.
func NewEmail(value string) *Email { return &Email{TextProperty{Value: value}} }

func (*Email) Name() string { return PropEmail }

// Mailer is the MAILER property. It was dropped in 4.0.
type Mailer struct{ TextProperty }

// NewMailer returns a MAILER property.
func NewMailer(value string) *Mailer { return &Mailer{TextProperty{Value: value}} }

func (*Mailer) Name() string { return PropMailer }

func (*Mailer) SupportedVersions() []Version { return []Version{V2_1, V3_0} }

// ProductID is the PRODID property naming the software that produced the
// card.
type ProductID struct{ TextProperty }

// NewProductID returns a PRODID property.
func NewProductID(value string) *ProductID { return &ProductID{TextProperty{Value: value}} }

func (*ProductID) Name() string { return PropProductID }

func (*ProductID) SupportedVersions() []Version { return []Version{V3_0, V4_0} }

// Card kinds.
const (
	KindIndividual   = "individual"
	KindGroup        = "group"
	KindOrganization = "org"
	KindLocation     = "location"
)

// Kind is the KIND property.
type Kind struct{ TextProperty }

// NewKind returns a KIND property.
func NewKind(value string) *Kind { return &Kind{TextProperty{Value: value}} }

func (*Kind) Name() string { return PropKind }

func (*Kind) SupportedVersions() []Version { return []Version{V4_0} }

// IsGroup reports whether the card describes a group of contacts.
func (k *Kind) IsGroup() bool {
	return k != nil && strings.EqualFold(k.Value, KindGroup)
}

// Member is the MEMBER property. It references another card and is only
// valid on group cards.
type Member struct {
	PropertyBase
	URI string
}

// NewMember returns a MEMBER property.
func NewMember(uri string) *Member { return &Member{URI: uri} }

func (*Member) Name() string { return PropMember }

func (*Member) SupportedVersions() []Version { return []Version{V4_0} }

// MemberURI returns the referenced card URI.
func (m *Member) MemberURI() string { return m.URI }

// Extended is a property the library has no dedicated type for: an X-
// property or an IANA property outside the built-in catalog.
type Extended struct {
	PropertyBase
	PropName string
	Value    string
	// DataType is the declared value type, DataTypeNone when unknown.
	DataType DataType
	// XMLName, when Local is set, overrides the element name and namespace
	// used in xCard output.
	XMLName QName
	// Versions restricts the versions the property is written in. Nil means
	// every version.
	Versions []Version
}

// QName is an XML qualified name.
type QName struct {
	Space string
	Local string
}

// IsZero reports whether no qualified name is set.
func (q QName) IsZero() bool { return q.Local == "" }

// NewExtended returns an extended property.
func NewExtended(name, value string) *Extended {
	return &Extended{PropName: strings.ToUpper(name), Value: value}
}

func (e *Extended) Name() string { return strings.ToUpper(e.PropName) }

func (e *Extended) SupportedVersions() []Version {
	if e.Versions == nil {
		return AllVersions
	}
	return e.Versions
}
