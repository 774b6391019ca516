package scribe

import (
	"strings"

	logging "github.com/ipfs/go-log/v2"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var log = logging.Logger("scribe")

// BinaryHooks are the per-type specialization points of BinaryScribe.
type BinaryHooks interface {
	// BuildMediaType builds a content type from a 4.0 MEDIATYPE value or
	// the media type of a data URI ("image/jpeg").
	BuildMediaType(mediaType string) *vcard.MediaType
	// BuildTypeObj builds a content type from a legacy TYPE value ("jpeg").
	BuildTypeObj(typ string) *vcard.MediaType
	// NewURL returns a property linking to url.
	NewURL(url string, contentType *vcard.MediaType) vcard.BinaryProperty
	// NewData returns a property embedding data.
	NewData(data []byte, contentType *vcard.MediaType) vcard.BinaryProperty
}

// BinaryScribe marshals properties whose value is either a link or an
// embedded payload.
type BinaryScribe struct {
	name  string
	hooks BinaryHooks
}

// NewBinaryScribe returns a scribe for the named binary property type.
func NewBinaryScribe(name string, hooks BinaryHooks) *BinaryScribe {
	return &BinaryScribe{name: strings.ToUpper(name), hooks: hooks}
}

// PhotoScribe returns the PHOTO scribe.
func PhotoScribe() *BinaryScribe { return NewBinaryScribe(vcard.PropPhoto, photoHooks{}) }

// LogoScribe returns the LOGO scribe.
func LogoScribe() *BinaryScribe { return NewBinaryScribe(vcard.PropLogo, logoHooks{}) }

// SoundScribe returns the SOUND scribe.
func SoundScribe() *BinaryScribe { return NewBinaryScribe(vcard.PropSound, soundHooks{}) }

// KeyScribe returns the KEY scribe.
func KeyScribe() *BinaryScribe { return NewBinaryScribe(vcard.PropKey, keyHooks{}) }

func (s *BinaryScribe) PropertyName() string { return s.name }

func (s *BinaryScribe) QName(vcard.Property) vcard.QName { return vcard.QName{} }

func (s *BinaryScribe) DefaultDataType(v vcard.Version) vcard.DataType {
	return v.Policy().EmbeddedDataType
}

func (s *BinaryScribe) DataType(p vcard.Property, v vcard.Version) vcard.DataType {
	b := binaryOf(p)
	switch {
	case b == nil:
	case b.HasURL():
		return v.Policy().URLDataType
	case b.HasData():
		return v.Policy().EmbeddedDataType
	}
	return s.DefaultDataType(v)
}

// PrepareParameters projects the content type into TYPE or MEDIATYPE and
// sets ENCODING for legacy payloads. A link takes precedence over a
// payload.
func (s *BinaryScribe) PrepareParameters(p vcard.Property, v vcard.Version, _ *vcard.Card) *vcard.Parameters {
	params := p.Parameters().Clone()
	b := binaryOf(p)
	if b == nil {
		return params
	}
	ct := b.ContentType()
	if ct == nil {
		ct = &vcard.MediaType{}
	}
	policy := v.Policy()

	switch {
	case b.HasURL():
		params.SetEncoding("")
		if policy.LegacyContentType {
			params.SetType(ct.Value)
			params.SetMediaType("")
		} else {
			// TYPE may hold "home" or "work" in 4.0.
			params.SetMediaType(ct.MediaType())
		}
	case b.HasData():
		params.SetMediaType("")
		if policy.LegacyContentType {
			params.SetEncoding(policy.Base64)
			params.SetType(ct.Value)
		} else {
			params.SetEncoding("")
		}
	}
	return params
}

func (s *BinaryScribe) WriteText(p vcard.Property, v vcard.Version) (string, Outcome) {
	return s.write(p, v), Emit()
}

func (s *BinaryScribe) ParseText(value string, dataType vcard.DataType, v vcard.Version, params *vcard.Parameters, w *vcard.Warnings) (vcard.Property, error) {
	return s.parse(UnescapeText(value), dataType, params, v, w), nil
}

func (s *BinaryScribe) WriteXML(p vcard.Property, el *XMLElement) Outcome {
	el.Append(vcard.DataTypeURI, s.write(p, el.Version()))
	return Emit()
}

func (s *BinaryScribe) ParseXML(el *XMLElement, params *vcard.Parameters, w *vcard.Warnings) (vcard.Property, error) {
	value, ok := el.First(vcard.DataTypeURI)
	if !ok {
		return nil, missingElement(vcard.DataTypeURI)
	}
	return s.parse(value, vcard.DataTypeURI, params, el.Version(), w), nil
}

func (s *BinaryScribe) WriteJSON(p vcard.Property) (JSONValue, Outcome) {
	return SingleJSON(s.write(p, vcard.V4_0)), Emit()
}

func (s *BinaryScribe) ParseJSON(value JSONValue, dataType vcard.DataType, params *vcard.Parameters, w *vcard.Warnings) (vcard.Property, error) {
	return s.parse(value.AsSingle(), dataType, params, vcard.V4_0, w), nil
}

// WriteHTML renders the value as an <object> element. Properties without a
// value are omitted.
func (s *BinaryScribe) WriteHTML(p vcard.Property, el *HTMLElement) Outcome {
	value := s.write(p, vcard.V4_0)
	if value == "" {
		return Omit("property has no value")
	}
	el.SetTag("object")
	el.SetAttr("data", value)
	if b := binaryOf(p); b != nil {
		if mt := b.ContentType().MediaType(); mt != "" {
			el.SetAttr("type", mt)
		}
	}
	return Emit()
}

// ParseHTML understands only <object data="..."> elements.
func (s *BinaryScribe) ParseHTML(el *HTMLElement, w *vcard.Warnings) (vcard.Property, error) {
	if tag := el.TagName(); tag != "object" {
		return nil, cannotParse("cannot parse <%s> tag (<object> tag expected)", tag)
	}
	data := el.AbsURL("data")
	if data == "" {
		return nil, cannotParse("<object> tag does not have a \"data\" attribute")
	}
	if uri, err := vcard.ParseDataURI(data); err == nil {
		return s.hooks.NewData(uri.Data, s.hooks.BuildMediaType(uri.ContentType)), nil
	}
	var ct *vcard.MediaType
	if typ := el.Attr("type"); typ != "" {
		ct = s.hooks.BuildMediaType(typ)
	}
	return s.hooks.NewURL(data, ct), nil
}

// write renders the value for version v: the link verbatim, a base64 payload
// for legacy versions, a data URI for 4.0, or "" when the value is empty.
func (s *BinaryScribe) write(p vcard.Property, v vcard.Version) string {
	b := binaryOf(p)
	switch {
	case b == nil:
		return ""
	case b.HasURL():
		return b.URL()
	case b.HasData():
		if v.IsLegacy() {
			return vcard.EncodeBase64(b.Data())
		}
		mediaType := b.ContentType().MediaType()
		if mediaType == "" {
			mediaType = vcard.DefaultMediaType
		}
		return vcard.NewDataURI(mediaType, b.Data()).String()
	}
	return ""
}

func (s *BinaryScribe) parse(value string, dataType vcard.DataType, params *vcard.Parameters, v vcard.Version, w *vcard.Warnings) vcard.BinaryProperty {
	if params == nil {
		params = vcard.NewParameters()
	}
	ct := s.parseContentType(params, v)

	var prop vcard.BinaryProperty
	if v.IsLegacy() {
		switch {
		case dataType.IsLink():
			prop = s.hooks.NewURL(value, ct)
		case params.Encoding().IsBase64():
			prop = s.hooks.NewData(vcard.DecodeBase64Lenient(value), ct)
		}
	} else if uri, err := vcard.ParseDataURI(value); err == nil {
		prop = s.hooks.NewData(uri.Data, s.hooks.BuildMediaType(uri.ContentType))
	}
	if prop == nil {
		prop = s.cannotUnmarshalValue(value, v, w, ct)
	}

	params.SetEncoding("")
	AdoptParameters(prop, params)
	return prop
}

// parseContentType reads the content type from TYPE (legacy) or MEDIATYPE
// (4.0) and removes the value it used from params.
func (s *BinaryScribe) parseContentType(params *vcard.Parameters, v vcard.Version) *vcard.MediaType {
	if v.Policy().LegacyContentType {
		typ := params.Type()
		if typ == "" {
			return nil
		}
		params.RemoveValue(vcard.ParamType, typ)
		return s.hooks.BuildTypeObj(typ)
	}
	mediaType := params.MediaType()
	if mediaType == "" {
		return nil
	}
	params.SetMediaType("")
	return s.hooks.BuildMediaType(mediaType)
}

// cannotUnmarshalValue guesses what an unresolved value is. It never fails:
// legacy values that do not look like links are decoded as base64 whatever
// they contain, and 4.0 values are taken as links.
func (s *BinaryScribe) cannotUnmarshalValue(value string, v vcard.Version, _ *vcard.Warnings, ct *vcard.MediaType) vcard.BinaryProperty {
	log.Debugf("%s: unresolved %s value, guessing", s.name, v)
	if v.IsLegacy() {
		if strings.HasPrefix(value, "http") {
			return s.hooks.NewURL(value, ct)
		}
		return s.hooks.NewData(vcard.DecodeBase64Lenient(value), ct)
	}
	return s.hooks.NewURL(value, ct)
}

func binaryOf(p vcard.Property) *vcard.Binary {
	if bp, ok := p.(vcard.BinaryProperty); ok {
		return bp.BinaryValue()
	}
	return nil
}

type photoHooks struct{}

func (photoHooks) BuildMediaType(mt string) *vcard.MediaType { return vcard.ImageTypes.FromMediaType(mt) }
func (photoHooks) BuildTypeObj(typ string) *vcard.MediaType  { return vcard.ImageTypes.FromType(typ) }
func (photoHooks) NewURL(url string, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewPhotoURL(url, ct)
}
func (photoHooks) NewData(data []byte, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewPhotoData(data, ct)
}

type logoHooks struct{}

func (logoHooks) BuildMediaType(mt string) *vcard.MediaType { return vcard.ImageTypes.FromMediaType(mt) }
func (logoHooks) BuildTypeObj(typ string) *vcard.MediaType  { return vcard.ImageTypes.FromType(typ) }
func (logoHooks) NewURL(url string, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewLogoURL(url, ct)
}
func (logoHooks) NewData(data []byte, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewLogoData(data, ct)
}

type soundHooks struct{}

func (soundHooks) BuildMediaType(mt string) *vcard.MediaType { return vcard.SoundTypes.FromMediaType(mt) }
func (soundHooks) BuildTypeObj(typ string) *vcard.MediaType  { return vcard.SoundTypes.FromType(typ) }
func (soundHooks) NewURL(url string, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewSoundURL(url, ct)
}
func (soundHooks) NewData(data []byte, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewSoundData(data, ct)
}

type keyHooks struct{}

func (keyHooks) BuildMediaType(mt string) *vcard.MediaType { return vcard.KeyTypes.FromMediaType(mt) }
func (keyHooks) BuildTypeObj(typ string) *vcard.MediaType  { return vcard.KeyTypes.FromType(typ) }
func (keyHooks) NewURL(url string, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewKeyURL(url, ct)
}
func (keyHooks) NewData(data []byte, ct *vcard.MediaType) vcard.BinaryProperty {
	return vcard.NewKeyData(data, ct)
}
