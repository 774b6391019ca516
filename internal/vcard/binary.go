package vcard

// Binary is the value of a property that holds either a link to a remote
// resource or an embedded payload, never both. When neither is set the
// property serializes to an empty value.
type Binary struct {
	PropertyBase
	url         string
	data        []byte
	contentType *MediaType
}

// BinaryProperty is implemented by every property built on Binary.
type BinaryProperty interface {
	Property
	BinaryValue() *Binary
}

// BinaryValue returns the receiver; it lets scribes reach the shared state
// of any binary property type.
func (b *Binary) BinaryValue() *Binary { return b }

// URL returns the remote resource link, or "".
func (b *Binary) URL() string { return b.url }

// Data returns the embedded payload, or nil.
func (b *Binary) Data() []byte { return b.data }

// ContentType returns the content type descriptor, or nil.
func (b *Binary) ContentType() *MediaType { return b.contentType }

// HasURL reports whether the value is a link.
func (b *Binary) HasURL() bool { return b.url != "" }

// HasData reports whether the value is an embedded payload.
func (b *Binary) HasData() bool { return b.data != nil }

// SetURL makes the value a link and drops any payload.
func (b *Binary) SetURL(url string, contentType *MediaType) {
	b.url = url
	b.data = nil
	b.contentType = contentType
}

// SetData makes the value an embedded payload and drops any link.
func (b *Binary) SetData(data []byte, contentType *MediaType) {
	if data == nil {
		data = []byte{}
	}
	b.data = data
	b.url = ""
	b.contentType = contentType
}

// SetContentType replaces the content type descriptor.
func (b *Binary) SetContentType(contentType *MediaType) {
	b.contentType = contentType
}

// Photo is the PHOTO property.
type Photo struct{ Binary }

func (*Photo) Name() string { return PropPhoto }

// NewPhotoURL returns a PHOTO linking to url.
func NewPhotoURL(url string, contentType *MediaType) *Photo {
	p := &Photo{}
	p.SetURL(url, contentType)
	return p
}

// NewPhotoData returns a PHOTO embedding data.
func NewPhotoData(data []byte, contentType *MediaType) *Photo {
	p := &Photo{}
	p.SetData(data, contentType)
	return p
}

// Logo is the LOGO property.
type Logo struct{ Binary }

func (*Logo) Name() string { return PropLogo }

// NewLogoURL returns a LOGO linking to url.
func NewLogoURL(url string, contentType *MediaType) *Logo {
	l := &Logo{}
	l.SetURL(url, contentType)
	return l
}

// NewLogoData returns a LOGO embedding data.
func NewLogoData(data []byte, contentType *MediaType) *Logo {
	l := &Logo{}
	l.SetData(data, contentType)
	return l
}

// Sound is the SOUND property.
type Sound struct{ Binary }

func (*Sound) Name() string { return PropSound }

// NewSoundURL returns a SOUND linking to url.
func NewSoundURL(url string, contentType *MediaType) *Sound {
	s := &Sound{}
	s.SetURL(url, contentType)
	return s
}

// NewSoundData returns a SOUND embedding data.
func NewSoundData(data []byte, contentType *MediaType) *Sound {
	s := &Sound{}
	s.SetData(data, contentType)
	return s
}

// Key is the KEY property (a public key or certificate).
type Key struct{ Binary }

func (*Key) Name() string { return PropKey }

// NewKeyURL returns a KEY linking to url.
func NewKeyURL(url string, contentType *MediaType) *Key {
	k := &Key{}
	k.SetURL(url, contentType)
	return k
}

// NewKeyData returns a KEY embedding data.
func NewKeyData(data []byte, contentType *MediaType) *Key {
	k := &Key{}
	k.SetData(data, contentType)
	return k
}
