package vcard

import (
	"strconv"
	"strings"
)

// Parameter names.
const (
	ParamAltID     = "altid"
	ParamCalScale  = "calscale"
	ParamEncoding  = "encoding"
	ParamGeo       = "geo"
	ParamLabel     = "label"
	ParamLanguage  = "language"
	ParamMediaType = "mediatype"
	ParamPID       = "pid"
	ParamPref      = "pref"
	ParamSortAs    = "sort-as"
	ParamType      = "type"
	ParamTZ        = "tz"
	ParamValue     = "value"
)

// Parameters is the parameter table of a single property: an ordered
// multimap from case-insensitive parameter name to string values. Names keep
// the order in which they were first added.
//
// The zero value is an empty table ready to use.
type Parameters struct {
	names  []string
	values map[string][]string
}

// NewParameters returns an empty table.
func NewParameters() *Parameters {
	return &Parameters{}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add appends a value to the named parameter.
func (p *Parameters) Add(name, value string) {
	name = normalizeName(name)
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = append(p.values[name], value)
}

// Set replaces all values of the named parameter. Calling Set with no values
// or a single empty value removes the parameter.
func (p *Parameters) Set(name string, values ...string) {
	if len(values) == 0 || (len(values) == 1 && values[0] == "") {
		p.Remove(name)
		return
	}
	name = normalizeName(name)
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = append([]string(nil), values...)
}

// Get returns the first value of the named parameter, or "".
func (p *Parameters) Get(name string) string {
	if p == nil {
		return ""
	}
	vs := p.values[normalizeName(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// All returns a copy of every value of the named parameter.
func (p *Parameters) All(name string) []string {
	if p == nil {
		return nil
	}
	vs := p.values[normalizeName(name)]
	if len(vs) == 0 {
		return nil
	}
	return append([]string(nil), vs...)
}

// Has reports whether the named parameter is present.
func (p *Parameters) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.values[normalizeName(name)]
	return ok
}

// Remove deletes the named parameter and all its values.
func (p *Parameters) Remove(name string) {
	if p == nil || p.values == nil {
		return
	}
	name = normalizeName(name)
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	for i, n := range p.names {
		if n == name {
			p.names = append(p.names[:i:i], p.names[i+1:]...)
			break
		}
	}
}

// RemoveValue deletes one value of the named parameter, matched
// case-insensitively. The parameter goes away with its last value.
func (p *Parameters) RemoveValue(name, value string) {
	if p == nil || p.values == nil {
		return
	}
	name = normalizeName(name)
	vs := p.values[name]
	for i, v := range vs {
		if strings.EqualFold(v, value) {
			vs = append(vs[:i:i], vs[i+1:]...)
			break
		}
	}
	if len(vs) == 0 {
		p.Remove(name)
		return
	}
	p.values[name] = vs
}

// Names returns the parameter names in first-seen order.
func (p *Parameters) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Len returns the number of distinct parameter names.
func (p *Parameters) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// IsEmpty reports whether the table has no parameters.
func (p *Parameters) IsEmpty() bool {
	return p.Len() == 0
}

// Clone returns a deep copy. Mutating the copy never affects p.
func (p *Parameters) Clone() *Parameters {
	c := &Parameters{}
	if p == nil {
		return c
	}
	for _, name := range p.names {
		for _, v := range p.values[name] {
			c.Add(name, v)
		}
	}
	return c
}

// Encoding returns the ENCODING parameter.
func (p *Parameters) Encoding() Encoding {
	return Encoding(p.Get(ParamEncoding))
}

// SetEncoding sets or, for "", removes the ENCODING parameter.
func (p *Parameters) SetEncoding(e Encoding) {
	p.Set(ParamEncoding, string(e))
}

// MediaType returns the MEDIATYPE parameter.
func (p *Parameters) MediaType() string {
	return p.Get(ParamMediaType)
}

// SetMediaType sets or, for "", removes the MEDIATYPE parameter.
func (p *Parameters) SetMediaType(mediaType string) {
	p.Set(ParamMediaType, mediaType)
}

// Type returns the first TYPE parameter value.
func (p *Parameters) Type() string {
	return p.Get(ParamType)
}

// Types returns every TYPE value.
func (p *Parameters) Types() []string {
	return p.All(ParamType)
}

// SetType replaces all TYPE values with t, or removes TYPE for "".
func (p *Parameters) SetType(t string) {
	p.Set(ParamType, t)
}

// Value returns the VALUE parameter.
func (p *Parameters) Value() DataType {
	return ParseDataType(p.Get(ParamValue))
}

// SetValue sets or, for DataTypeNone, removes the VALUE parameter.
func (p *Parameters) SetValue(d DataType) {
	p.Set(ParamValue, string(d))
}

// Language returns the LANGUAGE parameter.
func (p *Parameters) Language() string {
	return p.Get(ParamLanguage)
}

// Pref returns the PREF parameter, or 0 when absent or malformed.
func (p *Parameters) Pref() int {
	n, err := strconv.Atoi(p.Get(ParamPref))
	if err != nil {
		return 0
	}
	return n
}
