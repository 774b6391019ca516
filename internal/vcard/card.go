package vcard

import (
	"fmt"
	"strings"
)

// Card is an ordered collection of properties. It is not safe for
// concurrent mutation.
type Card struct {
	// Version is the version the card was read as. Writers choose their
	// own target version.
	Version    Version
	properties []Property
}

// NewCard returns an empty 4.0 card.
func NewCard() *Card {
	return &Card{Version: V4_0}
}

// Add appends properties in order.
func (c *Card) Add(props ...Property) {
	for _, p := range props {
		if p != nil {
			c.properties = append(c.properties, p)
		}
	}
}

// AddGrouped tags p with group and appends it.
func (c *Card) AddGrouped(group string, p Property) {
	p.SetGroup(group)
	c.Add(p)
}

// Properties returns the properties in insertion order. The slice is a
// copy; the properties are shared.
func (c *Card) Properties() []Property {
	return append([]Property(nil), c.properties...)
}

// PropertiesNamed returns every property with the given name.
func (c *Card) PropertiesNamed(name string) []Property {
	var out []Property
	for _, p := range c.properties {
		if strings.EqualFold(p.Name(), name) {
			out = append(out, p)
		}
	}
	return out
}

// Remove deletes p from the card. It reports whether p was present.
func (c *Card) Remove(p Property) bool {
	for i, candidate := range c.properties {
		if candidate == p {
			c.properties = append(c.properties[:i], c.properties[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of properties.
func (c *Card) Len() int { return len(c.properties) }

// Kind returns the first KIND property, or nil.
func (c *Card) Kind() *Kind {
	for _, p := range c.properties {
		if k, ok := p.(*Kind); ok {
			return k
		}
	}
	return nil
}

// FormattedName returns the first FN property, or nil.
func (c *Card) FormattedName() *FormattedName {
	for _, p := range c.properties {
		if fn, ok := p.(*FormattedName); ok {
			return fn
		}
	}
	return nil
}

// DisplayName returns the FN value or "".
func (c *Card) DisplayName() string {
	if fn := c.FormattedName(); fn != nil {
		return fn.Value
	}
	return ""
}

// Warnings collects non-fatal problems found while reading or writing.
// A nil *Warnings discards everything.
type Warnings struct {
	list []string
}

// Addf records a formatted warning.
func (w *Warnings) Addf(format string, args ...any) {
	if w == nil {
		return
	}
	w.list = append(w.list, fmt.Sprintf(format, args...))
}

// Add records warnings verbatim.
func (w *Warnings) Add(msgs ...string) {
	if w == nil {
		return
	}
	w.list = append(w.list, msgs...)
}

// List returns a copy of the recorded warnings.
func (w *Warnings) List() []string {
	if w == nil || len(w.list) == 0 {
		return nil
	}
	return append([]string(nil), w.list...)
}

// Len returns the number of warnings.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return len(w.list)
}

// Reset drops every warning.
func (w *Warnings) Reset() {
	if w != nil {
		w.list = w.list[:0]
	}
}
