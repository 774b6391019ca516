package scribe

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

// NewElement creates a detached element named local in namespace ns. The
// default namespace is declared on the element only when it differs from
// parentNS, the namespace the element will inherit once attached.
func NewElement(local, ns, parentNS string) *etree.Element {
	el := etree.NewElement(local)
	if ns != parentNS {
		el.CreateAttr("xmlns", ns)
	}
	return el
}

// XMLElement is the xCard element of a single property, handed to scribes
// to append or read value elements.
type XMLElement struct {
	el      *etree.Element
	ns      string
	version vcard.Version
}

// NewXMLElement wraps el, whose namespace is ns, for version v.
func NewXMLElement(el *etree.Element, ns string, v vcard.Version) *XMLElement {
	return &XMLElement{el: el, ns: ns, version: v}
}

// Element returns the wrapped element.
func (x *XMLElement) Element() *etree.Element { return x.el }

// Version returns the version of the document being read or written.
func (x *XMLElement) Version() vcard.Version { return x.version }

// Namespace returns the namespace of the wrapped element.
func (x *XMLElement) Namespace() string { return x.ns }

// Append adds a value element named after the data type. DataTypeNone is
// written as <unknown>.
func (x *XMLElement) Append(dataType vcard.DataType, value string) *etree.Element {
	name := string(dataType)
	if name == "" {
		name = string(vcard.DataTypeUnknown)
	}
	child := NewElement(name, x.version.Policy().Namespace, x.ns)
	child.SetText(value)
	x.el.AddChild(child)
	return child
}

// First returns the text of the first value element named after the data
// type.
func (x *XMLElement) First(dataType vcard.DataType) (string, bool) {
	name := string(dataType)
	if name == "" {
		name = string(vcard.DataTypeUnknown)
	}
	for _, child := range x.el.ChildElements() {
		if child.Tag == name {
			return child.Text(), true
		}
	}
	return "", false
}

// Values returns the value elements: every child except <parameters>.
func (x *XMLElement) Values() []*etree.Element {
	var out []*etree.Element
	for _, child := range x.el.ChildElements() {
		if child.Tag != "parameters" {
			out = append(out, child)
		}
	}
	return out
}

// JSONValue is the value part of a jCard property array.
type JSONValue struct {
	Values []any
}

// SingleJSON wraps a single value.
func SingleJSON(v any) JSONValue {
	return JSONValue{Values: []any{v}}
}

// AsSingle returns the first value as a string. Non-string scalars are
// formatted; a missing or null value yields "".
func (j JSONValue) AsSingle() string {
	if len(j.Values) == 0 || j.Values[0] == nil {
		return ""
	}
	switch v := j.Values[0].(type) {
	case string:
		return v
	case []any:
		return JSONValue{Values: v}.AsSingle()
	default:
		return fmt.Sprint(v)
	}
}

// HTMLElement is an HTML element that carries one hCard property.
type HTMLElement struct {
	node *html.Node
	base *url.URL
}

// NewHTMLElement wraps n. Relative URLs in attributes are resolved against
// base, which may be nil.
func NewHTMLElement(n *html.Node, base *url.URL) *HTMLElement {
	return &HTMLElement{node: n, base: base}
}

// Node returns the wrapped node.
func (h *HTMLElement) Node() *html.Node { return h.node }

// TagName returns the lower-cased tag name.
func (h *HTMLElement) TagName() string { return strings.ToLower(h.node.Data) }

// Attr returns an attribute value, or "".
func (h *HTMLElement) Attr(key string) string {
	for _, a := range h.node.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// AbsURL returns an attribute as an absolute URL. Absolute values (including
// data URIs) are returned untouched; relative ones are resolved against the
// base URL when there is one.
func (h *HTMLElement) AbsURL(key string) string {
	raw := strings.TrimSpace(h.Attr(key))
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() || h.base == nil {
		return raw
	}
	return h.base.ResolveReference(ref).String()
}

// Text returns the element's text content with whitespace collapsed.
func (h *HTMLElement) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(h.node)
	return strings.Join(strings.Fields(b.String()), " ")
}

// SetTag renames the element.
func (h *HTMLElement) SetTag(name string) {
	h.node.Data = name
	h.node.DataAtom = 0
}

// SetAttr sets or replaces an attribute.
func (h *HTMLElement) SetAttr(key, val string) {
	for i, a := range h.node.Attr {
		if strings.EqualFold(a.Key, key) {
			h.node.Attr[i].Val = val
			return
		}
	}
	h.node.Attr = append(h.node.Attr, html.Attribute{Key: key, Val: val})
}

// SetText replaces the element's children with a text node.
func (h *HTMLElement) SetText(text string) {
	for c := h.node.FirstChild; c != nil; {
		next := c.NextSibling
		h.node.RemoveChild(c)
		c = next
	}
	h.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
