package scribe

import (
	"strings"
	"sync"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

// Registry maps property names and xCard qualified names to scribes.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Scribe
	byQName map[vcard.QName]Scribe
}

// NewRegistry returns a registry holding the built-in scribes.
func NewRegistry() *Registry {
	r := &Registry{
		byName:  make(map[string]Scribe),
		byQName: make(map[vcard.QName]Scribe),
	}
	for _, s := range []Scribe{
		FormattedNameScribe(),
		NoteScribe(),
		EmailScribe(),
		MailerScribe(),
		ProductIDScribe(),
		KindScribe(),
		MemberScribe(),
		PhotoScribe(),
		LogoScribe(),
		SoundScribe(),
		KeyScribe(),
	} {
		r.Register(s)
	}
	return r
}

// Register adds or replaces the scribe for s.PropertyName().
func (r *Registry) Register(s Scribe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[strings.ToUpper(s.PropertyName())] = s
}

// RegisterQName registers s under its property name and also under an xCard
// qualified name, so readers can map foreign elements back to it.
func (r *Registry) RegisterQName(q vcard.QName, s Scribe) {
	r.Register(s)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byQName[q] = s
}

// Lookup returns the scribe for a property name. Unknown names get an
// extended scribe, so Lookup never returns nil.
func (r *Registry) Lookup(name string) Scribe {
	name = strings.ToUpper(name)
	r.mu.RLock()
	s, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return s
	}
	return NewExtendedScribe(name, vcard.QName{})
}

// Get returns the scribe registered for name without falling back to an
// extended scribe.
func (r *Registry) Get(name string) (Scribe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[strings.ToUpper(name)]
	return s, ok
}

// LookupQName returns the scribe registered for an xCard qualified name, or
// nil.
func (r *Registry) LookupQName(q vcard.QName) Scribe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byQName[q]
}

// ScribeFor returns the scribe for a property instance.
func (r *Registry) ScribeFor(p vcard.Property) Scribe {
	return r.Lookup(p.Name())
}
