// Package peercard maps Space Data Network peer profiles to and from vCards.
//
// A profile travels as an ordinary card (FN, ORG, NOTE) plus the X-SDN-*
// extension properties. In xCard output the extension properties are written
// in the SDN XML namespace rather than the vCard one; use Registry so readers
// map those elements back.
package peercard

import (
	"errors"
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"

	"github.com/spacedatanetwork/sdn-vcard/internal/scribe"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var log = logging.Logger("peercard")

// NamespaceSDN is the XML namespace of the X-SDN-* properties in xCard.
const NamespaceSDN = "https://spacedatanetwork.org/ns/vcard"

// SDN vCard extended property names.
const (
	PropPeerID    = "X-SDN-PEER-ID"
	PropMultiaddr = "X-SDN-MULTIADDR"
	PropTrust     = "X-SDN-TRUST-LEVEL"
	PropGroup     = "X-SDN-GROUP"

	propOrg = "ORG"
)

// Errors
var (
	ErrMissingPeerID = errors.New("vCard missing " + PropPeerID + " property")
	ErrInvalidPeerID = errors.New("invalid peer ID in vCard")
	ErrNoProfiles    = errors.New("no valid SDN peer information found in vCard data")
)

var sdnProps = []string{PropPeerID, PropMultiaddr, PropTrust, PropGroup}

// Profile is the SDN view of a peer.
type Profile struct {
	PeerID       peer.ID
	Name         string
	Organization string
	Addrs        []multiaddr.Multiaddr
	TrustLevel   TrustLevel
	Groups       []string
	Notes        string
}

// QName returns the xCard element name of an X-SDN-* property:
// X-SDN-PEER-ID becomes {NamespaceSDN}peer-id.
func QName(prop string) vcard.QName {
	local := strings.TrimPrefix(strings.ToUpper(prop), "X-SDN-")
	return vcard.QName{Space: NamespaceSDN, Local: strings.ToLower(local)}
}

// Registry returns the built-in scribes plus scribes for the X-SDN-*
// properties, registered under their SDN qualified names.
func Registry() *scribe.Registry {
	r := scribe.NewRegistry()
	for _, name := range sdnProps {
		q := QName(name)
		r.RegisterQName(q, scribe.NewExtendedScribe(name, q))
	}
	return r
}

func sdnProperty(name, value string) *vcard.Extended {
	e := vcard.NewExtended(name, value)
	e.DataType = vcard.DataTypeText
	e.XMLName = QName(name)
	return e
}

// Card converts the profile to a card. A profile without a name is named
// after its short peer ID.
func (p *Profile) Card() *vcard.Card {
	card := vcard.NewCard()

	name := p.Name
	if name == "" {
		name = p.PeerID.ShortString()
	}
	card.Add(vcard.NewFormattedName(name))
	if p.Organization != "" {
		org := vcard.NewExtended(propOrg, p.Organization)
		org.DataType = vcard.DataTypeText
		card.Add(org)
	}
	if p.Notes != "" {
		card.Add(vcard.NewNote(p.Notes))
	}

	card.Add(sdnProperty(PropPeerID, p.PeerID.String()))
	card.Add(sdnProperty(PropTrust, p.TrustLevel.String()))
	for _, addr := range p.Addrs {
		card.Add(sdnProperty(PropMultiaddr, addr.String()))
	}
	for _, group := range p.Groups {
		card.Add(sdnProperty(PropGroup, group))
	}
	return card
}

// FromCard extracts a profile from a card. X-SDN-PEER-ID is required;
// unparsable addresses are dropped and an unknown trust level reads as
// Standard.
func FromCard(card *vcard.Card) (*Profile, error) {
	raw := firstValue(card, PropPeerID)
	if raw == "" {
		return nil, ErrMissingPeerID
	}
	id, err := peer.Decode(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidPeerID, err)
	}

	p := &Profile{
		PeerID:       id,
		Name:         card.DisplayName(),
		Organization: firstValue(card, propOrg),
		TrustLevel:   Standard,
	}
	for _, note := range card.PropertiesNamed(vcard.PropNote) {
		if n, ok := note.(*vcard.Note); ok {
			p.Notes = n.Value
			break
		}
	}

	if tl := firstValue(card, PropTrust); tl != "" {
		if level, err := ParseTrustLevel(tl); err == nil {
			p.TrustLevel = level
		} else {
			log.Debugf("peer %s: ignoring trust level %q", id, tl)
		}
	}
	for _, value := range values(card, PropMultiaddr) {
		addr, err := multiaddr.NewMultiaddr(value)
		if err != nil {
			log.Debugf("peer %s: dropping address %q: %s", id, value, err)
			continue
		}
		p.Addrs = append(p.Addrs, addr)
	}
	p.Groups = values(card, PropGroup)
	return p, nil
}

// FromCards extracts every profile it can. Cards without valid peer
// information are skipped; ErrNoProfiles is returned when none remain.
func FromCards(cards []*vcard.Card) ([]*Profile, error) {
	var profiles []*Profile
	for i, card := range cards {
		p, err := FromCard(card)
		if err != nil {
			log.Debugf("skipping card %d: %s", i, err)
			continue
		}
		profiles = append(profiles, p)
	}
	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}
	return profiles, nil
}

func values(card *vcard.Card, name string) []string {
	var out []string
	for _, prop := range card.PropertiesNamed(name) {
		if e, ok := prop.(*vcard.Extended); ok && e.Value != "" {
			out = append(out, strings.TrimSpace(e.Value))
		}
	}
	return out
}

func firstValue(card *vcard.Card, name string) string {
	if v := values(card, name); len(v) > 0 {
		return v[0]
	}
	return ""
}

// String renders a one-line summary, for logs and CLI output.
func (p *Profile) String() string {
	return fmt.Sprintf("%s (%s, %s, %d addrs)", p.PeerID, p.Name, p.TrustLevel, len(p.Addrs))
}
