package peercard

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

// TrustLevel is the trust a node places in a peer.
type TrustLevel int

const (
	// Untrusted - No connection allowed
	Untrusted TrustLevel = iota
	// Limited - Read-only, rate-limited access
	Limited
	// Standard - Normal peer with standard access
	Standard
	// Trusted - Full access with priority routing
	Trusted
	// Admin - Can manage other peers
	Admin
)

// ErrInvalidTrustLevel is returned for an unknown trust level name.
var ErrInvalidTrustLevel = errors.New("invalid trust level")

func (t TrustLevel) String() string {
	switch t {
	case Untrusted:
		return "untrusted"
	case Limited:
		return "limited"
	case Standard:
		return "standard"
	case Trusted:
		return "trusted"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseTrustLevel converts a name such as "trusted" to a TrustLevel.
func ParseTrustLevel(s string) (TrustLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "untrusted":
		return Untrusted, nil
	case "limited":
		return Limited, nil
	case "standard":
		return Standard, nil
	case "trusted":
		return Trusted, nil
	case "admin":
		return Admin, nil
	default:
		return Untrusted, ErrInvalidTrustLevel
	}
}

// MarshalJSON implements json.Marshaler for TrustLevel.
func (t TrustLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler for TrustLevel.
func (t *TrustLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	level, err := ParseTrustLevel(s)
	if err != nil {
		return err
	}
	*t = level
	return nil
}
