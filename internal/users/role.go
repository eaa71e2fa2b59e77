package users

import "fmt"

// Role classifies an identity. An identity is either an artist or a wall
// owner, never both.
type Role string

const (
	RoleArtist    Role = "artist"
	RoleWallOwner Role = "wall_owner"
	RoleNone      Role = "none"
)

// ParseRole accepts the two assignable roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleArtist, RoleWallOwner:
		return Role(s), nil
	default:
		return RoleNone, fmt.Errorf("unknown role %q", s)
	}
}

// Resolution is the outcome of role lookup. Ambiguous is set when the
// identity has both an artist and a wall-owner record; Role is then artist.
type Resolution struct {
	Role      Role `json:"role"`
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Resolve maps record membership to a role. Artist takes precedence.
func Resolve(isArtist, isWallOwner bool) Resolution {
	switch {
	case isArtist && isWallOwner:
		return Resolution{Role: RoleArtist, Ambiguous: true}
	case isArtist:
		return Resolution{Role: RoleArtist}
	case isWallOwner:
		return Resolution{Role: RoleWallOwner}
	default:
		return Resolution{Role: RoleNone}
	}
}
