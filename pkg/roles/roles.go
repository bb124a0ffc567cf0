// Package roles defines the closed set of permission levels attached to a
// user identity.
package roles

import "fmt"

// Role is one of the fixed permission levels. Levels are ordered, but
// authorization checks use set membership, not level comparison.
type Role int

const (
	User Role = iota + 1
	Manuals
	Commentor
	Creator
	Admin
)

var names = map[Role]string{
	User:      "User",
	Manuals:   "Manuals",
	Commentor: "Commentor",
	Creator:   "Creator",
	Admin:     "Admin",
}

// All lists every role, lowest level first.
var All = []Role{User, Manuals, Commentor, Creator, Admin}

func (r Role) String() string {
	if name, ok := names[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Level returns the numeric level of the role (User=1 .. Admin=5).
func (r Role) Level() int {
	return int(r)
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := names[r]
	return ok
}

// Parse converts a role name as carried in the token payload to a Role.
func Parse(s string) (Role, error) {
	for role, name := range names {
		if name == s {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Contains reports whether set includes r.
func Contains(set []Role, r Role) bool {
	for _, member := range set {
		if member == r {
			return true
		}
	}
	return false
}
