// Package nav derives the visible menu tree from the static sidebar
// definition and the current session.
package nav

import "github.com/ecsproull/edandlinda/pkg/roles"

// Item is one sidebar entry. Path may be empty for group items whose
// SubItems carry the navigation targets.
type Item struct {
	ID           int
	Label        string
	Icon         string
	Path         string
	AllowedRoles []roles.Role
	SubItems     []Item
}

// Session is the read-only view of session state the filter needs.
type Session interface {
	Loading() bool
	Authenticated() bool
	HasAnyRole(rs ...roles.Role) bool
}

// Filter returns the menu items visible to the current session, preserving
// definition order. A parent whose children all filtered out and which has
// no path of its own is dropped.
func Filter(items []Item, s Session) []Item {
	keep := func(it Item) bool {
		if len(it.AllowedRoles) == 0 {
			return true
		}
		if s.Loading() || !s.Authenticated() {
			// Signed-out visitors see only base-level items.
			return roles.Contains(it.AllowedRoles, roles.User)
		}
		return s.HasAnyRole(it.AllowedRoles...)
	}

	var visible []Item
	for _, it := range items {
		if !keep(it) {
			continue
		}
		if len(it.SubItems) > 0 {
			it.SubItems = Filter(it.SubItems, s)
			if len(it.SubItems) == 0 && it.Path == "" {
				continue
			}
		}
		visible = append(visible, it)
	}
	return visible
}
