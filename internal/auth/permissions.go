package auth

// Permission names known to the system. Grants are free-form strings so
// deployments can add their own; these are the ones the built-in routes
// check.
const (
	// PermAuthInfo allows reading other accounts' records.
	PermAuthInfo = "auth-info"
)

// PermissionSet answers containment queries for one account. The admin
// flag makes the set universal: every name is contained, including ones
// that have never been granted to anyone. Regular accounts contain
// exactly their granted names.
type PermissionSet struct {
	admin   bool
	granted map[string]struct{}
}

// NewPermissionSet builds a permission set from an admin flag and a list
// of granted authorisation names.
func NewPermissionSet(admin bool, granted []string) PermissionSet {
	set := PermissionSet{admin: admin}
	if len(granted) > 0 {
		set.granted = make(map[string]struct{}, len(granted))
		for _, name := range granted {
			set.granted[name] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the set holds the named permission.
func (s PermissionSet) Contains(name string) bool {
	if s.admin {
		return true
	}
	_, ok := s.granted[name]
	return ok
}

// IsAdmin reports whether the set is the universal admin set.
func (s PermissionSet) IsAdmin() bool {
	return s.admin
}

// Permissions returns the account's permission set, built from its admin
// flag and granted authorisations.
func (u *User) Permissions() PermissionSet {
	return NewPermissionSet(u.IsAdmin, u.Authorisations)
}
