package permission

import "strings"

// RoleSet is a bitmask of roles; bit i is set when Role(i) is a member.
type RoleSet uint64

// NewRoleSet builds a set from the given roles. Invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s.Add(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	if !r.Valid() {
		return false
	}
	return s&(1<<r) != 0
}

func (s *RoleSet) Add(r Role) {
	if !r.Valid() {
		return
	}
	*s |= 1 << r
}

func (s *RoleSet) Remove(r Role) {
	if !r.Valid() {
		return
	}
	*s &^= 1 << r
}

func (s RoleSet) Empty() bool {
	return s == 0
}

// Roles lists the members in ordinal order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, roleCount)
	for _, r := range AllRoles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
