package permission

import (
	"errors"
	"strings"
)

// ErrUnknownRole is returned when a role name is not part of the enumeration.
var ErrUnknownRole = errors.New("unknown role")

// Role is one of the campus portal principals. The zero value means "not supplied".
type Role uint8

const (
	// RoleUnknown is the zero value and never identifies a real user.
	RoleUnknown Role = iota
	// RoleStudent browses public listings and the student dashboard.
	RoleStudent
	// RoleCommitteeHead manages event postings.
	RoleCommitteeHead
	// RoleInternshipCell manages internship postings.
	RoleInternshipCell
	// RoleExamCell manages exam documents.
	RoleExamCell
	roleCount
)

var roleNames = [roleCount]string{
	RoleUnknown:        "",
	RoleStudent:        "student",
	RoleCommitteeHead:  "committee-head",
	RoleInternshipCell: "internship-cell",
	RoleExamCell:       "exam-cell",
}

var homePaths = [roleCount]string{
	RoleUnknown:        "/",
	RoleStudent:        "/dashboard/student",
	RoleCommitteeHead:  "/dashboard/committee",
	RoleInternshipCell: "/dashboard/internship",
	RoleExamCell:       "/dashboard/exam-cell",
}

// AllRoles returns every enumerated role in ordinal order.
func AllRoles() []Role {
	return []Role{RoleStudent, RoleCommitteeHead, RoleInternshipCell, RoleExamCell}
}

// String returns the canonical wire name ("committee-head", ...).
func (r Role) String() string {
	if !r.Valid() {
		return ""
	}
	return roleNames[r]
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r > RoleUnknown && r < roleCount
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value decodes to
// RoleUnknown so that optional fields stay optional.
func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RoleUnknown
		return nil
	}
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole maps a canonical role name to its [Role].
func ParseRole(name string) (Role, error) {
	for i := RoleStudent; i < roleCount; i++ {
		if roleNames[i] == name {
			return i, nil
		}
	}
	return RoleUnknown, ErrUnknownRole
}

// HomePath returns the dashboard path for role, or "/" for anything outside the enumeration.
func HomePath(r Role) string {
	if !r.Valid() {
		return homePaths[RoleUnknown]
	}
	return homePaths[r]
}

// RoleFromEmail derives a role from an email address. The checks run in priority order,
// so "committee.exam@x" is a committee head.
func RoleFromEmail(email string) Role {
	switch {
	case strings.Contains(email, "committee"):
		return RoleCommitteeHead
	case strings.Contains(email, "internship"):
		return RoleInternshipCell
	case strings.Contains(email, "exam"):
		return RoleExamCell
	default:
		return RoleStudent
	}
}
