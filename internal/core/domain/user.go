package domain

import (
	"fmt"
	"strings"
)

// Role is the authorization label attached to a User.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
	RoleStudent Role = "STUDENT"
)

// Roles lists every representable Role.
var Roles = []Role{RoleAdmin, RoleStaff, RoleStudent}

// ParseRole converts s to a Role. Matching is exact; unknown values are rejected.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleStudent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User is an authenticated actor. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string `json:"-"`
	Role         Role
}

// Validate checks the structural invariants of a User. The password hash is
// not inspected.
func (u *User) Validate() error {
	fields := map[string]string{}
	requireText(fields, "username", u.Username)
	if !u.Role.Valid() {
		fields["role"] = "must be one of: ADMIN STAFF STUDENT"
	}
	return fieldsError(fields)
}
