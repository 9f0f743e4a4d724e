// Package authz holds the static authorization table consulted at the API
// boundary before any service call.
package authz

import (
	"net/http"
	"strings"

	"github.com/spaceapp/space-api/internal/core/domain"
)

// Operation is the kind of access being requested.
type Operation string

const (
	OpRead     Operation = "read"
	OpWrite    Operation = "write"
	OpQuery    Operation = "query"
	OpMutation Operation = "mutation"
	OpOther    Operation = "other"
)

// Resource is the thing being accessed.
type Resource string

const (
	ResourcePlanets Resource = "planets"
	ResourceMoons   Resource = "moons"
	ResourceUser    Resource = "user"
	ResourceOther   Resource = "other"
)

type rule struct {
	op       Operation
	resource Resource
}

// Policy maps (operation, resource) to the roles allowed to perform it.
// Pairs without an entry are open to any authenticated role.
type Policy struct {
	rules map[rule][]domain.Role
}

// Default returns the service's authorization table.
func Default() *Policy {
	everyone := domain.Roles
	writers := []domain.Role{domain.RoleStaff, domain.RoleAdmin}
	return &Policy{rules: map[rule][]domain.Role{
		{OpRead, ResourcePlanets}:  everyone,
		{OpRead, ResourceMoons}:    everyone,
		{OpWrite, ResourcePlanets}: writers,
		{OpWrite, ResourceMoons}:   writers,
		{OpQuery, ResourceUser}:    everyone,
		{OpMutation, ResourceUser}: {domain.RoleAdmin},
	}}
}

// AllowedRoles lists the roles permitted for op on res.
func (p *Policy) AllowedRoles(op Operation, res Resource) []domain.Role {
	if roles, ok := p.rules[rule{op, res}]; ok {
		return roles
	}
	return domain.Roles
}

// Allowed reports whether role may perform op on res.
func (p *Policy) Allowed(role domain.Role, op Operation, res Resource) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range p.AllowedRoles(op, res) {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize checks user against the table. A nil user is unauthenticated.
func (p *Policy) Authorize(user *domain.User, op Operation, res Resource) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if !p.Allowed(user.Role, op, res) {
		return domain.ErrForbidden
	}
	return nil
}

// OperationForMethod classifies an HTTP method. Safe methods read,
// everything else writes.
func OperationForMethod(method string) Operation {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return OpRead
	default:
		return OpWrite
	}
}

// ResourceForPath classifies a request path by its /api prefix.
func ResourceForPath(path string) Resource {
	switch {
	case hasSegmentPrefix(path, "/api/planets"):
		return ResourcePlanets
	case hasSegmentPrefix(path, "/api/moons"):
		return ResourceMoons
	default:
		return ResourceOther
	}
}

func hasSegmentPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}
