package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vektah/gqlparser/v2/validator/rules"

	"github.com/spaceapp/space-api/internal/api/metrics"
	"github.com/spaceapp/space-api/internal/core/authz"
	"github.com/spaceapp/space-api/internal/core/domain"
	"github.com/spaceapp/space-api/internal/core/ports"
)

// createUserInput mirrors the CreateUserInput type so it can go through the
// same validator as REST request bodies.
type createUserInput struct {
	Username string `json:"username" validate:"notblank,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"     validate:"oneof=ADMIN STAFF STUDENT"`
}

type resolver func(ctx context.Context, field *ast.Field, args map[string]any) (*ports.UserRecord, error)

// Executor runs validated documents against the user service. Every root
// field is authorized on its own before its resolver is called.
type Executor struct {
	schema    *ast.Schema
	users     ports.UserService
	policy    *authz.Policy
	validator echo.Validator
	logger    zerolog.Logger
	resolvers map[string]resolver
}

func NewExecutor(schema *ast.Schema, users ports.UserService, policy *authz.Policy, v echo.Validator, logger zerolog.Logger) *Executor {
	ex := &Executor{
		schema:    schema,
		users:     users,
		policy:    policy,
		validator: v,
		logger:    logger.With().Str("component", "graphql").Logger(),
	}
	ex.resolvers = map[string]resolver{
		"userById":   ex.userByID,
		"createUser": ex.createUser,
	}
	return ex
}

// Execute parses, validates and runs req.
func (ex *Executor) Execute(ctx context.Context, req Request) Response {
	if strings.TrimSpace(req.Query) == "" {
		return requestErrors(gqlerror.List{gqlerror.Errorf("query is required")})
	}

	doc, errs := gqlparser.LoadQueryWithRules(ex.schema, req.Query, rules.NewDefaultRules())
	if len(errs) > 0 {
		return requestErrors(errs)
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		if req.OperationName == "" {
			return requestErrors(gqlerror.List{gqlerror.Errorf("operationName is required when the document has several operations")})
		}
		return requestErrors(gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)})
	}

	vars, err := validator.VariableValues(ex.schema, op, req.Variables)
	if err != nil {
		return requestErrors(gqlerror.List{gqlerror.WrapIfUnwrapped(err)})
	}

	var (
		opKind authz.Operation
		root   *ast.Definition
	)
	switch op.Operation {
	case ast.Query:
		opKind, root = authz.OpQuery, ex.schema.Query
	case ast.Mutation:
		opKind, root = authz.OpMutation, ex.schema.Mutation
	default:
		return requestErrors(gqlerror.List{gqlerror.Errorf("%s operations are not supported", op.Operation)})
	}

	resp := Response{Data: newObject(), executed: true}
	actor, _ := ports.ActorFrom(ctx)

	for _, field := range collectFields(doc, op.SelectionSet, root.Name) {
		if field.Name == "__typename" {
			if resp.Data != nil {
				resp.Data.set(field.Alias, root.Name)
			}
			continue
		}

		value, err := ex.resolveRoot(ctx, actor, opKind, field, vars)
		if err != nil {
			class := classify(err)
			metrics.GraphQLFieldsTotal.WithLabelValues(field.Name, class).Inc()
			if class == ClassInternal {
				ex.logger.Error().Err(err).Str("field", field.Name).Msg("graphql resolver failed")
			}
			resp.Errors = append(resp.Errors, fieldError(field, err))
			if field.Definition != nil && field.Definition.Type.NonNull {
				resp.Data = nil
				if op.Operation == ast.Mutation {
					break
				}
				continue
			}
			if resp.Data != nil {
				resp.Data.set(field.Alias, nil)
			}
			continue
		}

		metrics.GraphQLFieldsTotal.WithLabelValues(field.Name, "ok").Inc()
		if resp.Data != nil {
			resp.Data.set(field.Alias, value)
		}
	}

	return resp
}

func (ex *Executor) resolveRoot(ctx context.Context, actor *domain.User, op authz.Operation, field *ast.Field, vars map[string]any) (any, error) {
	if err := ex.policy.Authorize(actor, op, authz.ResourceUser); err != nil {
		return nil, err
	}

	resolve, ok := ex.resolvers[field.Name]
	if !ok {
		return nil, fmt.Errorf("no resolver for field %q", field.Name)
	}

	rec, err := resolve(ctx, field, field.ArgumentMap(vars))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return projectUser(collectFields(nil, field.SelectionSet, "User"), rec), nil
}

func (ex *Executor) userByID(ctx context.Context, _ *ast.Field, args map[string]any) (*ports.UserRecord, error) {
	id, err := parseID(args["id"])
	if err != nil {
		return nil, err
	}
	return ex.users.Get(ctx, id)
}

func (ex *Executor) createUser(ctx context.Context, _ *ast.Field, args map[string]any) (*ports.UserRecord, error) {
	raw, _ := args["input"].(map[string]any)
	in := createUserInput{
		Username: strings.TrimSpace(stringArg(raw["username"])),
		Password: stringArg(raw["password"]),
		Role:     stringArg(raw["role"]),
	}
	if err := ex.validator.Validate(in); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, domain.Invalid("role", "must be one of: ADMIN STAFF STUDENT")
	}
	return ex.users.Create(ctx, ports.CreateUserInput{
		Username: in.Username,
		Password: in.Password,
		Role:     role,
	})
}

// collectFields flattens fragment spreads and inline fragments that apply
// to typeName. doc may be nil for nested selections; named fragments then
// resolve through the spread's definition.
func collectFields(doc *ast.QueryDocument, set ast.SelectionSet, typeName string) []*ast.Field {
	var out []*ast.Field
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			out = append(out, s)
		case *ast.InlineFragment:
			if s.TypeCondition == "" || s.TypeCondition == typeName {
				out = append(out, collectFields(doc, s.SelectionSet, typeName)...)
			}
		case *ast.FragmentSpread:
			def := s.Definition
			if def == nil && doc != nil {
				def = doc.Fragments.ForName(s.Name)
			}
			if def != nil && def.TypeCondition == typeName {
				out = append(out, collectFields(doc, def.SelectionSet, typeName)...)
			}
		}
	}
	return out
}

func projectUser(fields []*ast.Field, u *ports.UserRecord) *object {
	obj := newObject()
	for _, f := range fields {
		switch f.Name {
		case "id":
			obj.set(f.Alias, strconv.FormatInt(u.ID, 10))
		case "username":
			obj.set(f.Alias, u.Username)
		case "role":
			obj.set(f.Alias, string(u.Role))
		case "__typename":
			obj.set(f.Alias, "User")
		}
	}
	return obj
}

func parseID(v any) (int64, error) {
	var (
		id  int64
		err error
	)
	switch t := v.(type) {
	case string:
		id, err = strconv.ParseInt(t, 10, 64)
	case json.Number:
		id, err = t.Int64()
	case int:
		id = int64(t)
	case int64:
		id = t
	case float64:
		id = int64(t)
		if float64(id) != t {
			err = fmt.Errorf("not an integer")
		}
	default:
		err = fmt.Errorf("unsupported id type %T", v)
	}
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

func stringArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return ""
}
