package graphql

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/spaceapp/space-api/internal/core/domain"
)

// Error classifications reported under extensions.classification.
const (
	ClassNotFound     = "NOT_FOUND"
	ClassBadRequest   = "BAD_REQUEST"
	ClassConflict     = "CONFLICT"
	ClassUnauthorized = "UNAUTHORIZED"
	ClassForbidden    = "FORBIDDEN"
	ClassInternal     = "INTERNAL_ERROR"
)

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is a GraphQL result. Data is omitted when the document never
// reached execution and rendered as null when a non-null root field failed.
type Response struct {
	Data     *object
	Errors   gqlerror.List
	executed bool
}

// MarshalJSON renders an executed response with an explicit data member.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain struct {
		Data   json.RawMessage `json:"data,omitempty"`
		Errors gqlerror.List   `json:"errors,omitempty"`
	}
	out := plain{Errors: r.Errors}
	if r.executed {
		out.Data = json.RawMessage("null")
		if r.Data != nil {
			raw, err := json.Marshal(r.Data)
			if err != nil {
				return nil, err
			}
			out.Data = raw
		}
	}
	return json.Marshal(out)
}

// object is a JSON object that keeps the order of the selection set.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: map[string]any{}}
}

func (o *object) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *object) get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// classify maps the domain error taxonomy onto a classification.
func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ClassNotFound
	case errors.Is(err, domain.ErrValidation):
		return ClassBadRequest
	case errors.Is(err, domain.ErrConflict):
		return ClassConflict
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return ClassUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return ClassForbidden
	}
	return ClassInternal
}

// fieldError builds the error entry for a failed root field.
func fieldError(field *ast.Field, err error) *gqlerror.Error {
	class := classify(err)
	msg := err.Error()
	if class == ClassInternal {
		msg = "internal server error"
	}

	gerr := gqlerror.ErrorPathf(ast.Path{ast.PathName(field.Alias)}, "%s", msg)
	if field.Position != nil {
		gerr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	gerr.Extensions = map[string]any{"classification": class}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		gerr.Extensions["fields"] = ve.Fields
	}
	return gerr
}

// requestErrors tags document-level errors as bad requests.
func requestErrors(errs gqlerror.List) Response {
	for _, e := range errs {
		if e.Extensions == nil {
			e.Extensions = map[string]any{}
		}
		e.Extensions["classification"] = ClassBadRequest
	}
	return Response{Errors: errs}
}
