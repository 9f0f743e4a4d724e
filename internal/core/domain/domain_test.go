package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", r, err)
		}
		if got != r {
			t.Fatalf("expected %s, got %s", r, got)
		}
	}

	for _, bad := range []string{"", "admin", "GUEST", "Staff"} {
		if _, err := ParseRole(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNotFoundError_Is(t *testing.T) {
	err := fmt.Errorf("get planet: %w", NotFound("planet", 42))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(ErrNotFound)")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != 42 || nf.Resource != "planet" {
		t.Fatalf("unexpected not found error: %+v", nf)
	}
	if nf.Error() != "planet not found: 42" {
		t.Fatalf("unexpected message: %s", nf.Error())
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"radiusKm": "must be greater than 0",
		"name":     "must not be blank",
	}}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(ErrValidation)")
	}
	want := "validation failed: name must not be blank; radiusKm must be greater than 0"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestConflictError_Is(t *testing.T) {
	err := &ConflictError{Resource: "user", Field: "username", Value: "admin"}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected errors.Is(ErrConflict)")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("conflict must not match ErrNotFound")
	}
}

func TestPlanet_ReplaceKeepsMoons(t *testing.T) {
	p := NewPlanet("Earth", "Terrestrial", 6371, 5.972e24, 365.25)
	p.ID = 7
	p.Moons = []Moon{{ID: 1, Name: "Moon", PlanetID: 7}}

	p.Replace(Planet{Name: "Terra", Type: "Rocky", RadiusKm: 1, MassKg: 2, OrbitalPeriodDays: 3})

	if p.ID != 7 || p.Name != "Terra" || p.Type != "Rocky" || p.RadiusKm != 1 || p.MassKg != 2 || p.OrbitalPeriodDays != 3 {
		t.Fatalf("unexpected planet after replace: %+v", p)
	}
	if ids := p.MoonIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("moons must survive replace, got %v", ids)
	}
}

func TestPlanet_Validate(t *testing.T) {
	ok := NewPlanet("Earth", "Terrestrial", 6371, 5.972e24, 365.25)
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := NewPlanet("  ", "", 0, -1, 1)
	err := bad.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	for _, f := range []string{"name", "type", "radiusKm", "massKg"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("expected field %s in %v", f, ve.Fields)
		}
	}
	if _, ok := ve.Fields["orbitalPeriodDays"]; ok {
		t.Fatalf("orbitalPeriodDays is valid and must not be reported")
	}
}

func TestMoon_ValidateRequiresPlanet(t *testing.T) {
	m := NewMoon("Moon", 3474.8, 27.3, 0)
	var ve *ValidationError
	if !errors.As(m.Validate(), &ve) {
		t.Fatalf("expected validation error")
	}
	if ve.Fields["planetId"] != "is required" {
		t.Fatalf("unexpected fields: %v", ve.Fields)
	}
}

func TestUser_ValidateRole(t *testing.T) {
	u := &User{Username: "admin", Role: Role("ROOT")}
	var ve *ValidationError
	if !errors.As(u.Validate(), &ve) {
		t.Fatalf("expected validation error")
	}
	if _, ok := ve.Fields["role"]; !ok {
		t.Fatalf("expected role field, got %v", ve.Fields)
	}
}
