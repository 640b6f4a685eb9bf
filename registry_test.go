package mallow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mallowkit/mallow"
)

func TestRegister_ResolveThroughRef(t *testing.T) {
	mallow.Register("reg.Patient", patientSchema())

	s := mallow.NewSchema[Appointment]("reg.Appointment").
		Field("patient", mallow.NestedRef(
			mallow.SchemaRef[Patient]("reg.Patient"),
			func(a Appointment) *Patient { return a.Patient },
		))

	out, err := s.Dump(context.Background(), Appointment{Patient: lua()})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("patient").(*mallow.Map).Value("name"); got != "Lua" {
		t.Errorf("patient.name = %v, want Lua", got)
	}
}

func TestRegister_TypeMismatch(t *testing.T) {
	mallow.Register("mismatch.Patient", patientSchema())

	s := mallow.NewSchema[Appointment]("mismatch.Appointment").
		Field("doctor", mallow.NestedRef(
			mallow.SchemaRef[Doctor]("mismatch.Patient"), // registered for Patient
			func(a Appointment) *Doctor { return nil },
		))

	err := s.Validate()
	if !errors.Is(err, mallow.ErrUnresolvedSchema) {
		t.Fatalf("Validate() error = %v, want ErrUnresolvedSchema", err)
	}

	var resErr *mallow.ResolveError
	if !errors.As(err, &resErr) {
		t.Fatalf("Validate() error = %T, want *ResolveError", err)
	}
	if !strings.Contains(resErr.Detail, "different type") {
		t.Errorf("ResolveError.Detail = %q, want type mismatch named", resErr.Detail)
	}
}

func TestRegister_RefFiltersApply(t *testing.T) {
	mallow.Register("filter.Patient", patientSchema())

	s := mallow.NewSchema[Appointment]("filter.Appointment").
		Field("patient", mallow.NestedRef(
			mallow.SchemaRef[Patient]("filter.Patient").Only("name", "dob").Except("dob"),
			func(a Appointment) *Patient { return a.Patient },
		))

	out, err := s.Dump(context.Background(), Appointment{Patient: lua()})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	patient := out.Value("patient").(*mallow.Map)
	if got := patient.Keys(); len(got) != 1 || got[0] != "name" {
		t.Errorf("patient keys = %v, want [name]", got)
	}
}

func TestReset(t *testing.T) {
	mallow.Register("reset.Patient", patientSchema())
	mallow.Reset()

	s := mallow.NewSchema[Appointment]("reset.Appointment").
		Field("patient", mallow.NestedRef(
			mallow.SchemaRef[Patient]("reset.Patient"),
			func(a Appointment) *Patient { return a.Patient },
		))

	if err := s.Validate(); !errors.Is(err, mallow.ErrUnresolvedSchema) {
		t.Errorf("Validate() after Reset() error = %v, want ErrUnresolvedSchema", err)
	}
}

func TestResolvedRefKeepsCachedInstance(t *testing.T) {
	mallow.Register("cache.Patient", patientSchema())

	s := mallow.NewSchema[Appointment]("cache.Appointment").
		Field("patient", mallow.NestedRef(
			mallow.SchemaRef[Patient]("cache.Patient"),
			func(a Appointment) *Patient { return a.Patient },
		))

	if _, err := s.Dump(context.Background(), Appointment{Patient: lua()}); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	// Replacing the registration does not affect already-resolved refs.
	mallow.Register("cache.Patient", mallow.NewSchema[Patient]("cache.Patient"))

	out, err := s.Dump(context.Background(), Appointment{Patient: lua()})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("patient").(*mallow.Map).Len(); got != 3 {
		t.Errorf("patient has %d keys, want 3 (cached instance)", got)
	}
}
