package mallow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mallowkit/mallow"
)

type reading struct {
	Sensor  string
	Channel int
	Value   float64
	OK      bool
	TakenAt time.Time
}

func readingSchema() *mallow.Schema[reading] {
	return mallow.NewSchema[reading]("Reading").
		Field("sensor", mallow.String(func(r reading) string { return r.Sensor })).
		Field("channel", mallow.Int(func(r reading) int { return r.Channel })).
		Field("value", mallow.Float(func(r reading) float64 { return r.Value })).
		Field("ok", mallow.Bool(func(r reading) bool { return r.OK }))
}

func TestPrimitiveFields(t *testing.T) {
	out, err := readingSchema().Dump(context.Background(), reading{Sensor: "t-01", Channel: 3, Value: 21.5, OK: true})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("sensor"); got != "t-01" {
		t.Errorf("sensor = %v, want t-01", got)
	}
	if got := out.Value("channel"); got != 3 {
		t.Errorf("channel = %v, want 3", got)
	}
	if got := out.Value("value"); got != 21.5 {
		t.Errorf("value = %v, want 21.5", got)
	}
	if got := out.Value("ok"); got != true {
		t.Errorf("ok = %v, want true", got)
	}
}

func TestDateFormat(t *testing.T) {
	s := mallow.NewSchema[time.Time]("When").
		Field("d", mallow.Date(func(v time.Time) time.Time { return v }))

	out, err := s.Dump(context.Background(), time.Date(2001, 5, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("d"); got != "2001-05-31" {
		t.Errorf("date = %v, want 2001-05-31", got)
	}
}

func TestDateTimeFormat(t *testing.T) {
	s := mallow.NewSchema[time.Time]("When").
		Field("dt", mallow.DateTime(func(v time.Time) time.Time { return v }))

	out, err := s.Dump(context.Background(), time.Date(2023, 2, 28, 18, 50, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("dt"); got != "2023-02-28T18:50:00" {
		t.Errorf("datetime = %v, want 2023-02-28T18:50:00", got)
	}
}

func TestDateTime_DropsZoneAndFraction(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	s := mallow.NewSchema[time.Time]("When").
		Field("dt", mallow.DateTime(func(v time.Time) time.Time { return v }))

	out, err := s.Dump(context.Background(), time.Date(2023, 9, 30, 8, 45, 0, 123456789, loc))
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("dt"); got != "2023-09-30T08:45:00" {
		t.Errorf("datetime = %v, want 2023-09-30T08:45:00", got)
	}
}

func TestDateTimeTZ_KeepsZone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	s := mallow.NewSchema[time.Time]("When").
		Field("dt", mallow.DateTimeTZ(func(v time.Time) time.Time { return v }))

	out, err := s.Dump(context.Background(), time.Date(2023, 9, 30, 8, 45, 0, 0, loc))
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("dt"); got != "2023-09-30T08:45:00+02:00" {
		t.Errorf("datetime = %v, want 2023-09-30T08:45:00+02:00", got)
	}
}

func TestEmail_Valid(t *testing.T) {
	out, err := patientSchema().Dump(context.Background(), *lua())
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("email"); got != "lua@email.com" {
		t.Errorf("email = %v, want lua@email.com", got)
	}
}

func TestEmail_Malformed(t *testing.T) {
	p := *lua()
	p.Email = "not-an-email"

	_, err := patientSchema().Dump(context.Background(), p)
	if !errors.Is(err, mallow.ErrValidation) {
		t.Fatalf("Dump() error = %v, want ErrValidation", err)
	}

	var fieldErr *mallow.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("Dump() error = %T, want *FieldError", err)
	}
	if fieldErr.Field != "email" {
		t.Errorf("FieldError.Field = %q, want email", fieldErr.Field)
	}
}

func TestAnyField(t *testing.T) {
	s := mallow.NewSchema[reading]("Reading").
		Field("label", mallow.Any(func(r reading) (any, error) {
			return fmt.Sprintf("%s/%d", r.Sensor, r.Channel), nil
		}))

	out, err := s.Dump(context.Background(), reading{Sensor: "t-01", Channel: 3})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("label"); got != "t-01/3" {
		t.Errorf("label = %v, want t-01/3", got)
	}
}

func TestAnyField_Error(t *testing.T) {
	s := mallow.NewSchema[reading]("Reading").
		Field("label", mallow.Any(func(r reading) (any, error) {
			return nil, mallow.ErrMissingAttribute
		}))

	_, err := s.Dump(context.Background(), reading{})
	if !errors.Is(err, mallow.ErrMissingAttribute) {
		t.Errorf("Dump() error = %v, want ErrMissingAttribute", err)
	}
}

func TestAnyField_MissingOptional(t *testing.T) {
	s := mallow.NewSchema[reading]("Reading").
		Field("label", mallow.Any(func(r reading) (any, error) {
			return nil, mallow.ErrMissingAttribute
		}).Optional())

	out, err := s.Dump(context.Background(), reading{})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if v, ok := out.Get("label"); !ok || v != nil {
		t.Errorf("label = %v (present=%v), want nil present", v, ok)
	}
}

// isbn renders itself through the Valuer override.
type isbn string

func (i isbn) DumpValue() (any, error) {
	return "ISBN " + string(i), nil
}

func TestAnyField_ValuerOverride(t *testing.T) {
	type titled struct {
		ID isbn
	}
	s := mallow.NewSchema[titled]("Titled").
		Field("isbn", mallow.Any(func(v titled) (any, error) { return v.ID, nil }))

	out, err := s.Dump(context.Background(), titled{ID: "067973225X"})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := out.Value("isbn"); got != "ISBN 067973225X" {
		t.Errorf("isbn = %v, want ISBN 067973225X", got)
	}
}

func TestFieldKind(t *testing.T) {
	f := mallow.String(func(p Patient) string { return p.Name })
	if got := f.Kind(); got != mallow.KindString {
		t.Errorf("Kind() = %v, want %v", got, mallow.KindString)
	}
	if got := f.DumpOnly().Kind(); got != mallow.KindString {
		t.Errorf("DumpOnly().Kind() = %v, want %v", got, mallow.KindString)
	}
}

func TestIsValidKind(t *testing.T) {
	for _, k := range []mallow.Kind{
		mallow.KindString, mallow.KindInt, mallow.KindFloat, mallow.KindBool,
		mallow.KindEmail, mallow.KindDate, mallow.KindDateTime,
		mallow.KindDateTimeTZ, mallow.KindAny, mallow.KindNested,
	} {
		if !mallow.IsValidKind(k) {
			t.Errorf("IsValidKind(%q) = false, want true", k)
		}
	}
	if mallow.IsValidKind("uuid") {
		t.Error(`IsValidKind("uuid") = true, want false`)
	}
}
