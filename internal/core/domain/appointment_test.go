package domain

import (
	"errors"
	"testing"
	"time"
)

func TestApply_StatusTransitions(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusPending, "archived", false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			a := &Appointment{Status: tc.from, PaymentStatus: PaymentStatePending}
			res := a.Apply(StateChange{Status: tc.to})
			if res.Applied != tc.ok {
				t.Fatalf("expected applied=%v, got %+v", tc.ok, res)
			}
			if tc.ok && a.Status != tc.to {
				t.Errorf("expected status %s, got %s", tc.to, a.Status)
			}
			if !tc.ok {
				if a.Status != tc.from {
					t.Errorf("rejected transition changed status to %s", a.Status)
				}
				if !errors.Is(res.Err(), ErrInvalidTransition) {
					t.Errorf("expected ErrInvalidTransition, got %v", res.Err())
				}
			}
		})
	}
}

func TestApply_SameValueIsNoOp(t *testing.T) {
	a := &Appointment{Status: StatusCompleted, PaymentStatus: PaymentStatePaid}
	res := a.Apply(StateChange{Status: StatusCompleted, PaymentStatus: PaymentStatePaid})
	if !res.Applied || res.Err() != nil {
		t.Fatalf("expected no-op to be applied, got %+v", res)
	}
}

func TestApply_PaymentFacet(t *testing.T) {
	a := &Appointment{Status: StatusConfirmed, PaymentStatus: PaymentStatePending}

	if res := a.Apply(StateChange{PaymentStatus: PaymentStateRefunded}); res.Applied {
		t.Fatalf("expected pending->refunded to be rejected")
	}
	if res := a.Apply(StateChange{PaymentStatus: PaymentStatePaid}); !res.Applied || res.Facet != "paymentStatus" {
		t.Fatalf("expected pending->paid, got %+v", res)
	}
	if res := a.Apply(StateChange{PaymentStatus: PaymentStateRefunded}); !res.Applied {
		t.Fatalf("expected paid->refunded, got %+v", res)
	}
	if res := a.Apply(StateChange{PaymentStatus: PaymentStatePaid}); !res.Applied {
		t.Fatalf("expected refunded->paid, got %+v", res)
	}
}

func TestApply_CancelledCannotBePaid(t *testing.T) {
	a := &Appointment{Status: StatusCancelled, PaymentStatus: PaymentStatePending}
	if res := a.Apply(StateChange{PaymentStatus: PaymentStatePaid}); res.Applied {
		t.Fatalf("expected paid to be rejected for a cancelled appointment")
	}

	// Cancelling and paying in one change is rejected as a whole.
	b := &Appointment{Status: StatusPending, PaymentStatus: PaymentStatePending}
	res := b.Apply(StateChange{Status: StatusCancelled, PaymentStatus: PaymentStatePaid})
	if res.Applied {
		t.Fatalf("expected combined change to be rejected")
	}
	if b.Status != StatusPending || b.PaymentStatus != PaymentStatePending {
		t.Errorf("rejected change must leave both facets untouched, got %s/%s", b.Status, b.PaymentStatus)
	}
}

func TestApply_BothFacetsValidatedFirst(t *testing.T) {
	a := &Appointment{Status: StatusPending, PaymentStatus: PaymentStatePending}
	res := a.Apply(StateChange{Status: StatusConfirmed, PaymentStatus: PaymentStateRefunded})
	if res.Applied {
		t.Fatalf("expected rejection")
	}
	if a.Status != StatusPending {
		t.Errorf("status must not change when the payment facet is rejected, got %s", a.Status)
	}
}

func TestSlotKey(t *testing.T) {
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	a := &Appointment{Type: AppointmentConsultation, DoctorID: "doc-1", Date: date, Time: "09:30", Status: StatusPending}
	if got := a.SlotKey(); got != "doc-1|2026-05-04|09:30" {
		t.Errorf("unexpected slot key %q", got)
	}

	a.Status = StatusCancelled
	if a.SlotKey() != "" {
		t.Errorf("cancelled appointments hold no slot")
	}

	test := &Appointment{Type: AppointmentTest, TestID: "t-1", Date: date, Time: "09:30", Status: StatusPending}
	if test.SlotKey() != "" {
		t.Errorf("test appointments hold no slot")
	}
}

func TestNormalizeReference(t *testing.T) {
	a := &Appointment{Type: AppointmentConsultation, DoctorID: "doc-1", TestID: "t-1"}
	if err := a.NormalizeReference(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TestID != "" {
		t.Errorf("expected test reference cleared")
	}

	b := &Appointment{Type: AppointmentTest}
	if err := b.NormalizeReference(); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	c := &Appointment{Type: "surgery", DoctorID: "doc-1"}
	if err := c.NormalizeReference(); !IsValidation(err) {
		t.Errorf("expected validation error for unknown type, got %v", err)
	}
}

func TestNormalizeTime(t *testing.T) {
	valid := map[string]string{"9:05": "09:05", "09:05": "09:05", "23:59": "23:59", " 0:00 ": "00:00"}
	for in, want := range valid {
		got, err := NormalizeTime(in)
		if err != nil || got != want {
			t.Errorf("NormalizeTime(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"24:00", "12:60", "9", "noon", ""} {
		if _, err := NormalizeTime(in); !IsValidation(err) {
			t.Errorf("NormalizeTime(%q) expected validation error, got %v", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-07-01", "2026-07-01T15:04:05Z"} {
		got, err := ParseDate(in)
		if err != nil || !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDate("07/01/2026"); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCheckNotPast(t *testing.T) {
	now := time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC)
	if err := CheckNotPast(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), now); err != nil {
		t.Errorf("today must be allowed, got %v", err)
	}
	if err := CheckNotPast(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), now); !IsValidation(err) {
		t.Errorf("expected past date rejected, got %v", err)
	}
}
