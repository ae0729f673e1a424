package handler

import (
	"strings"
	"testing"
)

func TestValidator_FieldNamesFollowJSONTags(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createAppointmentRequest{AppointmentType: "consultation", AppointmentTime: "10:00"})
	ve := wantValidation(t, err)
	if ve.Message != "appointmentDate is required" {
		t.Fatalf("unexpected message %q", ve.Message)
	}
}

func TestValidator_Clock(t *testing.T) {
	v := NewValidator()

	for _, tc := range []struct {
		value string
		ok    bool
	}{
		{"09:30", true},
		{"9:30", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"noon", false},
	} {
		err := v.Validate(&slotRequest{Day: "monday", StartTime: tc.value, EndTime: "23:59"})
		if (err == nil) != tc.ok {
			t.Errorf("clock %q: err=%v, want ok=%v", tc.value, err, tc.ok)
		}
	}
}

func TestValidator_JoinsMessages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&contactRequest{})
	ve := wantValidation(t, err)
	if got := strings.Count(ve.Message, "is required"); got != 4 {
		t.Fatalf("expected 4 required errors, got %d in %q", got, ve.Message)
	}
}

func TestValidator_MongoID(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createOrderRequest{AppointmentID: "not-an-id"})
	ve := wantValidation(t, err)
	if ve.Message != "Invalid appointmentId format" {
		t.Fatalf("unexpected message %q", ve.Message)
	}
	if err := v.Validate(&createOrderRequest{AppointmentID: apptID}); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
}
