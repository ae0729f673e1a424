package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

func TestAppointmentDoc_SlotKey(t *testing.T) {
	doctorID := primitive.NewObjectID().Hex()
	a := &domain.Appointment{
		ID:       primitive.NewObjectID().Hex(),
		UserID:   primitive.NewObjectID().Hex(),
		DoctorID: doctorID,
		Type:     domain.AppointmentConsultation,
		Date:     time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Time:     "14:00",
		Status:   domain.StatusConfirmed,
	}

	doc := toAppointmentDoc(a)
	if doc.SlotKey != doctorID+"|2026-04-02|14:00" {
		t.Fatalf("unexpected slot key %q", doc.SlotKey)
	}
	if doc.TestID != nil {
		t.Errorf("expected no test reference")
	}

	a.Status = domain.StatusCompleted
	if toAppointmentDoc(a).SlotKey != "" {
		t.Errorf("completed appointments must not hold a slot key")
	}
}

func TestAppointmentDoc_RoundTrip(t *testing.T) {
	a := &domain.Appointment{
		ID:            primitive.NewObjectID().Hex(),
		UserID:        primitive.NewObjectID().Hex(),
		TestID:        primitive.NewObjectID().Hex(),
		Type:          domain.AppointmentTest,
		Date:          time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Time:          "08:30",
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentStatePending,
		TotalAmount:   45,
	}

	got := toAppointmentDoc(a).toDomain()
	if got.ID != a.ID || got.UserID != a.UserID || got.TestID != a.TestID || got.DoctorID != "" {
		t.Errorf("ids not preserved: %+v", got)
	}
	if !got.Date.Equal(a.Date) || got.Time != a.Time || got.TotalAmount != 45 {
		t.Errorf("booking fields not preserved: %+v", got)
	}
}

func TestPaymentDoc_ActiveFlag(t *testing.T) {
	cases := map[domain.PaymentStatus]bool{
		domain.PaymentPending:   true,
		domain.PaymentCompleted: true,
		domain.PaymentFailed:    false,
		domain.PaymentRefunded:  false,
	}
	for status, want := range cases {
		doc := toPaymentDoc(&domain.Payment{Status: status, AppointmentID: primitive.NewObjectID().Hex()})
		if doc.Active != want {
			t.Errorf("status %s: expected active=%v", status, want)
		}
	}
}

func TestPaymentGuard_FiltersOnPriorStatus(t *testing.T) {
	id := primitive.NewObjectID()

	guard := paymentGuard(id, domain.PaymentCompleted)
	if guard["_id"] != id {
		t.Errorf("guard must match the payment id, got %v", guard["_id"])
	}
	if guard["payment_status"] != "completed" {
		t.Errorf("guard must pin the prior status, got %v", guard["payment_status"])
	}
}

func TestObjectIDs_SkipsInvalidAndDuplicates(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	got := objectIDs([]string{id, "not-an-id", id, ""})
	if len(got) != 1 || got[0].Hex() != id {
		t.Errorf("unexpected ids: %v", got)
	}
}
