package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

const collectionAppointments = "appointments"

// AppointmentRepository stores appointments. Every write derives slot_key from
// the appointment; the unique partial index on it rejects a second active
// consultation in the same doctor slot.
type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

type appointmentDoc struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `bson:"user_id"`
	DoctorID      *primitive.ObjectID `bson:"doctor_id,omitempty"`
	TestID        *primitive.ObjectID `bson:"test_id,omitempty"`
	Type          string              `bson:"appointment_type"`
	Date          time.Time           `bson:"appointment_date"`
	Time          string              `bson:"appointment_time"`
	Status        string              `bson:"status"`
	PaymentStatus string              `bson:"payment_status"`
	PatientName   string              `bson:"patient_name,omitempty"`
	Symptoms      string              `bson:"symptoms,omitempty"`
	Notes         string              `bson:"notes,omitempty"`
	TotalAmount   float64             `bson:"total_amount"`
	SlotKey       string              `bson:"slot_key,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at"`
}

func toAppointmentDoc(a *domain.Appointment) appointmentDoc {
	doc := appointmentDoc{
		DoctorID:      optionalID(a.DoctorID),
		TestID:        optionalID(a.TestID),
		Type:          string(a.Type),
		Date:          a.Date.UTC(),
		Time:          a.Time,
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
		PatientName:   a.PatientName,
		Symptoms:      a.Symptoms,
		Notes:         a.Notes,
		TotalAmount:   a.TotalAmount,
		SlotKey:       a.SlotKey(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if oid, ok := objectID(a.ID); ok {
		doc.ID = oid
	}
	if oid, ok := objectID(a.UserID); ok {
		doc.UserID = oid
	}
	return doc
}

func (d appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:            d.ID.Hex(),
		UserID:        hexOf(&d.UserID),
		DoctorID:      hexOf(d.DoctorID),
		TestID:        hexOf(d.TestID),
		Type:          domain.AppointmentType(d.Type),
		Date:          d.Date.UTC(),
		Time:          d.Time,
		Status:        domain.AppointmentStatus(d.Status),
		PaymentStatus: domain.PaymentState(d.PaymentStatus),
		PatientName:   d.PatientName,
		Symptoms:      d.Symptoms,
		Notes:         d.Notes,
		TotalAmount:   d.TotalAmount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toAppointmentDoc(a))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	doc, err := findOne[appointmentDoc](ctx, r.col, bson.M{"_id": oid}, domain.ErrAppointmentNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Appointment, error) {
	out := make(map[string]*domain.Appointment, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}
	docs, err := findAll[appointmentDoc](ctx, r.col, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	for _, d := range docs {
		a := d.toDomain()
		out[a.ID] = a
	}
	return out, nil
}

// SlotTaken looks for a pending or confirmed appointment at the same date and
// time, scoped to the doctor when one is given.
func (r *AppointmentRepository) SlotTaken(ctx context.Context, q ports.SlotQuery) (bool, error) {
	filter := bson.M{
		"appointment_date": domain.StartOfDay(q.Date),
		"appointment_time": q.Time,
		"status": bson.M{"$in": []string{
			string(domain.StatusPending),
			string(domain.StatusConfirmed),
		}},
	}
	if q.DoctorID != "" {
		oid, ok := objectID(q.DoctorID)
		if !ok {
			return false, nil
		}
		filter["doctor_id"] = oid
	}
	if oid, ok := objectID(q.ExcludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("slot check: %w", err)
	}
	return n > 0, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	query := bson.M{}
	if filter.UserID != "" {
		oid, ok := objectID(filter.UserID)
		if !ok {
			return []*domain.Appointment{}, 0, nil
		}
		query["user_id"] = oid
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["appointment_type"] = filter.Type
	}
	if filter.DoctorID != "" {
		if oid, ok := objectID(filter.DoctorID); ok {
			query["doctor_id"] = oid
		}
	}

	sortBy := bson.D{{Key: "appointment_date", Value: -1}, {Key: "appointment_time", Value: -1}}
	docs, total, err := findPage[appointmentDoc](ctx, r.col, query, sortBy, filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return appointmentsOf(docs), total, nil
}

// Recent returns the most recently booked appointments.
func (r *AppointmentRepository) Recent(ctx context.Context, limit int) ([]*domain.Appointment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	docs, err := findAll[appointmentDoc](ctx, r.col, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent appointments: %w", err)
	}
	return appointmentsOf(docs), nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	err := replaceByID(ctx, r.col, oid, toAppointmentDoc(a), domain.ErrAppointmentNotFound)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrSlotTaken
	}
	return err
}

// SaveState writes the status facets. Leaving an active status unsets
// slot_key, which frees the doctor slot.
func (r *AppointmentRepository) SaveState(ctx context.Context, a *domain.Appointment) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return domain.ErrAppointmentNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"status":         string(a.Status),
			"payment_status": string(a.PaymentStatus),
			"updated_at":     a.UpdatedAt,
		},
	}
	if key := a.SlotKey(); key != "" {
		update["$set"].(bson.M)["slot_key"] = key
	} else {
		update["$unset"] = bson.M{"slot_key": ""}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("save appointment state: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrAppointmentNotFound)
}

func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	return countDocuments(ctx, r.col, bson.M{})
}

// EnsureIndexes creates the unique partial slot index and the list indexes.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slot_key", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slot_key": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "appointment_date", Value: -1}}},
		{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "appointment_date", Value: 1}, {Key: "appointment_time", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
}

func appointmentsOf(docs []appointmentDoc) []*domain.Appointment {
	out := make([]*domain.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out
}
