package mongo

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

const collectionDoctors = "doctors"

type DoctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{col: db.Collection(collectionDoctors)}
}

type slotDoc struct {
	Day         string `bson:"day"`
	StartTime   string `bson:"start_time"`
	EndTime     string `bson:"end_time"`
	IsAvailable bool   `bson:"is_available"`
}

type doctorDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Specialization  string             `bson:"specialization"`
	Email           string             `bson:"email"`
	Phone           string             `bson:"phone"`
	Experience      int                `bson:"experience"`
	ConsultationFee float64            `bson:"consultation_fee"`
	Rating          float64            `bson:"rating"`
	TotalRatings    int                `bson:"total_ratings"`
	Bio             string             `bson:"bio,omitempty"`
	Qualifications  []string           `bson:"qualifications"`
	AvailableSlots  []slotDoc          `bson:"available_slots"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toDoctorDoc(d *domain.Doctor) doctorDoc {
	slots := make([]slotDoc, 0, len(d.AvailableSlots))
	for _, s := range d.AvailableSlots {
		slots = append(slots, slotDoc{Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime, IsAvailable: s.IsAvailable})
	}
	qualifications := d.Qualifications
	if qualifications == nil {
		qualifications = []string{}
	}
	doc := doctorDoc{
		Name:            d.Name,
		Specialization:  d.Specialization,
		Email:           d.Email,
		Phone:           d.Phone,
		Experience:      d.Experience,
		ConsultationFee: d.ConsultationFee,
		Rating:          d.Rating,
		TotalRatings:    d.TotalRatings,
		Bio:             d.Bio,
		Qualifications:  qualifications,
		AvailableSlots:  slots,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if oid, ok := objectID(d.ID); ok {
		doc.ID = oid
	}
	return doc
}

func (d doctorDoc) toDomain() *domain.Doctor {
	slots := make([]domain.AvailabilitySlot, 0, len(d.AvailableSlots))
	for _, s := range d.AvailableSlots {
		slots = append(slots, domain.AvailabilitySlot{Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime, IsAvailable: s.IsAvailable})
	}
	qualifications := d.Qualifications
	if qualifications == nil {
		qualifications = []string{}
	}
	return &domain.Doctor{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Specialization:  d.Specialization,
		Email:           d.Email,
		Phone:           d.Phone,
		Experience:      d.Experience,
		ConsultationFee: d.ConsultationFee,
		Rating:          d.Rating,
		TotalRatings:    d.TotalRatings,
		Bio:             d.Bio,
		Qualifications:  qualifications,
		AvailableSlots:  slots,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *DoctorRepository) Create(ctx context.Context, d *domain.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDoctorDoc(d))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDoctorExists
		}
		return fmt.Errorf("insert doctor: %w", err)
	}
	d.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	doc, err := findOne[doctorDoc](ctx, r.col, bson.M{"_id": oid}, domain.ErrDoctorNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *DoctorRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Doctor, error) {
	out := make(map[string]*domain.Doctor, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}
	docs, err := findAll[doctorDoc](ctx, r.col, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}
	for _, d := range docs {
		doctor := d.toDomain()
		out[doctor.ID] = doctor
	}
	return out, nil
}

// List filters by case-insensitive specialization, text search, minimum
// rating and maximum fee; best rated first.
func (r *DoctorRepository) List(ctx context.Context, filter ports.DoctorFilter) ([]*domain.Doctor, int64, error) {
	query := bson.M{}
	if filter.Specialization != "" {
		query["specialization"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.Specialization) + "$", Options: "i"}
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	if filter.MinRating > 0 {
		query["rating"] = bson.M{"$gte": filter.MinRating}
	}
	if filter.MaxFee > 0 {
		query["consultation_fee"] = bson.M{"$lte": filter.MaxFee}
	}

	sortBy := bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: -1}}
	docs, total, err := findPage[doctorDoc](ctx, r.col, query, sortBy, filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	doctors := make([]*domain.Doctor, 0, len(docs))
	for _, d := range docs {
		doctors = append(doctors, d.toDomain())
	}
	return doctors, total, nil
}

func (r *DoctorRepository) Update(ctx context.Context, d *domain.Doctor) error {
	oid, ok := objectID(d.ID)
	if !ok {
		return domain.ErrDoctorNotFound
	}
	err := replaceByID(ctx, r.col, oid, toDoctorDoc(d), domain.ErrDoctorNotFound)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDoctorExists
	}
	return err
}

func (r *DoctorRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrDoctorNotFound)
}

func (r *DoctorRepository) Specializations(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, r.col, "specialization")
}

func (r *DoctorRepository) Count(ctx context.Context) (int64, error) {
	return countDocuments(ctx, r.col, bson.M{})
}

func (r *DoctorRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specialization", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "specialization", Value: "text"}, {Key: "bio", Value: "text"}},
			Options: options.Index().SetName("doctors_text"),
		},
	})
}

// distinctStrings returns the sorted distinct non-empty values of field.
func distinctStrings(ctx context.Context, col *mongo.Collection, field string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := col.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}
