package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicarepro/booking-system/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Embedded documents (gateway responses) decode as maps, not ordered D.
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories bundles every collection-backed repository.
type Repositories struct {
	Users        *UserRepository
	Doctors      *DoctorRepository
	Tests        *TestRepository
	Appointments *AppointmentRepository
	Payments     *PaymentRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Doctors:      NewDoctorRepository(db),
		Tests:        NewTestRepository(db),
		Appointments: NewAppointmentRepository(db),
		Payments:     NewPaymentRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. The unique slot and
// active-payment indexes are what keep concurrent bookings and payments
// consistent, so the server must not start without them.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", r.Users.EnsureIndexes},
		{"doctors", r.Doctors.EnsureIndexes},
		{"tests", r.Tests.EnsureIndexes},
		{"appointments", r.Appointments.EnsureIndexes},
		{"payments", r.Payments.EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	return nil
}

func createIndexes(ctx context.Context, col *mongo.Collection, indexes []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := col.Indexes().CreateMany(ctx, indexes)
	return err
}

// objectID parses a hex id. Malformed ids are reported as not found by the
// callers, since no document can carry them.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, ok := objectID(id)
		if !ok {
			continue
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out
}

// optionalID returns nil for an empty or malformed id.
func optionalID(id string) *primitive.ObjectID {
	if oid, ok := objectID(id); ok {
		return &oid
	}
	return nil
}

func hexOf(oid *primitive.ObjectID) string {
	if oid == nil || oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

// findOne decodes a single document into T, mapping ErrNoDocuments to notFound.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter any, notFound error) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}
	return &doc, nil
}

// findAll decodes every document matching filter.
func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// findPage returns one page of documents and the total match count.
func findPage[T any](ctx context.Context, col *mongo.Collection, filter bson.M, sort bson.D, page ports.PageRequest) ([]T, int64, error) {
	page = page.Normalize()
	opts := options.Find().
		SetSort(sort).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	docs, err := findAll[T](ctx, col, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	countCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	total, err := col.CountDocuments(countCtx, filter)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func countDocuments(ctx context.Context, col *mongo.Collection, filter any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return col.CountDocuments(ctx, filter)
}

// deleteByID removes a document, reporting notFound when nothing matched.
func deleteByID(ctx context.Context, col *mongo.Collection, id string, notFound error) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

// replaceByID overwrites a document, reporting notFound when nothing matched.
func replaceByID(ctx context.Context, col *mongo.Collection, oid primitive.ObjectID, doc any, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}
