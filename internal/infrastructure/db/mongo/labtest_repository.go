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

const collectionTests = "tests"

type TestRepository struct {
	col *mongo.Collection
}

func NewTestRepository(db *mongo.Database) *TestRepository {
	return &TestRepository{col: db.Collection(collectionTests)}
}

type labTestDoc struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty"`
	Name                    string             `bson:"name"`
	Description             string             `bson:"description"`
	Category                string             `bson:"category"`
	Price                   float64            `bson:"price"`
	Duration                int                `bson:"duration"`
	PreparationInstructions string             `bson:"preparation_instructions,omitempty"`
	NormalRange             string             `bson:"normal_range,omitempty"`
	IsAvailable             bool               `bson:"is_available"`
	CreatedAt               time.Time          `bson:"created_at"`
	UpdatedAt               time.Time          `bson:"updated_at"`
}

func toLabTestDoc(t *domain.LabTest) labTestDoc {
	doc := labTestDoc{
		Name:                    t.Name,
		Description:             t.Description,
		Category:                t.Category,
		Price:                   t.Price,
		Duration:                t.Duration,
		PreparationInstructions: t.PreparationInstructions,
		NormalRange:             t.NormalRange,
		IsAvailable:             t.IsAvailable,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
	if oid, ok := objectID(t.ID); ok {
		doc.ID = oid
	}
	return doc
}

func (d labTestDoc) toDomain() *domain.LabTest {
	return &domain.LabTest{
		ID:                      d.ID.Hex(),
		Name:                    d.Name,
		Description:             d.Description,
		Category:                d.Category,
		Price:                   d.Price,
		Duration:                d.Duration,
		PreparationInstructions: d.PreparationInstructions,
		NormalRange:             d.NormalRange,
		IsAvailable:             d.IsAvailable,
		CreatedAt:               d.CreatedAt,
		UpdatedAt:               d.UpdatedAt,
	}
}

func (r *TestRepository) Create(ctx context.Context, t *domain.LabTest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toLabTestDoc(t))
	if err != nil {
		return fmt.Errorf("insert test: %w", err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *TestRepository) FindByID(ctx context.Context, id string) (*domain.LabTest, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrTestNotFound
	}
	doc, err := findOne[labTestDoc](ctx, r.col, bson.M{"_id": oid}, domain.ErrTestNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *TestRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.LabTest, error) {
	out := make(map[string]*domain.LabTest, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}
	docs, err := findAll[labTestDoc](ctx, r.col, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find tests: %w", err)
	}
	for _, d := range docs {
		t := d.toDomain()
		out[t.ID] = t
	}
	return out, nil
}

// List returns available tests by default, ordered by category then price.
func (r *TestRepository) List(ctx context.Context, filter ports.TestFilter) ([]*domain.LabTest, int64, error) {
	query := bson.M{}
	if !filter.IncludeUnavailable {
		query["is_available"] = true
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	sortBy := bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}
	docs, total, err := findPage[labTestDoc](ctx, r.col, query, sortBy, filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list tests: %w", err)
	}
	tests := make([]*domain.LabTest, 0, len(docs))
	for _, d := range docs {
		tests = append(tests, d.toDomain())
	}
	return tests, total, nil
}

func (r *TestRepository) Update(ctx context.Context, t *domain.LabTest) error {
	oid, ok := objectID(t.ID)
	if !ok {
		return domain.ErrTestNotFound
	}
	return replaceByID(ctx, r.col, oid, toLabTestDoc(t), domain.ErrTestNotFound)
}

func (r *TestRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrTestNotFound)
}

func (r *TestRepository) Categories(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, r.col, "category")
}

func (r *TestRepository) Count(ctx context.Context) (int64, error) {
	return countDocuments(ctx, r.col, bson.M{})
}

func (r *TestRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "is_available", Value: 1}}},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("tests_text"),
		},
	})
}
