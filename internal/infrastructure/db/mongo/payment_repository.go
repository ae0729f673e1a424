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

const collectionPayments = "payments"

// PaymentRepository stores payments. The active flag mirrors
// PaymentStatus.IsActive and backs a unique partial index on appointment_id.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

type paymentDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           primitive.ObjectID `bson:"user_id"`
	AppointmentID    primitive.ObjectID `bson:"appointment_id"`
	Amount           float64            `bson:"amount"`
	Currency         string             `bson:"currency"`
	Method           string             `bson:"payment_method"`
	Status           string             `bson:"payment_status"`
	Active           bool               `bson:"active"`
	TransactionID    string             `bson:"transaction_id"`
	GatewayOrderID   string             `bson:"gateway_order_id,omitempty"`
	GatewayPaymentID string             `bson:"gateway_payment_id,omitempty"`
	GatewayResponse  map[string]any     `bson:"gateway_response,omitempty"`
	RefundAmount     float64            `bson:"refund_amount,omitempty"`
	RefundReason     string             `bson:"refund_reason,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func toPaymentDoc(p *domain.Payment) paymentDoc {
	doc := paymentDoc{
		Amount:           p.Amount,
		Currency:         p.Currency,
		Method:           string(p.Method),
		Status:           string(p.Status),
		Active:           p.Status.IsActive(),
		TransactionID:    p.TransactionID,
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID,
		GatewayResponse:  p.GatewayResponse,
		RefundAmount:     p.RefundAmount,
		RefundReason:     p.RefundReason,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if oid, ok := objectID(p.ID); ok {
		doc.ID = oid
	}
	if oid, ok := objectID(p.UserID); ok {
		doc.UserID = oid
	}
	if oid, ok := objectID(p.AppointmentID); ok {
		doc.AppointmentID = oid
	}
	return doc
}

func (d paymentDoc) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:               d.ID.Hex(),
		UserID:           hexOf(&d.UserID),
		AppointmentID:    hexOf(&d.AppointmentID),
		Amount:           d.Amount,
		Currency:         d.Currency,
		Method:           domain.PaymentMethod(d.Method),
		Status:           domain.PaymentStatus(d.Status),
		TransactionID:    d.TransactionID,
		GatewayOrderID:   d.GatewayOrderID,
		GatewayPaymentID: d.GatewayPaymentID,
		GatewayResponse:  d.GatewayResponse,
		RefundAmount:     d.RefundAmount,
		RefundReason:     d.RefundReason,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toPaymentDoc(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPaymentInProgress
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PaymentRepository) FindActiveByAppointment(ctx context.Context, appointmentID string) (*domain.Payment, error) {
	oid, ok := objectID(appointmentID)
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return r.findOne(ctx, bson.M{"appointment_id": oid, "active": true})
}

func (r *PaymentRepository) FindByGatewayOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	if orderID == "" {
		return nil, domain.ErrPaymentNotFound
	}
	return r.findOne(ctx, bson.M{"gateway_order_id": orderID})
}

func (r *PaymentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Payment, error) {
	doc, err := findOne[paymentDoc](ctx, r.col, filter, domain.ErrPaymentNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PaymentRepository) List(ctx context.Context, filter ports.ListPaymentsFilter) ([]*domain.Payment, int64, error) {
	query := bson.M{}
	if filter.UserID != "" {
		oid, ok := objectID(filter.UserID)
		if !ok {
			return []*domain.Payment{}, 0, nil
		}
		query["user_id"] = oid
	}
	if filter.Status != "" {
		query["payment_status"] = filter.Status
	}
	if filter.AppointmentID != "" {
		oid, ok := objectID(filter.AppointmentID)
		if !ok {
			return []*domain.Payment{}, 0, nil
		}
		query["appointment_id"] = oid
	}

	docs, total, err := findPage[paymentDoc](ctx, r.col, query, bson.D{{Key: "created_at", Value: -1}}, filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	payments := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		payments = append(payments, d.toDomain())
	}
	return payments, total, nil
}

// Update replaces the payment when its stored status still equals from. No
// match means the payment is gone or another writer moved it first.
func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment, from domain.PaymentStatus) error {
	oid, ok := objectID(p.ID)
	if !ok {
		return domain.ErrPaymentNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, paymentGuard(oid, from), toPaymentDoc(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPaymentInProgress
		}
		return fmt.Errorf("update payment: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if n == 0 {
		return domain.ErrPaymentNotFound
	}
	return domain.ErrPaymentConflict
}

func paymentGuard(id primitive.ObjectID, from domain.PaymentStatus) bson.M {
	return bson.M{"_id": id, "payment_status": string(from)}
}

type statusTotals struct {
	Status   string  `bson:"_id"`
	Count    int64   `bson:"count"`
	Amount   float64 `bson:"amount"`
	Refunded float64 `bson:"refunded"`
}

func (r *PaymentRepository) Stats(ctx context.Context) (*ports.PaymentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$payment_status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "refunded", Value: bson.D{{Key: "$sum", Value: "$refund_amount"}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}
	var rows []statusTotals
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}

	stats := &ports.PaymentStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.PaymentStatus(row.Status) {
		case domain.PaymentCompleted:
			stats.Completed = row.Count
			stats.TotalRevenue = row.Amount
		case domain.PaymentPending:
			stats.Pending = row.Count
		case domain.PaymentFailed:
			stats.Failed = row.Count
		case domain.PaymentRefunded:
			stats.Refunded = row.Count
			stats.RefundedTotal = row.Refunded
		}
	}
	return stats, nil
}

// RevenueSince sums completed payments created at or after since.
func (r *PaymentRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "payment_status", Value: string(domain.PaymentCompleted)},
			{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("revenue: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("revenue: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *PaymentRepository) Count(ctx context.Context) (int64, error) {
	return countDocuments(ctx, r.col, bson.M{})
}

// EnsureIndexes creates the one-active-payment-per-appointment index and the
// lookup indexes.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "appointment_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_payment").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
		{Keys: bson.D{{Key: "gateway_order_id", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "payment_status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}
