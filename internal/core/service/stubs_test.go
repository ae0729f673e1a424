package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("user-%d", r.seq)
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if f.Role == "" || u.Role == f.Role {
			out = append(out, cloneUser(u))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) Count(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if role == "" || u.Role == role {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

type stubDoctorRepo struct {
	doctors map[string]*domain.Doctor
}

func newStubDoctorRepo(doctors ...*domain.Doctor) *stubDoctorRepo {
	r := &stubDoctorRepo{doctors: make(map[string]*domain.Doctor)}
	for _, d := range doctors {
		r.doctors[d.ID] = d
	}
	return r
}

func (r *stubDoctorRepo) Create(_ context.Context, d *domain.Doctor) error {
	if d.ID == "" {
		d.ID = fmt.Sprintf("doc-%d", len(r.doctors)+1)
	}
	clone := *d
	r.doctors[d.ID] = &clone
	return nil
}

func (r *stubDoctorRepo) FindByID(_ context.Context, id string) (*domain.Doctor, error) {
	if d, ok := r.doctors[id]; ok {
		clone := *d
		return &clone, nil
	}
	return nil, domain.ErrDoctorNotFound
}

func (r *stubDoctorRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Doctor, error) {
	out := make(map[string]*domain.Doctor)
	for _, id := range ids {
		if d, ok := r.doctors[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (r *stubDoctorRepo) List(_ context.Context, _ ports.DoctorFilter) ([]*domain.Doctor, int64, error) {
	var out []*domain.Doctor
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDoctorRepo) Update(_ context.Context, d *domain.Doctor) error {
	if _, ok := r.doctors[d.ID]; !ok {
		return domain.ErrDoctorNotFound
	}
	clone := *d
	r.doctors[d.ID] = &clone
	return nil
}

func (r *stubDoctorRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.doctors[id]; !ok {
		return domain.ErrDoctorNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *stubDoctorRepo) Specializations(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, d := range r.doctors {
		if !seen[d.Specialization] {
			seen[d.Specialization] = true
			out = append(out, d.Specialization)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubDoctorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.doctors)), nil
}

type stubTestRepo struct {
	tests map[string]*domain.LabTest
}

func newStubTestRepo(tests ...*domain.LabTest) *stubTestRepo {
	r := &stubTestRepo{tests: make(map[string]*domain.LabTest)}
	for _, t := range tests {
		r.tests[t.ID] = t
	}
	return r
}

func (r *stubTestRepo) Create(_ context.Context, t *domain.LabTest) error {
	if t.ID == "" {
		t.ID = fmt.Sprintf("test-%d", len(r.tests)+1)
	}
	clone := *t
	r.tests[t.ID] = &clone
	return nil
}

func (r *stubTestRepo) FindByID(_ context.Context, id string) (*domain.LabTest, error) {
	if t, ok := r.tests[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, domain.ErrTestNotFound
}

func (r *stubTestRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.LabTest, error) {
	out := make(map[string]*domain.LabTest)
	for _, id := range ids {
		if t, ok := r.tests[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (r *stubTestRepo) List(_ context.Context, _ ports.TestFilter) ([]*domain.LabTest, int64, error) {
	var out []*domain.LabTest
	for _, t := range r.tests {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTestRepo) Update(_ context.Context, t *domain.LabTest) error {
	if _, ok := r.tests[t.ID]; !ok {
		return domain.ErrTestNotFound
	}
	clone := *t
	r.tests[t.ID] = &clone
	return nil
}

func (r *stubTestRepo) Delete(_ context.Context, id string) error {
	delete(r.tests, id)
	return nil
}

func (r *stubTestRepo) Categories(_ context.Context) ([]string, error) {
	return domain.TestCategories, nil
}

func (r *stubTestRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.tests)), nil
}

// ---------------------------------------------------------------------------
// Appointments: Create/Update reject a duplicate slot key like the unique
// index does.
// ---------------------------------------------------------------------------

type stubAppointmentRepo struct {
	byID       map[string]*domain.Appointment
	seq        int
	slotChecks int
	saveStates int
	// skipSlotCheck makes SlotTaken always report a free slot, to exercise
	// the storage-level guard.
	skipSlotCheck bool
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment)}
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	clone := *a
	return &clone
}

func (r *stubAppointmentRepo) slotHeld(key, excludeID string) bool {
	if key == "" {
		return false
	}
	for id, a := range r.byID {
		if id != excludeID && a.SlotKey() == key {
			return true
		}
	}
	return false
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	if r.slotHeld(a.SlotKey(), "") {
		return domain.ErrSlotTaken
	}
	r.seq++
	a.ID = fmt.Sprintf("appt-%d", r.seq)
	r.byID[a.ID] = cloneAppointment(a)
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	if a, ok := r.byID[id]; ok {
		return cloneAppointment(a), nil
	}
	return nil, domain.ErrAppointmentNotFound
}

func (r *stubAppointmentRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Appointment, error) {
	out := make(map[string]*domain.Appointment)
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out[id] = cloneAppointment(a)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) SlotTaken(_ context.Context, q ports.SlotQuery) (bool, error) {
	r.slotChecks++
	if r.skipSlotCheck {
		return false, nil
	}
	for id, a := range r.byID {
		if id == q.ExcludeID {
			continue
		}
		if a.Status != domain.StatusPending && a.Status != domain.StatusConfirmed {
			continue
		}
		if !a.Date.Equal(q.Date) || a.Time != q.Time {
			continue
		}
		if q.DoctorID != "" && a.DoctorID != q.DoctorID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *stubAppointmentRepo) List(_ context.Context, f ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	var out []*domain.Appointment
	for _, a := range r.byID {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		out = append(out, cloneAppointment(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubAppointmentRepo) Recent(_ context.Context, limit int) ([]*domain.Appointment, error) {
	all, _, _ := r.List(context.Background(), ports.ListAppointmentsFilter{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *stubAppointmentRepo) Update(_ context.Context, a *domain.Appointment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrAppointmentNotFound
	}
	if r.slotHeld(a.SlotKey(), a.ID) {
		return domain.ErrSlotTaken
	}
	r.byID[a.ID] = cloneAppointment(a)
	return nil
}

func (r *stubAppointmentRepo) SaveState(_ context.Context, a *domain.Appointment) error {
	stored, ok := r.byID[a.ID]
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	r.saveStates++
	stored.Status = a.Status
	stored.PaymentStatus = a.PaymentStatus
	stored.UpdatedAt = a.UpdatedAt
	return nil
}

func (r *stubAppointmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAppointmentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// ---------------------------------------------------------------------------
// Payments: Create rejects a second active payment like the partial index.
// ---------------------------------------------------------------------------

type stubPaymentRepo struct {
	byID map[string]*domain.Payment
	seq  int
	// beforeUpdate runs once ahead of the next Update, standing in for a
	// concurrent writer.
	beforeUpdate func()
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{byID: make(map[string]*domain.Payment)}
}

func clonePayment(p *domain.Payment) *domain.Payment {
	clone := *p
	return &clone
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	for _, existing := range r.byID {
		if existing.AppointmentID == p.AppointmentID && existing.Status.IsActive() {
			return domain.ErrPaymentInProgress
		}
	}
	r.seq++
	p.ID = fmt.Sprintf("pay-%d", r.seq)
	r.byID[p.ID] = clonePayment(p)
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	if p, ok := r.byID[id]; ok {
		return clonePayment(p), nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *stubPaymentRepo) FindActiveByAppointment(_ context.Context, appointmentID string) (*domain.Payment, error) {
	for _, p := range r.byID {
		if p.AppointmentID == appointmentID && p.Status.IsActive() {
			return clonePayment(p), nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *stubPaymentRepo) FindByGatewayOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	for _, p := range r.byID {
		if p.GatewayOrderID == orderID {
			return clonePayment(p), nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *stubPaymentRepo) List(_ context.Context, f ports.ListPaymentsFilter) ([]*domain.Payment, int64, error) {
	var out []*domain.Payment
	for _, p := range r.byID {
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		out = append(out, clonePayment(p))
	}
	return out, int64(len(out)), nil
}

// Update mirrors the status guard of the Mongo repository.
func (r *stubPaymentRepo) Update(_ context.Context, p *domain.Payment, from domain.PaymentStatus) error {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook()
	}
	stored, ok := r.byID[p.ID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	if stored.Status != from {
		return domain.ErrPaymentConflict
	}
	r.byID[p.ID] = clonePayment(p)
	return nil
}

func (r *stubPaymentRepo) Stats(_ context.Context) (*ports.PaymentStats, error) {
	stats := &ports.PaymentStats{}
	for _, p := range r.byID {
		stats.Total++
		if p.Status == domain.PaymentCompleted {
			stats.Completed++
			stats.TotalRevenue += p.Amount
		}
	}
	return stats, nil
}

func (r *stubPaymentRepo) RevenueSince(_ context.Context, since time.Time) (float64, error) {
	var sum float64
	for _, p := range r.byID {
		if p.Status == domain.PaymentCompleted && !p.CreatedAt.Before(since) {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (r *stubPaymentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// ---------------------------------------------------------------------------
// Gateway, publisher, dedup
// ---------------------------------------------------------------------------

type stubGateway struct {
	orderErr    error
	refundErr   error
	validSig    bool
	webhookOK   bool
	orders      []ports.GatewayOrderRequest
	refunds     []string
	refundMinor []int64
}

func (g *stubGateway) KeyID() string { return "rzp_test_key" }

func (g *stubGateway) CreateOrder(_ context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	g.orders = append(g.orders, req)
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	id := fmt.Sprintf("order_gw_%d", len(g.orders))
	return &ports.GatewayOrder{
		ID:       id,
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
		Raw:      map[string]any{"id": id},
	}, nil
}

func (g *stubGateway) Refund(_ context.Context, paymentID string, amount int64) (map[string]any, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, paymentID)
	g.refundMinor = append(g.refundMinor, amount)
	return map[string]any{"id": "rfnd_1"}, nil
}

func (g *stubGateway) VerifyPaymentSignature(_, _, _ string) bool { return g.validSig }

func (g *stubGateway) VerifyWebhookSignature(_ []byte, _ string) bool { return g.webhookOK }

type stubPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return p.err
}

func (p *stubPublisher) has(topic string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.topics {
		if t == topic {
			return true
		}
	}
	return false
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, _ string) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, eventID string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, eventID)
	return nil
}
