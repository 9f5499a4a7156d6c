package payment

import (
	"context"
	"sync"
	"time"

	bookingRepo "studyspace/database/repository/booking"
	"studyspace/models"
	"studyspace/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var testLogger = zap.NewNop()

type fakeSettings struct {
	settings *models.ProviderSettings
	err      error
	calls    int
}

func (f *fakeSettings) Get(ctx context.Context, category, provider string) (*models.ProviderSettings, error) {
	f.calls++
	return f.settings, f.err
}

func secretSettings(kv map[string]interface{}) *fakeSettings {
	return &fakeSettings{settings: &models.ProviderSettings{
		Category: "payment",
		Provider: "razorpay",
		Settings: kv,
		IsActive: true,
	}}
}

type fakeTransactionRepo struct {
	mu       sync.Mutex
	txs      map[primitive.ObjectID]*models.Transaction
	findErr  error
	writes   int
	activity []models.TransactionActivity
}

func newFakeTransactionRepo(txs ...*models.Transaction) *fakeTransactionRepo {
	r := &fakeTransactionRepo{txs: map[primitive.ObjectID]*models.Transaction{}}
	for _, tx := range txs {
		r.txs[tx.ID] = tx
	}
	return r
}

func (r *fakeTransactionRepo) FindByGatewayIDs(ctx context.Context, paymentID, orderID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, tx := range r.txs {
		if (paymentID != "" && tx.RazorpayPaymentID == paymentID) || (orderID != "" && tx.RazorpayOrderID == orderID) {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) ApplyGatewayUpdate(ctx context.Context, id primitive.ObjectID, expected models.TransactionStatus, patch models.TransactionPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.Status != expected {
		return false, nil
	}
	r.writes++
	if patch.Status != nil {
		tx.Status = *patch.Status
	}
	if patch.RazorpayPaymentID != "" {
		tx.RazorpayPaymentID = patch.RazorpayPaymentID
	}
	if patch.PaymentMethod != "" {
		tx.PaymentMethod = patch.PaymentMethod
	}
	if patch.PaymentResponse != nil {
		tx.PaymentResponse = patch.PaymentResponse
	}
	if patch.OrderResponse != nil {
		tx.OrderResponse = patch.OrderResponse
	}
	tx.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeTransactionRepo) RecentGatewayActivity(ctx context.Context, since time.Time, limit int64) ([]models.TransactionActivity, error) {
	return r.activity, nil
}

func (r *fakeTransactionRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeTransactionRepo) get(id primitive.ObjectID) models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.txs[id]
}

// fakeBookingRepo mirrors the conditional renewal push of the Mongo store.
type fakeBookingRepo struct {
	mu       sync.Mutex
	kind     models.BookingType
	bookings map[primitive.ObjectID]*models.Booking
	patches  int
	patchErr error
}

func newFakeBookingRepo(kind models.BookingType, bookings ...*models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{kind: kind, bookings: map[primitive.ObjectID]*models.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) Kind() models.BookingType { return r.kind }

func (r *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	cp.RenewalHistory = append([]models.RenewalHistoryEntry(nil), b.RenewalHistory...)
	cp.CouponsHistory = append([]models.CouponHistoryEntry(nil), b.CouponsHistory...)
	return &cp, nil
}

func (r *fakeBookingRepo) ApplyPatch(ctx context.Context, id primitive.ObjectID, patch models.BookingPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.patchErr != nil {
		return false, r.patchErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	if patch.RenewalEntry != nil && b.HasRenewal(patch.RenewalEntry.TransactionID) {
		return false, nil
	}
	r.patches++
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		b.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentDate != nil {
		b.PaymentDate = patch.PaymentDate
	}
	if patch.EndDate != nil {
		b.EndDate = patch.EndDate
	}
	if patch.Months != nil {
		b.Months = *patch.Months
	}
	if patch.TotalPrice != nil {
		b.TotalPrice = *patch.TotalPrice
	}
	if patch.RenewalEntry != nil {
		b.RenewalHistory = append(b.RenewalHistory, *patch.RenewalEntry)
	}
	if patch.CouponEntry != nil {
		b.CouponsHistory = append(b.CouponsHistory, *patch.CouponEntry)
	}
	return true, nil
}

func (r *fakeBookingRepo) get(id primitive.ObjectID) models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.bookings[id]
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads []models.ReconciledPayload
	err      error
}

func (p *fakePublisher) PublishReconciled(ctx context.Context, payload models.ReconciledPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

type fixture struct {
	txRepo    *fakeTransactionRepo
	cabins    *fakeBookingRepo
	hostels   *fakeBookingRepo
	publisher *fakePublisher
	sync      *DefaultBookingSynchronizer
}

func newFixture(txs []*models.Transaction, cabins []*models.Booking, hostels []*models.Booking) *fixture {
	f := &fixture{
		txRepo:    newFakeTransactionRepo(txs...),
		cabins:    newFakeBookingRepo(models.BookingTypeCabin, cabins...),
		hostels:   newFakeBookingRepo(models.BookingTypeHostel, hostels...),
		publisher: &fakePublisher{},
	}
	f.sync = NewBookingSynchronizer(
		bookingRepo.NewRegistry(f.cabins, f.hostels),
		utils.NewLocalLocker(),
		f.publisher,
		testLogger,
	)
	f.sync.now = func() time.Time { return fixedNow }
	return f
}

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
