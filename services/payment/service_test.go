package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"studyspace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "whsec_service"

func newTestService(f *fixture) *DefaultWebhookService {
	return NewWebhookService(
		NewHMACVerifier(secretSettings(map[string]interface{}{"webhookSecret": testSecret}), "payment", "razorpay"),
		NewTransactionUpdater(f.txRepo, testLogger),
		f.sync,
		testLogger,
	)
}

func paymentBody(event, paymentID, orderID string) []byte {
	return []byte(fmt.Sprintf(`{"event":%q,"payload":{"payment":{"entity":{"id":%q,"order_id":%q,"method":"upi","amount":150000}}}}`, event, paymentID, orderID))
}

func process(t *testing.T, svc *DefaultWebhookService, body []byte) (string, Result, error) {
	t.Helper()
	return svc.Process(context.Background(), body, Sign(testSecret, body))
}

func TestProcess_CapturedCompletesTransactionAndBooking(t *testing.T) {
	booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingPending, PaymentStatus: models.BookingPending}
	tx := bookingTx(models.BookingTypeCabin, booking.ID, models.TransactionPending)
	tx.RazorpayOrderID = "order_1"
	f := newFixture([]*models.Transaction{tx}, []*models.Booking{booking}, nil)
	svc := newTestService(f)

	kind, result, err := process(t, svc, paymentBody("payment.captured", "pay_1", "order_1"))
	require.NoError(t, err)
	assert.Equal(t, "payment.captured", kind)
	assert.Equal(t, ResultProcessed, result)

	stored := f.txRepo.get(tx.ID)
	assert.Equal(t, models.TransactionCompleted, stored.Status)
	assert.Equal(t, "pay_1", stored.RazorpayPaymentID)
	assert.Equal(t, "upi", stored.PaymentMethod)
	assert.Equal(t, "pay_1", stored.PaymentResponse["id"])

	got := f.cabins.get(booking.ID)
	assert.Equal(t, models.BookingCompleted, got.Status)
	assert.Equal(t, models.BookingCompleted, got.PaymentStatus)
}

func TestProcess_InvalidSignatureTouchesNothing(t *testing.T) {
	tx := bookingTx(models.BookingTypeCabin, primitive.NewObjectID(), models.TransactionPending)
	tx.RazorpayOrderID = "order_1"
	f := newFixture([]*models.Transaction{tx}, nil, nil)
	svc := newTestService(f)
	body := paymentBody("payment.captured", "pay_1", "order_1")

	_, _, err := svc.Process(context.Background(), body, Sign("wrong", body))
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, 0, f.txRepo.writes)
	assert.Equal(t, models.TransactionPending, f.txRepo.get(tx.ID).Status)
}

func TestProcess_MalformedEvent(t *testing.T) {
	f := newFixture(nil, nil, nil)
	svc := newTestService(f)

	_, _, err := process(t, svc, []byte(`{"event":"payment.captured","payload":{}}`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestProcess_UnknownEventIgnored(t *testing.T) {
	tx := bookingTx(models.BookingTypeCabin, primitive.NewObjectID(), models.TransactionPending)
	f := newFixture([]*models.Transaction{tx}, nil, nil)
	svc := newTestService(f)

	kind, result, err := process(t, svc, []byte(`{"event":"refund.created","payload":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "refund.created", kind)
	assert.Equal(t, ResultIgnored, result)
	assert.Equal(t, 0, f.txRepo.writes)
}

func TestProcess_TransactionNotFound(t *testing.T) {
	f := newFixture(nil, nil, nil)
	svc := newTestService(f)

	_, result, err := process(t, svc, paymentBody("payment.captured", "pay_x", "order_x"))
	require.NoError(t, err)
	assert.Equal(t, ResultTransactionNotFound, result)
	assert.Equal(t, "Transaction not found; event skipped", result.Message())
}

func TestProcess_LocateByPaymentID(t *testing.T) {
	booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingPending}
	tx := bookingTx(models.BookingTypeHostel, booking.ID, models.TransactionPending)
	tx.RazorpayOrderID = "order_other"
	tx.RazorpayPaymentID = "pay_known"
	f := newFixture([]*models.Transaction{tx}, nil, []*models.Booking{booking})
	svc := newTestService(f)

	_, result, err := process(t, svc, paymentBody("payment.failed", "pay_known", ""))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)
	assert.Equal(t, models.TransactionFailed, f.txRepo.get(tx.ID).Status)
	assert.Equal(t, models.BookingFailed, f.hostels.get(booking.ID).Status)
}

func TestProcess_AuthorizedRecordsPaymentOnly(t *testing.T) {
	booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingPending, PaymentStatus: models.BookingPending}
	tx := bookingTx(models.BookingTypeCabin, booking.ID, models.TransactionPending)
	tx.RazorpayOrderID = "order_auth"
	f := newFixture([]*models.Transaction{tx}, []*models.Booking{booking}, nil)
	svc := newTestService(f)

	_, result, err := process(t, svc, paymentBody("payment.authorized", "pay_auth", "order_auth"))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)

	stored := f.txRepo.get(tx.ID)
	assert.Equal(t, models.TransactionPending, stored.Status)
	assert.Equal(t, "pay_auth", stored.RazorpayPaymentID)
	assert.Equal(t, 0, f.cabins.patches)
}

func TestProcess_OrderPaid(t *testing.T) {
	booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingPending}
	tx := bookingTx(models.BookingTypeCabin, booking.ID, models.TransactionPending)
	tx.RazorpayOrderID = "order_paid"
	f := newFixture([]*models.Transaction{tx}, []*models.Booking{booking}, nil)
	svc := newTestService(f)

	body := []byte(`{"event":"order.paid","payload":{
		"order":{"entity":{"id":"order_paid","status":"paid"}},
		"payment":{"entity":{"id":"pay_op","order_id":"order_paid","method":"card"}}}}`)
	_, result, err := process(t, svc, body)
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)

	stored := f.txRepo.get(tx.ID)
	assert.Equal(t, models.TransactionCompleted, stored.Status)
	assert.Equal(t, "pay_op", stored.RazorpayPaymentID)
	assert.Equal(t, "paid", stored.OrderResponse["status"])
	assert.Equal(t, "card", stored.PaymentResponse["method"])
	assert.Equal(t, models.BookingCompleted, f.cabins.get(booking.ID).Status)
}

func TestProcess_CapturedThenOrderPaidSyncsOnce(t *testing.T) {
	booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingPending}
	tx := bookingTx(models.BookingTypeCabin, booking.ID, models.TransactionPending)
	tx.RazorpayOrderID = "order_dup"
	f := newFixture([]*models.Transaction{tx}, []*models.Booking{booking}, nil)
	svc := newTestService(f)

	_, _, err := process(t, svc, paymentBody("payment.captured", "pay_dup", "order_dup"))
	require.NoError(t, err)
	_, result, err := process(t, svc, []byte(`{"event":"order.paid","payload":{"order":{"entity":{"id":"order_dup"}}}}`))
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)

	assert.Equal(t, 1, f.cabins.patches)
	assert.Len(t, f.publisher.payloads, 1)
}

func TestProcess_IllegalTransitionIsAcknowledged(t *testing.T) {
	booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingCompleted, PaymentStatus: models.BookingCompleted}
	tx := bookingTx(models.BookingTypeCabin, booking.ID, models.TransactionCompleted)
	tx.RazorpayOrderID = "order_done"
	f := newFixture([]*models.Transaction{tx}, []*models.Booking{booking}, nil)
	svc := newTestService(f)

	_, result, err := process(t, svc, paymentBody("payment.failed", "pay_late", "order_done"))
	require.NoError(t, err)
	assert.Equal(t, ResultSkipped, result)
	assert.Equal(t, 0, f.txRepo.writes)
	assert.Equal(t, models.TransactionCompleted, f.txRepo.get(tx.ID).Status)
	assert.Equal(t, models.BookingCompleted, f.cabins.get(booking.ID).Status)
}

func TestProcess_RenewalRedeliveryHealsFailedSync(t *testing.T) {
	booking := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingCompleted, Months: 1, TotalPrice: 1000}
	tx := renewalTx(booking.ID)
	tx.Status = models.TransactionPending
	f := newFixture([]*models.Transaction{tx}, nil, []*models.Booking{booking})
	svc := newTestService(f)
	body := paymentBody("payment.captured", "pay_r", tx.RazorpayOrderID)

	f.hostels.patchErr = errors.New("primary stepped down")
	_, _, err := process(t, svc, body)
	require.Error(t, err)
	assert.Equal(t, models.TransactionCompleted, f.txRepo.get(tx.ID).Status)

	f.hostels.patchErr = nil
	_, result, err := process(t, svc, body)
	require.NoError(t, err)
	assert.Equal(t, ResultProcessed, result)

	_, _, err = process(t, svc, body)
	require.NoError(t, err)

	got := f.hostels.get(booking.ID)
	assert.Equal(t, 2, got.Months)
	assert.Equal(t, int64(2000), got.TotalPrice)
	assert.Len(t, got.RenewalHistory, 1)
}

func TestProcess_LookupFailure(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.txRepo.findErr = errors.New("server selection timeout")
	svc := newTestService(f)

	kind, _, err := process(t, svc, paymentBody("payment.captured", "pay_1", "order_1"))
	require.Error(t, err)
	assert.Equal(t, "payment.captured", kind)
	assert.Contains(t, err.Error(), "server selection timeout")
}

type staleRepo struct {
	*fakeTransactionRepo
}

// ApplyGatewayUpdate behaves as if another writer changed the status first.
func (staleRepo) ApplyGatewayUpdate(ctx context.Context, id primitive.ObjectID, expected models.TransactionStatus, patch models.TransactionPatch) (bool, error) {
	return false, nil
}

func TestApplyOutcome_ConcurrentUpdate(t *testing.T) {
	tx := bookingTx(models.BookingTypeCabin, primitive.NewObjectID(), models.TransactionPending)
	updater := NewTransactionUpdater(staleRepo{newFakeTransactionRepo(tx)}, testLogger)

	_, _, err := updater.ApplyOutcome(context.Background(), tx, OutcomeCompleted, models.TransactionPatch{})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestResult_Message(t *testing.T) {
	assert.Equal(t, "Webhook processed successfully", ResultProcessed.Message())
	assert.Equal(t, "Event ignored", ResultIgnored.Message())
	assert.Equal(t, "Event skipped", ResultSkipped.Message())
}
