package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kenang-app/kenang-billing/internal/adapter/repository"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/model"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/domain/provider"
	domainRepo "github.com/kenang-app/kenang-billing/internal/domain/repository"
	"github.com/kenang-app/kenang-billing/internal/infrastructure/database/databasetest"
	"github.com/kenang-app/kenang-billing/internal/infrastructure/provider/midtrans"
	"github.com/kenang-app/kenang-billing/internal/usecase"
)

const testServerKey = "SB-Mid-server-test"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// harness wires the usecases over an in-memory database
type harness struct {
	db            *gorm.DB
	clock         *testClock
	catalog       *plan.Catalog
	payments      domainRepo.PaymentRepository
	subs          domainRepo.SubscriptionRepository
	users         domainRepo.UserRepository
	tx            domainRepo.Transactor
	publisher     *recordingPublisher
	gateway       *MockPaymentGateway
	checkout      *usecase.CheckoutUsecase
	subscriptions *usecase.SubscriptionUsecase
	webhook       *usecase.WebhookUsecase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := zap.NewNop()
	db := databasetest.New(t)
	clock := &testClock{now: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)}
	withClock := usecase.WithClock(clock.Now)

	h := &harness{
		db:        db,
		clock:     clock,
		catalog:   plan.MustDefault(),
		payments:  repository.NewPaymentRepository(db, logger),
		subs:      repository.NewSubscriptionRepository(db, logger),
		users:     repository.NewUserRepository(db, logger),
		tx:        repository.NewTransactor(db),
		publisher: &recordingPublisher{},
		gateway:   new(MockPaymentGateway),
	}

	h.gateway.On("CreateSession", mock.Anything, mock.Anything).
		Return(&provider.Session{Token: "snap-token", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token"}, nil)

	h.checkout = usecase.NewCheckoutUsecase(h.catalog, h.gateway, h.payments, h.users, "https://kenang.app", logger, withClock)
	h.subscriptions = usecase.NewSubscriptionUsecase(h.catalog, h.subs, h.payments, h.users, h.tx, h.publisher, logger, withClock)
	h.webhook = usecase.NewWebhookUsecase(midtrans.NewCodec(testServerKey), h.catalog, h.payments, h.subscriptions, h.tx, h.publisher, logger, withClock)

	return h
}

func (h *harness) seedUser(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, h.db.Create(&model.User{
		ID:               id,
		Email:            id.String()[:8] + "@example.com",
		FullName:         "Dewi",
		SubscriptionTier: string(plan.TierFree),
	}).Error)
	return id
}

// checkoutPlan runs a checkout and returns the pending payment
func (h *harness) checkoutPlan(t *testing.T, userID uuid.UUID, planID string) *entity.Payment {
	t.Helper()
	ctx := context.Background()

	result, err := h.checkout.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: planID})
	require.NoError(t, err)

	payment, err := h.payments.GetByID(ctx, result.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	return payment
}

func (h *harness) payment(t *testing.T, orderID string) *entity.Payment {
	t.Helper()
	var m model.Payment
	require.NoError(t, h.db.Where("payment_provider_transaction_id = ?", orderID).First(&m).Error)
	payment, err := h.payments.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	return payment
}

func (h *harness) user(t *testing.T, id uuid.UUID) *entity.User {
	t.Helper()
	user, err := h.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func (h *harness) countSubscriptions(t *testing.T, userID uuid.UUID, status entity.SubscriptionStatus) int64 {
	t.Helper()
	var count int64
	query := h.db.Model(&model.Subscription{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	require.NoError(t, query.Count(&count).Error)
	return count
}

var statusCodes = map[string]string{
	"capture":    "200",
	"settlement": "200",
	"pending":    "201",
}

// notification builds a signed gateway notification body
func notification(t *testing.T, orderID, transactionStatus, grossAmount string, overrides map[string]interface{}) []byte {
	t.Helper()

	statusCode, ok := statusCodes[transactionStatus]
	if !ok {
		statusCode = "202"
	}

	body := map[string]interface{}{
		"order_id":           orderID,
		"transaction_status": transactionStatus,
		"status_code":        statusCode,
		"gross_amount":       grossAmount,
		"payment_type":       "gopay",
		"transaction_id":     "9aed5972-5b6a-401e-894b-a32c91ed1a3a",
		"transaction_time":   "2024-05-01 16:30:00",
		"fraud_status":       "accept",
		"signature_key":      midtrans.Signature(orderID, statusCode, grossAmount, testServerKey),
	}
	for k, v := range overrides {
		body[k] = v
	}

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}
