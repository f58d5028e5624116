package usecase_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	domainErrors "github.com/kenang-app/kenang-billing/internal/domain/errors"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/domain/provider"
	"github.com/kenang-app/kenang-billing/internal/usecase"
)

var orderIDPattern = regexp.MustCompile(`^SUB-[0-9a-f]{8}-\d{14}-[0-9a-f]{8}$`)

func TestCheckoutUsecase_CreateCheckout(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	catalog := plan.MustDefault()
	userID := uuid.MustParse("0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")
	fixed := time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC)

	t.Run("successful checkout", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		payments := new(MockPaymentRepository)
		users := new(MockUserRepository)
		uc := usecase.NewCheckoutUsecase(catalog, gateway, payments, users, "https://kenang.app/", logger, usecase.WithClock(func() time.Time { return fixed }))

		users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID, Email: "rina@example.com", PhoneNumber: "+6281234"}, nil)
		gateway.On("CreateSession", ctx, mock.MatchedBy(func(req *provider.SessionRequest) bool {
			return req.AmountIDR == 29000 &&
				len(req.Items) == 1 &&
				req.Items[0].ID == "personal" &&
				req.Items[0].Name == "Kenang Pribadi" &&
				req.Items[0].Category == "subscription" &&
				req.Items[0].Quantity == 1 &&
				req.Customer.FirstName == "Pengguna Kenang" &&
				req.Customer.Email == "rina@example.com" &&
				req.Callbacks.Finish == "https://kenang.app/payment/success" &&
				req.Callbacks.Error == "https://kenang.app/payment/error" &&
				req.Callbacks.Pending == "https://kenang.app/payment/pending" &&
				req.EnabledPayments[0] == "bca_va"
		})).Return(&provider.Session{Token: "snap-token", RedirectURL: "https://pay/snap-token"}, nil)
		payments.On("Create", ctx, mock.MatchedBy(func(p *entity.Payment) bool {
			return p.AmountIDR == 29000 &&
				p.Status == entity.PaymentStatusPending &&
				p.Currency == entity.CurrencyIDR &&
				p.Provider == entity.ProviderMidtrans &&
				p.SubscriptionID == nil &&
				p.PlanID() == "personal" &&
				*p.UserID == userID
		})).Return(nil)

		result, err := uc.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: "personal", PaymentMethod: "bca_va"})

		require.NoError(t, err)
		assert.Equal(t, "snap-token", result.Token)
		assert.Equal(t, "https://pay/snap-token", result.RedirectURL)
		assert.Equal(t, int64(29000), result.AmountIDR)
		assert.Equal(t, "personal", result.PlanID)
		assert.Regexp(t, orderIDPattern, result.OrderID)
		assert.Contains(t, result.OrderID, "SUB-0f1e2d3c-20240309080706-")

		gateway.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("unknown plan", func(t *testing.T) {
		uc := usecase.NewCheckoutUsecase(catalog, new(MockPaymentGateway), new(MockPaymentRepository), new(MockUserRepository), "https://kenang.app", logger)

		_, err := uc.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: "gold"})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidPlan)
	})

	t.Run("free plan", func(t *testing.T) {
		uc := usecase.NewCheckoutUsecase(catalog, new(MockPaymentGateway), new(MockPaymentRepository), new(MockUserRepository), "https://kenang.app", logger)

		_, err := uc.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: "free"})
		assert.ErrorIs(t, err, domainErrors.ErrFreePlanNotPurchasable)
	})

	t.Run("gateway not configured", func(t *testing.T) {
		uc := usecase.NewCheckoutUsecase(catalog, nil, new(MockPaymentRepository), new(MockUserRepository), "https://kenang.app", logger)

		_, err := uc.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: "plus"})
		assert.ErrorIs(t, err, domainErrors.ErrPaymentNotConfigured)
	})

	t.Run("user not found", func(t *testing.T) {
		users := new(MockUserRepository)
		uc := usecase.NewCheckoutUsecase(catalog, new(MockPaymentGateway), new(MockPaymentRepository), users, "https://kenang.app", logger)
		users.On("GetByID", ctx, userID).Return(nil, nil)

		_, err := uc.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: "plus"})
		assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	})

	t.Run("gateway failure records nothing", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		payments := new(MockPaymentRepository)
		users := new(MockUserRepository)
		uc := usecase.NewCheckoutUsecase(catalog, gateway, payments, users, "https://kenang.app", logger)

		users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID, FullName: "Rina"}, nil)
		gateway.On("CreateSession", ctx, mock.Anything).Return(nil, &provider.ProviderError{Code: "API_ERROR", Message: "timeout"})

		_, err := uc.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: "premium"})
		assert.ErrorIs(t, err, domainErrors.ErrPaymentAPI)
		payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("every paid plan charges its price with a fresh order id", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		payments := new(MockPaymentRepository)
		users := new(MockUserRepository)
		uc := usecase.NewCheckoutUsecase(catalog, gateway, payments, users, "https://kenang.app", logger, usecase.WithClock(func() time.Time { return fixed }))

		users.On("GetByID", ctx, userID).Return(&entity.User{ID: userID, FullName: "Rina"}, nil)
		gateway.On("CreateSession", ctx, mock.Anything).Return(&provider.Session{Token: "t", RedirectURL: "u"}, nil)
		payments.On("Create", ctx, mock.Anything).Return(nil)

		seen := map[string]bool{}
		for _, p := range catalog.List(false) {
			result, err := uc.CreateCheckout(ctx, entity.CheckoutRequest{UserID: userID, PlanID: p.ID})
			require.NoError(t, err)
			assert.Equal(t, p.PriceIDR, result.AmountIDR)
			assert.False(t, seen[result.OrderID], "order id reused")
			seen[result.OrderID] = true
		}
	})
}

func TestNewOrderID(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := usecase.NewOrderID(userID, now)
		require.NoError(t, err)
		assert.Regexp(t, orderIDPattern, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestEnabledPayments(t *testing.T) {
	assert.Equal(t, usecase.DefaultEnabledPayments, usecase.EnabledPayments(""))

	preferred := usecase.EnabledPayments("bri_va")
	assert.Equal(t, "bri_va", preferred[0])
	assert.Len(t, preferred, len(usecase.DefaultEnabledPayments))

	custom := usecase.EnabledPayments("akulaku")
	assert.Equal(t, "akulaku", custom[0])
	assert.Len(t, custom, len(usecase.DefaultEnabledPayments)+1)
}
