package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	handlers "github.com/kenang-app/kenang-billing/internal/adapter/handler/http"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/middleware/auth"
	"github.com/kenang-app/kenang-billing/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateCheckout(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckoutResult), args.Error(1)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) ListPlans(includeFree bool) []plan.Plan {
	args := m.Called(includeFree)
	return args.Get(0).([]plan.Plan)
}

func (m *MockSubscriptionService) GetCurrentSubscription(ctx context.Context, userID uuid.UUID) (*entity.CurrentSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurrentSubscription), args.Error(1)
}

func (m *MockSubscriptionService) CancelSubscription(ctx context.Context, subscriptionID, userID uuid.UUID, immediate bool) (*entity.Subscription, error) {
	args := m.Called(ctx, subscriptionID, userID, immediate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) CancelCurrentSubscription(ctx context.Context, userID uuid.UUID, immediate bool) (*entity.Subscription, error) {
	args := m.Called(ctx, userID, immediate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) GetPaymentHistory(ctx context.Context, userID uuid.UUID, params entity.PageParams) (*entity.PaymentHistory, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentHistory), args.Error(1)
}

func (m *MockSubscriptionService) CheckFeatureAccess(ctx context.Context, userID uuid.UUID, feature string) (*entity.FeatureAccess, error) {
	args := m.Called(ctx, userID, feature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeatureAccess), args.Error(1)
}

type MockNotificationProcessor struct {
	mock.Mock
}

func (m *MockNotificationProcessor) HandleNotification(ctx context.Context, body []byte) (*entity.WebhookResult, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WebhookResult), args.Error(1)
}

// newEcho mirrors the production server: zap error handler, validator and an
// authenticated user injected in place of the JWT middleware.
func newEcho(userID uuid.UUID) *echo.Echo {
	e := echo.New()
	logger.WithEchoLogger(e, zap.NewNop())
	e.Validator = handlers.NewRequestValidator()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID != uuid.Nil {
				ctx := auth.WithUser(c.Request().Context(), &auth.AuthUser{UserID: userID})
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	})
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
