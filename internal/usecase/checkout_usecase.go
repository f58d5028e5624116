package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	domainErrors "github.com/kenang-app/kenang-billing/internal/domain/errors"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/domain/provider"
	"github.com/kenang-app/kenang-billing/internal/domain/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	orderIDPrefix   = "SUB"
	orderIDAlphabet = "0123456789abcdef"
	orderIDRandLen  = 8
	itemCategory    = "subscription"
)

// DefaultEnabledPayments is the Snap payment method list, in display order.
var DefaultEnabledPayments = []string{
	"gopay",
	"shopeepay",
	"other_qris",
	"bca_va",
	"bni_va",
	"bri_va",
	"permata_va",
	"other_va",
	"credit_card",
}

// CheckoutUsecase opens gateway sessions and records the pending payment
type CheckoutUsecase struct {
	catalog     *plan.Catalog
	gateway     provider.PaymentGateway
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	appURL      string
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutUsecase creates the checkout usecase. gateway may be nil when
// the gateway is not configured; checkouts then fail with
// PAYMENT_NOT_CONFIGURED.
func NewCheckoutUsecase(
	catalog *plan.Catalog,
	gateway provider.PaymentGateway,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	appURL string,
	logger *zap.Logger,
	opts ...Option,
) *CheckoutUsecase {
	o := buildOptions(opts)
	return &CheckoutUsecase{
		catalog:     catalog,
		gateway:     gateway,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		appURL:      strings.TrimRight(appURL, "/"),
		logger:      logger,
		now:         o.now,
	}
}

// CreateCheckout opens a checkout session for req.PlanID and records a
// pending payment for it
func (u *CheckoutUsecase) CreateCheckout(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutResult, error) {
	p, ok := u.catalog.Get(req.PlanID)
	if !ok {
		return nil, domainErrors.ErrInvalidPlan
	}
	if p.IsFree() {
		return nil, domainErrors.ErrFreePlanNotPurchasable
	}
	if u.gateway == nil {
		return nil, domainErrors.ErrPaymentNotConfigured
	}

	user, err := u.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}

	orderID, err := NewOrderID(req.UserID, u.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	session, err := u.gateway.CreateSession(ctx, &provider.SessionRequest{
		OrderID:   orderID,
		AmountIDR: p.PriceIDR,
		Items: []provider.Item{{
			ID:       p.ID,
			Name:     "Kenang " + p.NameID,
			Price:    p.PriceIDR,
			Quantity: 1,
			Category: itemCategory,
		}},
		Customer: provider.Customer{
			FirstName: user.DisplayName(),
			Email:     user.Email,
			Phone:     user.PhoneNumber,
		},
		Callbacks: provider.Callbacks{
			Finish:  u.appURL + "/payment/success",
			Error:   u.appURL + "/payment/error",
			Pending: u.appURL + "/payment/pending",
		},
		EnabledPayments: EnabledPayments(req.PaymentMethod),
	})
	if err != nil {
		u.logger.Error("Failed to create checkout session",
			zap.String("user_id", req.UserID.String()),
			zap.String("plan_id", p.ID),
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrPaymentAPI, err)
	}

	userID := req.UserID
	payment := &entity.Payment{
		UserID:    &userID,
		AmountIDR: p.PriceIDR,
		Currency:  entity.CurrencyIDR,
		Method:    req.PaymentMethod,
		Provider:  u.gateway.GetProviderName(),
		OrderID:   orderID,
		Status:    entity.PaymentStatusPending,
	}
	payment.SetMetadata(entity.MetadataPlanID, p.ID)
	payment.SetMetadata(entity.MetadataSnapToken, session.Token)

	if err := u.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	u.logger.Info("Checkout session created",
		zap.String("order_id", orderID),
		zap.String("user_id", req.UserID.String()),
		zap.String("plan_id", p.ID),
		zap.Int64("amount_idr", p.PriceIDR))

	return &entity.CheckoutResult{
		PaymentID:   payment.ID,
		OrderID:     orderID,
		Token:       session.Token,
		RedirectURL: session.RedirectURL,
		AmountIDR:   p.PriceIDR,
		PlanID:      p.ID,
	}, nil
}

// NewOrderID returns SUB-{first 8 chars of user id}-{UTC yyyymmddHHMMSS}-{8 hex}
func NewOrderID(userID uuid.UUID, now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(orderIDAlphabet, orderIDRandLen)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s-%s",
		orderIDPrefix,
		userID.String()[:8],
		now.UTC().Format("20060102150405"),
		suffix,
	), nil
}

// EnabledPayments returns the payment method list with preferred moved to
// the front
func EnabledPayments(preferred string) []string {
	methods := make([]string, 0, len(DefaultEnabledPayments)+1)
	if preferred != "" {
		methods = append(methods, preferred)
	}
	for _, m := range DefaultEnabledPayments {
		if m != preferred {
			methods = append(methods, m)
		}
	}
	return methods
}
