package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	domainErrors "github.com/kenang-app/kenang-billing/internal/domain/errors"
	"github.com/kenang-app/kenang-billing/internal/domain/event"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
	"github.com/kenang-app/kenang-billing/internal/domain/provider"
	"github.com/kenang-app/kenang-billing/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WebhookUsecase applies gateway payment notifications exactly once
type WebhookUsecase struct {
	codec         provider.NotificationCodec
	catalog       *plan.Catalog
	paymentRepo   repository.PaymentRepository
	subscriptions *SubscriptionUsecase
	tx            repository.Transactor
	publisher     event.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewWebhookUsecase(
	codec provider.NotificationCodec,
	catalog *plan.Catalog,
	paymentRepo repository.PaymentRepository,
	subscriptions *SubscriptionUsecase,
	tx repository.Transactor,
	publisher event.Publisher,
	logger *zap.Logger,
	opts ...Option,
) *WebhookUsecase {
	o := buildOptions(opts)
	return &WebhookUsecase{
		codec:         codec,
		catalog:       catalog,
		paymentRepo:   paymentRepo,
		subscriptions: subscriptions,
		tx:            tx,
		publisher:     publisher,
		logger:        logger,
		now:           o.now,
	}
}

// HandleNotification parses, verifies and applies one notification body.
// Redeliveries of an applied success are reported as duplicates without any
// write. Any error leaves the database untouched.
func (u *WebhookUsecase) HandleNotification(ctx context.Context, body []byte) (*entity.WebhookResult, error) {
	n, err := u.codec.Parse(body)
	if err != nil {
		orderID := ""
		if n != nil {
			orderID = n.OrderID
		}
		u.logger.Warn("Invalid payment notification",
			zap.String("order_id", orderID),
			zap.Error(err))
		return &entity.WebhookResult{OrderID: orderID}, fmt.Errorf("%w: %v", domainErrors.ErrInvalidNotification, err)
	}

	result := &entity.WebhookResult{OrderID: n.OrderID}

	if !u.codec.Verify(n) {
		u.logger.Warn("Invalid webhook signature",
			zap.String("order_id", n.OrderID),
			zap.String("status_code", n.StatusCode),
			zap.String("gross_amount", n.GrossAmount),
			zap.Bool("security_event", true))
		return result, domainErrors.ErrInvalidSignature
	}

	status := u.codec.MapStatus(n)
	result.PaymentStatus = status

	var events []event.SubscriptionEvent
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := u.paymentRepo.GetByOrderIDForUpdate(ctx, n.OrderID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domainErrors.ErrPaymentNotFound
		}

		// A payment is settled once. Redelivered success notifications and
		// stale pending ones arriving after settlement change nothing.
		settled := payment.CompletedAt != nil || payment.SubscriptionID != nil
		stale := status == entity.PaymentStatusPending && payment.Status == entity.PaymentStatusSuccess
		if (settled && status == entity.PaymentStatusSuccess) || stale {
			result.Outcome = entity.WebhookOutcomeDuplicate
			if payment.SubscriptionID != nil {
				result.SubscriptionID = payment.SubscriptionID.String()
			}
			return nil
		}

		u.checkGrossAmount(n, payment)

		now := u.now()
		payment.Status = status
		if n.TransactionID != "" {
			payment.GatewayTransactionID = n.TransactionID
		}
		payment.SetMetadata(entity.MetadataLastNotification, n.Raw)
		if status == entity.PaymentStatusSuccess {
			if payment.CompletedAt == nil {
				payment.CompletedAt = &now
			}
			payment.Method = u.codec.MapPaymentMethod(n.PaymentType)
		}
		if err := u.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}
		result.Outcome = entity.WebhookOutcomeApplied

		if status != entity.PaymentStatusSuccess {
			return nil
		}

		p, err := u.reconcilePlan(payment)
		if err != nil {
			return err
		}
		if payment.UserID == nil {
			return domainErrors.ErrUserNotFound
		}

		sub, subEvents, err := u.subscriptions.activate(ctx, *payment.UserID, p.ID, payment.ID)
		if err != nil {
			return err
		}

		payment.SubscriptionID = &sub.ID
		if err := u.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}

		events = subEvents
		result.Outcome = entity.WebhookOutcomeActivated
		result.SubscriptionID = sub.ID.String()
		return nil
	})
	if err != nil {
		return result, err
	}

	u.logger.Info("Payment notification processed",
		zap.String("order_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("payment_status", string(status)),
		zap.String("outcome", string(result.Outcome)))

	publishAll(ctx, u.publisher, u.logger, events)
	return result, nil
}

// reconcilePlan recovers the purchased plan from the settled amount. The
// plan id stored at checkout is only cross-checked.
func (u *WebhookUsecase) reconcilePlan(payment *entity.Payment) (plan.Plan, error) {
	p, ok := u.catalog.ByPrice(payment.AmountIDR)
	if !ok || p.IsFree() {
		u.logger.Error("No plan matches payment amount",
			zap.String("order_id", payment.OrderID),
			zap.Int64("amount_idr", payment.AmountIDR))
		return plan.Plan{}, domainErrors.ErrPlanNotFound
	}

	if stored := payment.PlanID(); stored != "" && stored != p.ID {
		u.logger.Warn("Plan recorded at checkout differs from amount match",
			zap.String("order_id", payment.OrderID),
			zap.String("metadata_plan_id", stored),
			zap.String("plan_id", p.ID),
			zap.Int64("amount_idr", payment.AmountIDR))
	}

	return p, nil
}

// checkGrossAmount logs notifications whose amount disagrees with the
// stored one. The stored amount stays authoritative.
func (u *WebhookUsecase) checkGrossAmount(n *entity.Notification, payment *entity.Payment) {
	gross, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		u.logger.Warn("Unparseable gross amount",
			zap.String("order_id", n.OrderID),
			zap.String("gross_amount", n.GrossAmount))
		return
	}

	if !gross.Equal(decimal.NewFromInt(payment.AmountIDR)) {
		u.logger.Warn("Gross amount differs from stored amount",
			zap.String("order_id", n.OrderID),
			zap.String("gross_amount", n.GrossAmount),
			zap.Int64("amount_idr", payment.AmountIDR))
	}
}
