package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/model"
	"github.com/kenang-app/kenang-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) repository.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	m := paymentToModel(payment)

	if err := conn(ctx, r.db).Create(m).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("order_id", payment.OrderID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}

	payment.ID = m.ID
	payment.CreatedAt = m.CreatedAt
	payment.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var m model.Payment

	err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment by ID",
			zap.String("payment_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return paymentToEntity(&m), nil
}

// GetByOrderIDForUpdate retrieves a payment by gateway order id and locks it
func (r *paymentRepository) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*entity.Payment, error) {
	var m model.Payment

	err := forUpdate(conn(ctx, r.db)).
		Where("payment_provider_transaction_id = ?", orderID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment by order ID",
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return paymentToEntity(&m), nil
}

// Update writes the mutable payment fields
func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	updates := map[string]interface{}{
		"status":                 string(payment.Status),
		"payment_method":         payment.Method,
		"gateway_transaction_id": payment.GatewayTransactionID,
		"subscription_id":        payment.SubscriptionID,
		"completed_at":           payment.CompletedAt,
		"metadata":               datatypes.JSONMap(payment.Metadata),
	}

	result := conn(ctx, r.db).
		Model(&model.Payment{}).
		Where("id = ?", payment.ID).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update payment",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment not found: %s", payment.ID)
	}

	return nil
}

// ListByUser returns one page of the user's payments, newest first, and the
// total count
func (r *paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, params entity.PageParams) ([]*entity.Payment, int64, error) {
	params.Normalize()

	var total int64
	if err := conn(ctx, r.db).
		Model(&model.Payment{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var rows []model.Payment
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		r.logger.Error("Failed to list payments",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]*entity.Payment, 0, len(rows))
	for i := range rows {
		payments = append(payments, paymentToEntity(&rows[i]))
	}

	return payments, total, nil
}

func paymentToModel(p *entity.Payment) *model.Payment {
	return &model.Payment{
		ID:                           p.ID,
		UserID:                       p.UserID,
		SubscriptionID:               p.SubscriptionID,
		AmountIDR:                    p.AmountIDR,
		Currency:                     p.Currency,
		PaymentMethod:                p.Method,
		PaymentProvider:              p.Provider,
		PaymentProviderTransactionID: p.OrderID,
		GatewayTransactionID:         p.GatewayTransactionID,
		Status:                       string(p.Status),
		CompletedAt:                  p.CompletedAt,
		Metadata:                     datatypes.JSONMap(p.Metadata),
		CreatedAt:                    p.CreatedAt,
		UpdatedAt:                    p.UpdatedAt,
	}
}

func paymentToEntity(m *model.Payment) *entity.Payment {
	return &entity.Payment{
		ID:                   m.ID,
		UserID:               m.UserID,
		SubscriptionID:       m.SubscriptionID,
		AmountIDR:            m.AmountIDR,
		Currency:             m.Currency,
		Method:               m.PaymentMethod,
		Provider:             m.PaymentProvider,
		OrderID:              m.PaymentProviderTransactionID,
		GatewayTransactionID: m.GatewayTransactionID,
		Status:               entity.PaymentStatus(m.Status),
		CompletedAt:          m.CompletedAt,
		Metadata:             map[string]interface{}(m.Metadata),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
