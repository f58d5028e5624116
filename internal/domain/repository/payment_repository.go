package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
)

// PaymentRepository persists payments. Getters return (nil, nil) when the
// row does not exist.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// GetByOrderIDForUpdate loads the payment and holds a row lock until the
	// surrounding transaction ends.
	GetByOrderIDForUpdate(ctx context.Context, orderID string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	ListByUser(ctx context.Context, userID uuid.UUID, params entity.PageParams) ([]*entity.Payment, int64, error)
}
