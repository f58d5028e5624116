package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment represents a payment record
type Payment struct {
	ID                           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                       *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SubscriptionID               *uuid.UUID        `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	AmountIDR                    int64             `gorm:"column:amount_idr;not null" json:"amount_idr"`
	Currency                     string            `gorm:"size:3;not null;default:'IDR'" json:"currency"`
	PaymentMethod                string            `gorm:"size:50" json:"payment_method"`
	PaymentProvider              string            `gorm:"size:50;not null" json:"payment_provider"`
	PaymentProviderTransactionID string            `gorm:"size:100;not null;uniqueIndex" json:"payment_provider_transaction_id"`
	GatewayTransactionID         string            `gorm:"size:100" json:"gateway_transaction_id"`
	Status                       string            `gorm:"size:20;not null;index" json:"status"`
	CompletedAt                  *time.Time        `json:"completed_at,omitempty"`
	Metadata                     datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt                    time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt                    time.Time         `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
