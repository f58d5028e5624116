package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the internal payment state. Gateway vocabularies are
// mapped onto it before anything is persisted.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusExpired  PaymentStatus = "expired"
)

const (
	ProviderMidtrans = "midtrans"
	CurrencyIDR      = "IDR"
)

// Metadata keys stored on a payment.
const (
	MetadataPlanID           = "plan_id"
	MetadataSnapToken        = "snap_token"
	MetadataLastNotification = "last_notification"
)

// Payment is one checkout attempt and its settlement outcome.
type Payment struct {
	ID             uuid.UUID
	UserID         *uuid.UUID
	SubscriptionID *uuid.UUID
	AmountIDR      int64
	Currency       string
	Method         string
	Provider       string
	// OrderID is the gateway order identifier (payment_provider_transaction_id).
	OrderID              string
	GatewayTransactionID string
	Status               PaymentStatus
	CompletedAt          *time.Time
	Metadata             map[string]interface{}
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsSuccessful reports whether the payment has settled.
func (p *Payment) IsSuccessful() bool {
	return p.Status == PaymentStatusSuccess
}

// PlanID returns the plan id recorded at checkout, if any.
func (p *Payment) PlanID() string {
	if p.Metadata == nil {
		return ""
	}
	id, _ := p.Metadata[MetadataPlanID].(string)
	return id
}

// SetMetadata sets key, allocating the map when needed.
func (p *Payment) SetMetadata(key string, value interface{}) {
	if p.Metadata == nil {
		p.Metadata = make(map[string]interface{})
	}
	p.Metadata[key] = value
}
