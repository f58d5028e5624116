package provider

import (
	"context"
	"fmt"

	"github.com/kenang-app/kenang-billing/internal/domain/entity"
)

// PaymentGateway opens hosted checkout sessions.
type PaymentGateway interface {
	// CreateSession opens a checkout session. Implementations must honour
	// ctx and their own bounded timeout.
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)

	// GetProviderName returns the provider name stored on payments
	GetProviderName() string
}

// NotificationCodec understands a gateway's asynchronous notifications.
type NotificationCodec interface {
	// Parse decodes a raw notification body. Missing required fields are an
	// error.
	Parse(body []byte) (*entity.Notification, error)

	// Verify checks the notification signature. It has no side effects.
	Verify(n *entity.Notification) bool

	// MapStatus maps the gateway status vocabulary to a PaymentStatus.
	// Unrecognized statuses map to pending.
	MapStatus(n *entity.Notification) entity.PaymentStatus

	// MapPaymentMethod maps the gateway payment type to an internal label.
	MapPaymentMethod(paymentType string) string
}

// SessionRequest is a provider-agnostic checkout session request
type SessionRequest struct {
	OrderID         string    `json:"order_id"`
	AmountIDR       int64     `json:"amount_idr"`
	Items           []Item    `json:"items"`
	Customer        Customer  `json:"customer"`
	Callbacks       Callbacks `json:"callbacks"`
	EnabledPayments []string  `json:"enabled_payments,omitempty"`
}

// Item is a line item shown on the checkout page
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
}

// Customer details prefilled on the checkout page
type Customer struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Callbacks are where the gateway sends the browser afterwards
type Callbacks struct {
	Finish  string `json:"finish"`
	Error   string `json:"error"`
	Pending string `json:"pending"`
}

// Session is an opened checkout session. Token and RedirectURL are opaque.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Details    string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error [%s]: %s", e.Code, e.Message)
}
