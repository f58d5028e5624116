package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/plan"
)

// PlanListResponse is the public plan catalog
type PlanListResponse struct {
	Plans []plan.Plan `json:"plans"`
}

// CheckoutRequest is the body of POST /subscriptions/checkout
type CheckoutRequest struct {
	PlanID        string `json:"plan_id" validate:"required"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,max=32"`
}

// CheckoutResponse hands the Snap token back to the web app
type CheckoutResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"redirect_url"`
	AmountIDR   int64     `json:"amount_idr"`
	PlanID      string    `json:"plan_id"`
}

func NewCheckoutResponse(r *entity.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		PaymentID:   r.PaymentID,
		OrderID:     r.OrderID,
		SnapToken:   r.Token,
		RedirectURL: r.RedirectURL,
		AmountIDR:   r.AmountIDR,
		PlanID:      r.PlanID,
	}
}

// CancelRequest is the body of POST /subscriptions/cancel. Without a
// subscription id the caller's active subscription is cancelled.
type CancelRequest struct {
	SubscriptionID *uuid.UUID `json:"subscription_id,omitempty"`
	Immediate      bool       `json:"immediate"`
}

// SubscriptionDTO represents a subscription for API responses
type SubscriptionDTO struct {
	ID                 uuid.UUID  `json:"id"`
	PlanID             string     `json:"plan_id"`
	Status             string     `json:"status"`
	Provider           string     `json:"provider"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
}

func NewSubscriptionDTO(s *entity.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:                 s.ID,
		PlanID:             s.PlanID,
		Status:             string(s.Status),
		Provider:           s.Provider,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CancelledAt:        s.CancelledAt,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd(),
	}
}

// CurrentSubscriptionResponse is the active subscription with its plan
type CurrentSubscriptionResponse struct {
	Subscription SubscriptionDTO `json:"subscription"`
	Plan         plan.Plan       `json:"plan"`
}

// PaymentDTO represents a simplified payment for API responses
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       string     `json:"order_id"`
	PlanID        string     `json:"plan_id,omitempty"`
	AmountIDR     int64      `json:"amount_idr"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewPaymentDTO(p *entity.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		OrderID:       p.OrderID,
		PlanID:        p.PlanID(),
		AmountIDR:     p.AmountIDR,
		Currency:      p.Currency,
		Status:        string(p.Status),
		PaymentMethod: p.Method,
		CompletedAt:   p.CompletedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentHistoryResponse represents the paginated payment list response
type PaymentHistoryResponse struct {
	Payments   []PaymentDTO   `json:"payments"`
	Pagination PaginationInfo `json:"pagination"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func NewPaymentHistoryResponse(h *entity.PaymentHistory) PaymentHistoryResponse {
	payments := make([]PaymentDTO, 0, len(h.Payments))
	for _, p := range h.Payments {
		payments = append(payments, NewPaymentDTO(p))
	}
	return PaymentHistoryResponse{
		Payments: payments,
		Pagination: PaginationInfo{
			Total:   h.Total,
			Limit:   h.Limit,
			Offset:  h.Offset,
			HasMore: h.HasMore(),
		},
	}
}

// FeatureAccessResponse is the answer of the feature gate
type FeatureAccessResponse struct {
	Feature string `json:"feature"`
	Tier    string `json:"tier"`
	Allowed bool   `json:"allowed"`
}

// WebhookResponse is always sent with HTTP 200 so the gateway stops retrying
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

const (
	WebhookStatusOK    = "ok"
	WebhookStatusError = "error"
)
