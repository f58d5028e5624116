package entity

import "github.com/google/uuid"

// CheckoutRequest starts a purchase of PlanID for UserID.
type CheckoutRequest struct {
	UserID        uuid.UUID
	PlanID        string
	PaymentMethod string
}

// CheckoutResult is handed back to the client so it can open the gateway page.
type CheckoutResult struct {
	PaymentID   uuid.UUID
	OrderID     string
	Token       string
	RedirectURL string
	AmountIDR   int64
	PlanID      string
}

// FeatureAccess is the outcome of a feature gate check for a user.
type FeatureAccess struct {
	Feature string
	Tier    string
	Allowed bool
}
