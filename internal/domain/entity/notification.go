package entity

// Notification is a parsed gateway payment notification. String fields keep
// the exact textual form received, since the signature covers that form.
type Notification struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	PaymentType       string
	TransactionID     string
	TransactionTime   string
	Raw               map[string]interface{}
}

// WebhookOutcome describes what processing a notification did.
type WebhookOutcome string

const (
	WebhookOutcomeApplied   WebhookOutcome = "applied"
	WebhookOutcomeActivated WebhookOutcome = "activated"
	WebhookOutcomeDuplicate WebhookOutcome = "duplicate"
)

// WebhookResult is returned for a successfully processed notification.
type WebhookResult struct {
	OrderID        string
	PaymentStatus  PaymentStatus
	Outcome        WebhookOutcome
	SubscriptionID string
}
