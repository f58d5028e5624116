package midtrans

import (
	"bytes"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kenang-app/kenang-billing/internal/domain/entity"
)

const defaultFraudStatus = "accept"

// Codec parses and verifies Midtrans HTTP notifications
type Codec struct {
	serverKey string
}

// NewCodec creates a codec that verifies signatures with serverKey. An empty
// key rejects every notification.
func NewCodec(serverKey string) *Codec {
	return &Codec{serverKey: serverKey}
}

// Parse decodes a notification body. Numbers keep their textual form because
// the signature covers gross_amount exactly as sent.
func (c *Codec) Parse(body []byte) (*entity.Notification, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}

	n := &entity.Notification{
		OrderID:           stringField(raw, "order_id"),
		TransactionStatus: stringField(raw, "transaction_status"),
		FraudStatus:       stringField(raw, "fraud_status"),
		StatusCode:        stringField(raw, "status_code"),
		GrossAmount:       stringField(raw, "gross_amount"),
		SignatureKey:      stringField(raw, "signature_key"),
		PaymentType:       stringField(raw, "payment_type"),
		TransactionID:     stringField(raw, "transaction_id"),
		TransactionTime:   stringField(raw, "transaction_time"),
		Raw:               raw,
	}
	if n.FraudStatus == "" {
		n.FraudStatus = defaultFraudStatus
	}

	required := []struct{ field, value string }{
		{"order_id", n.OrderID},
		{"transaction_status", n.TransactionStatus},
		{"status_code", n.StatusCode},
		{"gross_amount", n.GrossAmount},
		{"signature_key", n.SignatureKey},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return n, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	return n, nil
}

// Signature computes hex(SHA-512(order_id + status_code + gross_amount + server_key))
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// Verify checks the notification signature in constant time
func (c *Codec) Verify(n *entity.Notification) bool {
	if c.serverKey == "" || n == nil {
		return false
	}

	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, c.serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(n.SignatureKey))) == 1
}

// MapStatus maps transaction_status and fraud_status to a payment status
func (c *Codec) MapStatus(n *entity.Notification) entity.PaymentStatus {
	switch n.TransactionStatus {
	case "capture":
		fraud := n.FraudStatus
		if fraud == "" {
			fraud = defaultFraudStatus
		}
		if fraud == "accept" {
			return entity.PaymentStatusSuccess
		}
		return entity.PaymentStatusPending
	case "settlement":
		return entity.PaymentStatusSuccess
	case "pending":
		return entity.PaymentStatusPending
	case "deny", "cancel":
		return entity.PaymentStatusFailed
	case "expire":
		return entity.PaymentStatusExpired
	case "refund", "partial_refund":
		return entity.PaymentStatusRefunded
	default:
		return entity.PaymentStatusPending
	}
}

var paymentMethods = map[string]string{
	"gopay":         "gopay",
	"shopeepay":     "shopeepay",
	"qris":          "dana",
	"bank_transfer": "bank_transfer_bca",
	"bca_va":        "bank_transfer_bca",
	"bni_va":        "bank_transfer_bni",
	"bri_va":        "bank_transfer_bri",
	"permata_va":    "bank_transfer_mandiri",
	"echannel":      "bank_transfer_mandiri",
	"credit_card":   "credit_card",
}

// MapPaymentMethod maps a payment_type to the stored payment method. Unknown
// types pass through.
func (c *Codec) MapPaymentMethod(paymentType string) string {
	if method, ok := paymentMethods[paymentType]; ok {
		return method
	}
	return paymentType
}

func stringField(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
