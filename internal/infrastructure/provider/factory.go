package provider

import (
	"errors"

	"github.com/kenang-app/kenang-billing/internal/config"
	"github.com/kenang-app/kenang-billing/internal/domain/provider"
	"github.com/kenang-app/kenang-billing/internal/infrastructure/provider/midtrans"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when the gateway credentials are missing
var ErrNotConfigured = errors.New("midtrans keys not configured")

// Factory creates the payment gateway collaborators from config
type Factory struct {
	config *config.MidtransConfig
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.MidtransConfig, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// Gateway returns the Snap client, or ErrNotConfigured when the server or
// client key is missing
func (f *Factory) Gateway() (provider.PaymentGateway, error) {
	if !f.config.Configured() {
		return nil, ErrNotConfigured
	}

	return midtrans.NewSnapClient(midtrans.Config{
		ServerKey:    f.config.ServerKey,
		IsProduction: f.config.IsProduction,
		BaseURL:      f.config.BaseURL,
		Timeout:      f.config.Timeout,
	}, f.logger), nil
}

// Codec returns the notification codec. It is usable without a client key so
// that notifications for in-flight payments still verify.
func (f *Factory) Codec() provider.NotificationCodec {
	return midtrans.NewCodec(f.config.ServerKey)
}
