package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kenang-app/kenang-billing/internal/domain/entity"
	"github.com/kenang-app/kenang-billing/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	SandboxBaseURL    = "https://app.sandbox.midtrans.com"
	ProductionBaseURL = "https://app.midtrans.com"

	snapTransactionsPath = "/snap/v1/transactions"
	defaultTimeout       = 30 * time.Second
)

// Config holds the Midtrans credentials and endpoint selection
type Config struct {
	ServerKey    string
	IsProduction bool
	// BaseURL overrides the sandbox/production host, mainly for tests.
	BaseURL string
	Timeout time.Duration
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.IsProduction {
		return ProductionBaseURL
	}
	return SandboxBaseURL
}

// SnapClient opens Snap checkout sessions
type SnapClient struct {
	serverKey string
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
}

// NewSnapClient creates a new Snap client
func NewSnapClient(cfg Config, logger *zap.Logger) *SnapClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &SnapClient{
		serverKey: cfg.ServerKey,
		baseURL:   cfg.baseURL(),
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// GetProviderName returns the provider name
func (s *SnapClient) GetProviderName() string {
	return entity.ProviderMidtrans
}

type snapTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapRequest struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	ItemDetails        []provider.Item        `json:"item_details"`
	CustomerDetails    provider.Customer      `json:"customer_details"`
	EnabledPayments    []string               `json:"enabled_payments,omitempty"`
	Callbacks          provider.Callbacks     `json:"callbacks"`
}

type snapErrorResponse struct {
	ErrorMessages []string `json:"error_messages"`
}

// CreateSession opens a Snap transaction
// POST /snap/v1/transactions
func (s *SnapClient) CreateSession(ctx context.Context, req *provider.SessionRequest) (*provider.Session, error) {
	s.logger.Info("Creating Snap transaction",
		zap.String("order_id", req.OrderID),
		zap.Int64("amount_idr", req.AmountIDR))

	body := snapRequest{
		TransactionDetails: snapTransactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: req.AmountIDR,
		},
		ItemDetails:     req.Items,
		CustomerDetails: req.Customer,
		EnabledPayments: req.EnabledPayments,
		Callbacks:       req.Callbacks,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	url := s.baseURL + snapTransactionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}

	auth := base64.StdEncoding.EncodeToString([]byte(s.serverKey + ":"))
	httpReq.Header.Set("Authorization", "Basic "+auth)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Error("Snap transaction request failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Midtrans API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:       "RESPONSE_ERROR",
			Message:    "Failed to read response",
			StatusCode: resp.StatusCode,
			Details:    err.Error(),
		}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errResp snapErrorResponse
		_ = json.Unmarshal(respBody, &errResp)

		s.logger.Error("Snap transaction rejected",
			zap.String("order_id", req.OrderID),
			zap.Int("status_code", resp.StatusCode),
			zap.Strings("error_messages", errResp.ErrorMessages))

		message := strings.Join(errResp.ErrorMessages, "; ")
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}

		return nil, &provider.ProviderError{
			Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:    message,
			StatusCode: resp.StatusCode,
			Details:    string(respBody),
		}
	}

	var session provider.Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}
	if session.Token == "" {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Response carries no token",
			Details: string(respBody),
		}
	}

	s.logger.Info("Snap transaction created",
		zap.String("order_id", req.OrderID))

	return &session, nil
}
