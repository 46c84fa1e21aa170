package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mentorconnect/mentorconnect-api/pkg/circuitbreaker"
	"github.com/mentorconnect/mentorconnect-api/pkg/httpclient"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Order represents a gateway-side order to be collected
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Refund represents a gateway-side refund record
type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// Client talks to the Razorpay REST API with circuit breaker protection.
// Constructed from explicit credentials, never from process globals.
type Client struct {
	keyID          string
	keySecret      string
	baseURL        string
	httpClient     httpclient.Client
	circuitBreaker *gobreaker.CircuitBreaker
}

// NewClient creates a new Razorpay client
func NewClient(keyID, keySecret string, httpClient httpclient.Client) (*Client, error) {
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay credentials are required")
	}

	cb := circuitbreaker.New(circuitbreaker.GatewayConfig())

	logger.Info("Razorpay client initialized", zap.String("key_id", keyID))

	return &Client{
		keyID:          keyID,
		keySecret:      keySecret,
		baseURL:        defaultBaseURL,
		httpClient:     httpClient,
		circuitBreaker: cb,
	}, nil
}

// SetBaseURL overrides the API base URL. Used by tests against a stub server.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// CreateOrder creates a gateway order for the given amount in minor units.
// notes travel to the gateway dashboard for reconciliation.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	return circuitbreaker.Execute(c.circuitBreaker, func() (*Order, error) {
		var order Order
		if err := c.post(ctx, "createOrder", "/orders", payload, &order); err != nil {
			return nil, err
		}
		return &order, nil
	})
}

// CreateRefund refunds a captured payment. amountMinor == 0 means full refund.
func (c *Client) CreateRefund(ctx context.Context, gatewayPaymentID string, amountMinor int64) (*Refund, error) {
	payload := map[string]interface{}{}
	if amountMinor > 0 {
		payload["amount"] = amountMinor
	}

	path := fmt.Sprintf("/payments/%s/refund", gatewayPaymentID)

	return circuitbreaker.Execute(c.circuitBreaker, func() (*Refund, error) {
		var refund Refund
		if err := c.post(ctx, "createRefund", path, payload, &refund); err != nil {
			return nil, err
		}
		return &refund, nil
	})
}

// VerifySignature checks a checkout callback signature. The signature is
// HMAC-SHA256 over "orderID|paymentID" keyed with the API secret; comparison
// is constant-time. This is the trust boundary for payment completion: it
// must pass before any payment state is mutated.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) post(ctx context.Context, operation, path string, payload interface{}, out interface{}) error {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.GatewayRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.GatewayRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("razorpay", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("razorpay %s call failed: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.GatewayRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.GatewayRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("razorpay", operation, "error", duration,
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response", respBody))
		return fmt.Errorf("razorpay %s returned status %d", operation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.GatewayRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.GatewayRequestTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("failed to decode razorpay %s response: %w", operation, err)
	}

	metrics.GatewayRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.GatewayRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("razorpay", operation, "success", duration)

	return nil
}
