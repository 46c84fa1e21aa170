package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mentorconnect/mentorconnect-api/pkg/httpclient"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

// Client sends SMS messages through the Twilio REST API
type Client struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient httpclient.Client
}

// messageResponse is the subset of the Twilio message resource we care about
type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// NewClient creates a new Twilio SMS client
func NewClient(accountSID, authToken, fromNumber string, httpClient httpclient.Client) (*Client, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("twilio credentials are required")
	}
	if fromNumber == "" {
		return nil, fmt.Errorf("twilio sender number is required")
	}

	logger.Info("Twilio client initialized",
		zap.String("account_sid", accountSID),
		zap.String("from", fromNumber))

	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}, nil
}

// SetBaseURL overrides the API base URL. Used by tests against a stub server.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SendSMS sends a single SMS and returns the provider message SID
func (c *Client) SendSMS(ctx context.Context, to, body string) (string, error) {
	start := time.Now()
	operation := "sendSMS"

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		logger.LogAPICall("twilio", operation, "error", duration, zap.Error(err))
		return "", fmt.Errorf("twilio call failed: %w", err)
	}
	defer resp.Body.Close()

	var msg messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		logger.LogAPICall("twilio", operation, "error", duration, zap.Error(err))
		return "", fmt.Errorf("failed to decode twilio response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.LogAPICall("twilio", operation, "error", duration,
			zap.Int("status_code", resp.StatusCode),
			zap.String("error_message", msg.ErrorMessage))
		return "", fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, msg.ErrorMessage)
	}

	logger.LogAPICall("twilio", operation, "success", duration,
		zap.String("message_sid", msg.SID))

	return msg.SID, nil
}
