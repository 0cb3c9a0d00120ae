package services

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

	"cvforge/internal/models"
)

// YocoService is the thin client for the Yoco payments API. Every call is
// made with the credentials the selector resolved for the tenant, so funds
// land in the reseller's account when it brought its own gateway.
type YocoService interface {
	CreateCheckout(ctx context.Context, credentials models.ResolvedCredentials, req *CreateCheckoutRequest) (*CreateCheckoutResponse, error)
	VerifyWebhookSignature(secret string, body []byte, signature string) bool
	ParseWebhookEvent(body []byte) (*WebhookEvent, error)
}

type yocoService struct {
	baseURL string
	http    *http.Client
}

type CreateCheckoutRequest struct {
	AmountInCents int64             `json:"amount"`
	Currency      string            `json:"currency"`
	SuccessURL    string            `json:"successUrl,omitempty"`
	CancelURL     string            `json:"cancelUrl,omitempty"`
	FailureURL    string            `json:"failureUrl,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type CreateCheckoutResponse struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirectUrl"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

type WebhookEvent struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// NewYocoService creates a new Yoco client. baseURL is overridable for
// tests; empty selects the live API.
func NewYocoService(baseURL string) YocoService {
	if baseURL == "" {
		baseURL = "https://payments.yoco.com/api"
	}
	return &yocoService{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *yocoService) CreateCheckout(ctx context.Context, credentials models.ResolvedCredentials, req *CreateCheckoutRequest) (*CreateCheckoutResponse, error) {
	if req.Currency == "" {
		req.Currency = "ZAR"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/checkouts", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The secret key is used server-side only, never returned to a
	// client-facing caller.
	httpReq.Header.Set("Authorization", "Bearer "+credentials.SecretKey)

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout request returned status %d: %s", resp.StatusCode, string(body))
	}

	var checkout CreateCheckoutResponse
	if err := json.Unmarshal(body, &checkout); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}
	return &checkout, nil
}

// VerifyWebhookSignature verifies an HMAC-SHA256 webhook signature using
// constant time comparison.
func (s *yocoService) VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	hash := hmac.New(sha256.New, []byte(secret))
	hash.Write(body)
	expectedSignature := hex.EncodeToString(hash.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

func (s *yocoService) ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &event, nil
}
