// Package webhook delivers anamnesis form links to the automation endpoint
// that forwards them to the patient over WhatsApp. Each delivery attempt is
// recorded so operators can audit what was sent and when.
package webhook

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
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AnamnesisLinkRequest is the payload POSTed to the automation endpoint.
type AnamnesisLinkRequest struct {
	PatientID     string `json:"patientId"`
	PatientName   string `json:"patientName"`
	ProcedureID   string `json:"procedureId"`
	ProcedureName string `json:"procedureName"`
	WhatsApp      string `json:"whatsapp"`
}

// DeliveryAttempt records a single POST to the endpoint.
type DeliveryAttempt struct {
	ID           string        `json:"id"`
	AnamnesisID  string        `json:"anamnesis_id"`
	Payload      []byte        `json:"payload"`
	StatusCode   int           `json:"status_code"`
	ResponseBody string        `json:"response_body"`
	Duration     time.Duration `json:"duration_ns"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// AttemptStore persists delivery attempts.
type AttemptStore interface {
	Record(ctx context.Context, attempt *DeliveryAttempt) error
	ListByAnamnesis(ctx context.Context, anamnesisID string) ([]*DeliveryAttempt, error)
}

// InMemoryAttemptStore is a thread-safe AttemptStore.
type InMemoryAttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*DeliveryAttempt
	order    []string
}

func NewInMemoryAttemptStore() *InMemoryAttemptStore {
	return &InMemoryAttemptStore{attempts: make(map[string]*DeliveryAttempt)}
}

func (s *InMemoryAttemptStore) Record(_ context.Context, attempt *DeliveryAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = attempt
	s.order = append(s.order, attempt.ID)
	return nil
}

func (s *InMemoryAttemptStore) ListByAnamnesis(_ context.Context, anamnesisID string) ([]*DeliveryAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*DeliveryAttempt
	for _, id := range s.order {
		a := s.attempts[id]
		if a != nil && a.AnamnesisID == anamnesisID {
			out = append(out, a)
		}
	}
	return out, nil
}

// SignPayload computes the hex-encoded HMAC-SHA256 of the payload.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) SenderOption {
	return func(s *Sender) { s.httpClient = c }
}

// WithSecret enables HMAC signing of outgoing payloads.
func WithSecret(secret string) SenderOption {
	return func(s *Sender) { s.secret = secret }
}

// Sender POSTs anamnesis link requests to a single configured endpoint.
type Sender struct {
	endpointURL string
	secret      string
	httpClient  *http.Client
	store       AttemptStore
}

// NewSender validates the endpoint URL and builds a Sender.
func NewSender(endpointURL string, store AttemptStore, opts ...SenderOption) (*Sender, error) {
	if err := validateEndpointURL(endpointURL); err != nil {
		return nil, err
	}
	s := &Sender{
		endpointURL: endpointURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		store:       store,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func validateEndpointURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("webhook url is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("webhook url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

// SendAnamnesisLink delivers the request and records the attempt. It returns
// an error unless the endpoint answered with a 2xx status.
func (s *Sender) SendAnamnesisLink(ctx context.Context, anamnesisID string, req AnamnesisLinkRequest) (*DeliveryAttempt, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	attempt := &DeliveryAttempt{
		ID:          uuid.New().String(),
		AnamnesisID: anamnesisID,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpointURL, bytes.NewReader(payload))
	if err != nil {
		attempt.Error = err.Error()
		s.store.Record(ctx, attempt)
		return attempt, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.secret != "" {
		httpReq.Header.Set("X-Webhook-Signature", "sha256="+SignPayload(payload, s.secret))
	}

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	attempt.Duration = time.Since(start)
	if err != nil {
		attempt.Error = err.Error()
		s.store.Record(ctx, attempt)
		return attempt, fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	attempt.StatusCode = resp.StatusCode
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	attempt.ResponseBody = string(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		attempt.Error = fmt.Sprintf("non-2xx response: %d", resp.StatusCode)
		s.store.Record(ctx, attempt)
		return attempt, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	attempt.Success = true
	s.store.Record(ctx, attempt)
	return attempt, nil
}

// Attempts returns the recorded delivery attempts for an anamnesis.
func (s *Sender) Attempts(ctx context.Context, anamnesisID string) ([]*DeliveryAttempt, error) {
	return s.store.ListByAnamnesis(ctx, anamnesisID)
}
