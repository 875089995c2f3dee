package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func linkRequest() AnamnesisLinkRequest {
	return AnamnesisLinkRequest{
		PatientID:     "pat-1",
		PatientName:   "Maria Silva",
		ProcedureID:   "proc-1",
		ProcedureName: "Preenchimento labial",
		WhatsApp:      "5511987654321",
	}
}

func TestSendAnamnesisLinkSuccess(t *testing.T) {
	var received AnamnesisLinkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	store := NewInMemoryAttemptStore()
	sender, err := NewSender(srv.URL, store)
	if err != nil {
		t.Fatalf("NewSender failed: %v", err)
	}

	attempt, err := sender.SendAnamnesisLink(context.Background(), "anm-1", linkRequest())
	if err != nil {
		t.Fatalf("SendAnamnesisLink failed: %v", err)
	}
	if !attempt.Success {
		t.Error("expected successful attempt")
	}
	if attempt.StatusCode != http.StatusOK {
		t.Errorf("status code = %d, want 200", attempt.StatusCode)
	}
	if received.WhatsApp != "5511987654321" {
		t.Errorf("whatsapp = %q, want 5511987654321", received.WhatsApp)
	}
	if received.PatientName != "Maria Silva" {
		t.Errorf("patientName = %q", received.PatientName)
	}

	attempts, _ := sender.Attempts(context.Background(), "anm-1")
	if len(attempts) != 1 {
		t.Errorf("expected 1 recorded attempt, got %d", len(attempts))
	}
}

func TestSendAnamnesisLinkNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := NewInMemoryAttemptStore()
	sender, _ := NewSender(srv.URL, store)

	attempt, err := sender.SendAnamnesisLink(context.Background(), "anm-1", linkRequest())
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if attempt.Success {
		t.Error("attempt should not be marked successful")
	}
	if attempt.StatusCode != http.StatusBadGateway {
		t.Errorf("status code = %d, want 502", attempt.StatusCode)
	}

	// Failure is still recorded for the audit trail.
	attempts, _ := sender.Attempts(context.Background(), "anm-1")
	if len(attempts) != 1 {
		t.Errorf("expected 1 recorded attempt, got %d", len(attempts))
	}
}

func TestSendAnamnesisLinkUnreachable(t *testing.T) {
	store := NewInMemoryAttemptStore()
	sender, _ := NewSender("http://127.0.0.1:1", store)

	attempt, err := sender.SendAnamnesisLink(context.Background(), "anm-1", linkRequest())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if attempt.Success {
		t.Error("attempt should not be marked successful")
	}
	if attempt.Error == "" {
		t.Error("expected attempt error to be recorded")
	}
}

func TestSendAnamnesisLinkSignsPayload(t *testing.T) {
	var sig string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig = r.Header.Get("X-Webhook-Signature")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender, _ := NewSender(srv.URL, NewInMemoryAttemptStore(), WithSecret("s3cr3t"))
	if _, err := sender.SendAnamnesisLink(context.Background(), "anm-1", linkRequest()); err != nil {
		t.Fatalf("SendAnamnesisLink failed: %v", err)
	}

	want := "sha256=" + SignPayload(body, "s3cr3t")
	if sig != want {
		t.Errorf("signature = %q, want %q", sig, want)
	}
}

func TestNewSenderRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "not a url\x7f"} {
		if _, err := NewSender(raw, NewInMemoryAttemptStore()); err == nil {
			t.Errorf("NewSender(%q) should fail", raw)
		}
	}
}
