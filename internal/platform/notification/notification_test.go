package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type emailCall struct {
	To      string
	Subject string
	Body    string
}

type mockEmailSender struct {
	mu         sync.Mutex
	calls      []emailCall
	shouldFail bool
}

func (m *mockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, emailCall{To: to, Subject: subject, Body: body})
	if m.shouldFail {
		return errors.New("smtp unavailable")
	}
	return nil
}

type whatsappCall struct {
	Phone string
	Body  string
}

type mockWhatsAppSender struct {
	mu    sync.Mutex
	calls []whatsappCall
}

func (m *mockWhatsAppSender) SendWhatsApp(_ context.Context, phone, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, whatsappCall{Phone: phone, Body: body})
	return nil
}

func newTestManager() (*Manager, *mockEmailSender, *mockWhatsAppSender) {
	email := &mockEmailSender{}
	wa := &mockWhatsAppSender{}
	return NewManager(email, wa, NewTemplateEngine()), email, wa
}

func TestRenderTemplate(t *testing.T) {
	engine := NewTemplateEngine()
	subject, body, channel, err := engine.Render("termo-pronto", map[string]string{
		"patient_name":   "Maria",
		"procedure_name": "Botox",
		"link":           "https://termos.app/d/abc",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if channel != ChannelEmail {
		t.Errorf("channel = %q, want email", channel)
	}
	if subject != "Seu termo de consentimento está pronto" {
		t.Errorf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Maria") || !strings.Contains(body, "Botox") {
		t.Errorf("body missing substitutions: %q", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("body has unresolved placeholders: %q", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine := NewTemplateEngine()
	if _, _, _, err := engine.Render("nao-existe", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	engine := NewTemplateEngine()
	_, body, _, err := engine.Render("anamnese-link", map[string]string{"patient_name": "Ana"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(body, "{{procedure_name}}") {
		t.Errorf("missing keys should stay as placeholders: %q", body)
	}
}

func TestSendEmail(t *testing.T) {
	mgr, email, _ := newTestManager()
	n := &Notification{
		Channel:   ChannelEmail,
		Recipient: "maria@exemplo.com",
		Subject:   "Assunto",
		Body:      "Corpo",
	}
	if err := mgr.Send(context.Background(), n); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if n.Status != "sent" || n.SentAt == nil {
		t.Errorf("status = %q, sentAt = %v", n.Status, n.SentAt)
	}
	if len(email.calls) != 1 || email.calls[0].To != "maria@exemplo.com" {
		t.Errorf("unexpected email calls: %+v", email.calls)
	}
}

func TestSendWhatsAppNormalizesPhone(t *testing.T) {
	mgr, _, wa := newTestManager()
	n := &Notification{
		Channel:   ChannelWhatsApp,
		Recipient: "(11) 98765-4321",
		Body:      "Olá",
	}
	if err := mgr.Send(context.Background(), n); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(wa.calls) != 1 {
		t.Fatalf("expected 1 whatsapp call, got %d", len(wa.calls))
	}
	if wa.calls[0].Phone != "5511987654321" {
		t.Errorf("phone = %q, want 5511987654321", wa.calls[0].Phone)
	}
}

func TestSendFailureRecordedAndRetry(t *testing.T) {
	mgr, email, _ := newTestManager()
	email.shouldFail = true

	n := &Notification{Channel: ChannelEmail, Recipient: "a@b.com", Body: "x"}
	if err := mgr.Send(context.Background(), n); err == nil {
		t.Fatal("expected send failure")
	}
	if n.Status != "failed" || n.Error == "" {
		t.Errorf("status = %q, error = %q", n.Status, n.Error)
	}

	email.shouldFail = false
	if err := mgr.Retry(context.Background(), n.ID); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	got, err := mgr.Get(n.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != "sent" {
		t.Errorf("status after retry = %q, want sent", got.Status)
	}
}

func TestRetryRejectsSentNotification(t *testing.T) {
	mgr, _, _ := newTestManager()
	n := &Notification{Channel: ChannelEmail, Recipient: "a@b.com", Body: "x"}
	if err := mgr.Send(context.Background(), n); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := mgr.Retry(context.Background(), n.ID); err == nil {
		t.Error("retrying a sent notification should fail")
	}
}

func TestSendFromTemplate(t *testing.T) {
	mgr, _, wa := newTestManager()
	n, err := mgr.SendFromTemplate(context.Background(), "anamnese-link", map[string]string{
		"patient_name":   "Ana",
		"procedure_name": "Limpeza de pele",
		"link":           "https://termos.app/a/xyz",
	}, "11987654321")
	if err != nil {
		t.Fatalf("SendFromTemplate failed: %v", err)
	}
	if n.Channel != ChannelWhatsApp {
		t.Errorf("channel = %q, want whatsapp", n.Channel)
	}
	if len(wa.calls) != 1 || !strings.Contains(wa.calls[0].Body, "Limpeza de pele") {
		t.Errorf("unexpected whatsapp calls: %+v", wa.calls)
	}
}

func TestStats(t *testing.T) {
	mgr, email, _ := newTestManager()
	mgr.Send(context.Background(), &Notification{Channel: ChannelEmail, Recipient: "a@b.com", Body: "x"})
	email.shouldFail = true
	mgr.Send(context.Background(), &Notification{Channel: ChannelEmail, Recipient: "c@d.com", Body: "y"})

	stats := mgr.Stats()
	if stats["sent"] != 1 || stats["failed"] != 1 {
		t.Errorf("stats = %v, want sent:1 failed:1", stats)
	}
}

func TestLinkWhatsAppSender(t *testing.T) {
	s := NewLinkWhatsAppSender()
	link := s.Link("(11) 98765-4321", "Olá")
	if !strings.HasPrefix(link, "https://wa.me/5511987654321?text=") {
		t.Errorf("unexpected link %q", link)
	}
}

func TestPasswordResetTemplateRendersLink(t *testing.T) {
	// The SMTP sender's SendPasswordReset renders this template; the link
	// placeholder must resolve and the channel must be email.
	e := NewTemplateEngine()
	subject, body, channel, err := e.Render("password-reset", map[string]string{
		"reset_link": "https://termos.example.com/redefinir-senha?token=abc",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if channel != ChannelEmail {
		t.Errorf("channel = %q, want email", channel)
	}
	if subject != "Redefinição de senha" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "https://termos.example.com/redefinir-senha?token=abc") {
		t.Errorf("body missing reset link: %q", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("unresolved placeholder in body: %q", body)
	}
}
