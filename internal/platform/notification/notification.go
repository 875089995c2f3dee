// Package notification sends consent and anamnesis messages to patients over
// email and WhatsApp, with template rendering and an in-memory send log.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/pkg/brdoc"
)

// Channel is the delivery channel for a notification.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Notification is a single outbound message.
type Notification struct {
	ID           string            `json:"id"`
	Channel      Channel           `json:"channel"`
	Recipient    string            `json:"recipient"`
	Subject      string            `json:"subject,omitempty"`
	Body         string            `json:"body"`
	TemplateID   string            `json:"template_id,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// EmailSender sends an email message.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// WhatsAppSender sends a WhatsApp message to a Brazilian phone number.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, phone, body string) error
}

// Template is a reusable message template with {{key}} placeholders.
type Template struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Channel Channel `json:"channel"`
}

// TemplateEngine stores templates and renders them with data maps.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates an engine with the built-in templates registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "termo-pronto",
			Name:    "Termo pronto para assinatura",
			Subject: "Seu termo de consentimento está pronto",
			Body:    "Olá {{patient_name}}, o termo de consentimento do procedimento {{procedure_name}} está pronto para sua leitura e assinatura: {{link}}",
			Channel: ChannelEmail,
		},
		{
			ID:      "termo-pronto-whatsapp",
			Name:    "Termo pronto (WhatsApp)",
			Body:    "Olá {{patient_name}}! Seu termo de consentimento para {{procedure_name}} está pronto. Acesse: {{link}}",
			Channel: ChannelWhatsApp,
		},
		{
			ID:      "termo-assinado",
			Name:    "Termo assinado",
			Subject: "Termo de consentimento assinado",
			Body:    "Olá {{patient_name}}, recebemos a assinatura do seu termo de consentimento para {{procedure_name}}. Uma cópia em PDF está disponível em: {{link}}",
			Channel: ChannelEmail,
		},
		{
			ID:      "anamnese-link",
			Name:    "Link da ficha de anamnese",
			Body:    "Olá {{patient_name}}! Por favor, preencha sua ficha de anamnese para {{procedure_name}} antes da consulta: {{link}}",
			Channel: ChannelWhatsApp,
		},
		{
			ID:      "lembrete-consulta",
			Name:    "Lembrete de consulta",
			Body:    "Olá {{patient_name}}, lembrete da sua consulta em {{date}} às {{time}} com {{professional_name}}. Responda para confirmar.",
			Channel: ChannelWhatsApp,
		},
		{
			ID:      "password-reset",
			Name:    "Redefinição de senha",
			Subject: "Redefinição de senha",
			Body:    "Você solicitou a redefinição de senha. Acesse o link para criar uma nova senha: {{reset_link}}",
			Channel: ChannelEmail,
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render replaces {{key}} placeholders with values from data. Placeholders
// without a matching key are left untouched.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, channel Channel, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, t.Channel, nil
}

// Manager dispatches notifications and keeps an in-memory send log.
type Manager struct {
	email     EmailSender
	whatsapp  WhatsAppSender
	templates *TemplateEngine

	mu  sync.RWMutex
	log map[string]*Notification
}

func NewManager(email EmailSender, whatsapp WhatsAppSender, templates *TemplateEngine) *Manager {
	return &Manager{
		email:     email,
		whatsapp:  whatsapp,
		templates: templates,
		log:       make(map[string]*Notification),
	}
}

// Send dispatches a notification through its channel and records the result.
// WhatsApp recipients are normalized to E.164 with the country prefix.
func (m *Manager) Send(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now().UTC()
	n.Status = "pending"

	var sendErr error
	switch n.Channel {
	case ChannelEmail:
		if m.email == nil {
			sendErr = errors.New("email sender not configured")
		} else {
			sendErr = m.email.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
		}
	case ChannelWhatsApp:
		if m.whatsapp == nil {
			sendErr = errors.New("whatsapp sender not configured")
		} else {
			sendErr = m.whatsapp.SendWhatsApp(ctx, brdoc.E164(n.Recipient), n.Body)
		}
	default:
		sendErr = fmt.Errorf("unsupported channel: %s", n.Channel)
	}

	if sendErr != nil {
		n.Status = "failed"
		n.Error = sendErr.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
	}

	m.mu.Lock()
	m.log[n.ID] = n
	m.mu.Unlock()

	return sendErr
}

// SendFromTemplate renders a template and sends the result.
func (m *Manager) SendFromTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*Notification, error) {
	subject, body, channel, err := m.templates.Render(templateID, data)
	if err != nil {
		return nil, err
	}

	n := &Notification{
		Channel:      channel,
		Recipient:    recipient,
		Subject:      subject,
		Body:         body,
		TemplateID:   templateID,
		TemplateData: data,
	}
	if err := m.Send(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}

// Get returns a logged notification by id.
func (m *Manager) Get(id string) (*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.log[id]
	if !ok {
		return nil, fmt.Errorf("notification %q not found", id)
	}
	return n, nil
}

// Retry re-sends a failed notification.
func (m *Manager) Retry(ctx context.Context, id string) error {
	m.mu.RLock()
	n, ok := m.log[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("notification %q not found", id)
	}
	if n.Status != "failed" {
		return fmt.Errorf("notification %q is not failed (current: %s)", id, n.Status)
	}
	return m.Send(ctx, n)
}

// Stats returns notification counts grouped by status.
func (m *Manager) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := make(map[string]int)
	for _, n := range m.log {
		stats[n.Status]++
	}
	return stats
}
