package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/internal/platform/notification"
)

// ErrSendFailed wraps channel delivery failures so the handler can map them
// to an upstream error status.
var ErrSendFailed = errors.New("falha no envio do documento")

// PatientContact is the delivery address data for a document's patient.
type PatientContact struct {
	Name  string
	Email string
	Phone string
}

// ContactDirectory resolves patient contacts and procedure names referenced
// by a document. The server wires it over the patient/procedure repositories.
type ContactDirectory interface {
	PatientContact(ctx context.Context, id uuid.UUID) (PatientContact, error)
	ProcedureName(ctx context.Context, id uuid.UUID) (string, error)
}

// Notifier sends a rendered message template to a recipient.
type Notifier interface {
	SendFromTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notification.Notification, error)
}

// Deliverer sends a document to its patient over the document's delivery
// channel. A draft moves to pendente after a successful send.
type Deliverer struct {
	documents DocumentRepository
	directory ContactDirectory
	notifier  Notifier
	baseURL   string
	now       func() time.Time
}

func NewDeliverer(documents DocumentRepository, directory ContactDirectory, notifier Notifier, baseURL string) *Deliverer {
	return &Deliverer{
		documents: documents,
		directory: directory,
		notifier:  notifier,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

func (d *Deliverer) Deliver(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	doc, err := d.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.PatientID == nil {
		return nil, fmt.Errorf("documento sem paciente vinculado")
	}
	if doc.Expired(d.now()) {
		return nil, fmt.Errorf("documento expirado em %s", doc.ExpiresAt.Format("02/01/2006"))
	}

	contact, err := d.directory.PatientContact(ctx, *doc.PatientID)
	if err != nil {
		return nil, err
	}

	procedureName := doc.Title
	if doc.ProcedureID != nil {
		if name, err := d.directory.ProcedureName(ctx, *doc.ProcedureID); err == nil && name != "" {
			procedureName = name
		}
	}

	var templateID, recipient string
	switch doc.Channel {
	case "whatsapp":
		if contact.Phone == "" {
			return nil, fmt.Errorf("paciente sem telefone cadastrado")
		}
		templateID = "termo-pronto-whatsapp"
		recipient = contact.Phone
	default:
		if contact.Email == "" {
			return nil, fmt.Errorf("paciente sem email cadastrado")
		}
		templateID = "termo-pronto"
		recipient = contact.Email
	}

	data := map[string]string{
		"patient_name":   contact.Name,
		"procedure_name": procedureName,
		"link":           fmt.Sprintf("%s/documentos/%s", d.baseURL, doc.ID),
	}
	n, err := d.notifier.SendFromTemplate(ctx, templateID, data, recipient)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if doc.Status == "rascunho" {
		doc.Status = "pendente"
		if err := d.documents.Update(ctx, doc); err != nil {
			return n, err
		}
	}
	return n, nil
}
