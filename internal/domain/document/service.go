package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	documents DocumentRepository
	now       func() time.Time
}

func NewService(documents DocumentRepository) *Service {
	return &Service{documents: documents, now: time.Now}
}

var validStatuses = map[string]bool{
	"rascunho": true,
	"pendente": true,
	"assinado": true,
}

var validComprehensionLevels = map[string]bool{
	"leigo":    true,
	"tecnico":  true,
	"avancado": true,
}

var validChannels = map[string]bool{
	"email":    true,
	"whatsapp": true,
}

func validate(d *Document) error {
	if d.Title == "" {
		return fmt.Errorf("título é obrigatório")
	}
	// Any status is reachable from any status; only set membership is checked.
	if !validStatuses[d.Status] {
		return fmt.Errorf("status inválido: %s", d.Status)
	}
	if !validComprehensionLevels[d.Comprehension] {
		return fmt.Errorf("nível de compreensão inválido: %s", d.Comprehension)
	}
	if !validChannels[d.Channel] {
		return fmt.Errorf("canal de envio inválido: %s", d.Channel)
	}
	return nil
}

func (s *Service) CreateDocument(ctx context.Context, d *Document) error {
	if d.Status == "" {
		d.Status = "rascunho"
	}
	if d.Comprehension == "" {
		d.Comprehension = "leigo"
	}
	if d.Channel == "" {
		d.Channel = "email"
	}
	if d.DocumentType == "" {
		d.DocumentType = "termo_consentimento"
	}
	if err := validate(d); err != nil {
		return err
	}
	return s.documents.Create(ctx, d)
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.documents.GetByID(ctx, id)
}

func (s *Service) UpdateDocument(ctx context.Context, d *Document) error {
	if err := validate(d); err != nil {
		return err
	}
	return s.documents.Update(ctx, d)
}

func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return s.documents.Delete(ctx, id)
}

func (s *Service) SearchDocuments(ctx context.Context, params map[string]string, limit, offset int) ([]*Document, int, error) {
	return s.documents.Search(ctx, params, limit, offset)
}

// Sign attaches the captured signature image and moves the document to
// assinado. The capture itself is a placeholder, not a cryptographic
// signature.
func (s *Service) Sign(ctx context.Context, id uuid.UUID, signatureDataURL string) (*Document, error) {
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if signatureDataURL == "" {
		signatureDataURL = StubSignaturePNG
	}
	now := s.now()
	d.Signature = &signatureDataURL
	d.SignedAt = &now
	d.Status = "assinado"
	if err := s.documents.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
