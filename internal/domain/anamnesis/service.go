package anamnesis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/internal/platform/webhook"
	"github.com/smarttermos/termos/pkg/brdoc"
)

// Directory resolves display data for patients and procedures referenced by
// an anamnesis. The server wires it over the patient/procedure repositories.
type Directory interface {
	PatientInfo(ctx context.Context, id uuid.UUID) (name, phone string, err error)
	ProcedureName(ctx context.Context, id uuid.UUID) (string, error)
}

// LinkSender delivers the anamnesis form link to the patient.
type LinkSender interface {
	SendAnamnesisLink(ctx context.Context, anamnesisID string, req webhook.AnamnesisLinkRequest) (*webhook.DeliveryAttempt, error)
}

type Service struct {
	anamneses AnamnesisRepository
	directory Directory
	sender    LinkSender
	now       func() time.Time
}

func NewService(anamneses AnamnesisRepository, directory Directory, sender LinkSender) *Service {
	return &Service{anamneses: anamneses, directory: directory, sender: sender, now: time.Now}
}

var validStatuses = map[string]bool{
	"draft":     true,
	"link_sent": true,
	"completed": true,
}

func (s *Service) CreateAnamnesis(ctx context.Context, a *Anamnesis) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("paciente é obrigatório")
	}
	if a.Status == "" {
		a.Status = "draft"
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("status inválido: %s", a.Status)
	}
	return s.anamneses.Create(ctx, a)
}

func (s *Service) GetAnamnesis(ctx context.Context, id uuid.UUID) (*Anamnesis, error) {
	return s.anamneses.GetByID(ctx, id)
}

func (s *Service) DeleteAnamnesis(ctx context.Context, id uuid.UUID) error {
	return s.anamneses.Delete(ctx, id)
}

func (s *Service) SearchAnamneses(ctx context.Context, params map[string]string, limit, offset int) ([]*Anamnesis, int, error) {
	return s.anamneses.Search(ctx, params, limit, offset)
}

// SendLink POSTs the form link request to the automation webhook. The status
// only moves to link_sent when the endpoint confirms delivery; any failure
// leaves the anamnesis untouched.
func (s *Service) SendLink(ctx context.Context, id uuid.UUID) (*Anamnesis, error) {
	a, err := s.anamneses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == "completed" {
		return nil, fmt.Errorf("anamnese já foi concluída")
	}

	patientName, phone, err := s.directory.PatientInfo(ctx, a.PatientID)
	if err != nil {
		return nil, fmt.Errorf("paciente não encontrado: %w", err)
	}
	if phone == "" {
		return nil, fmt.Errorf("paciente não possui WhatsApp cadastrado")
	}

	var procedureID, procedureName string
	if a.ProcedureID != nil {
		procedureID = a.ProcedureID.String()
		procedureName, err = s.directory.ProcedureName(ctx, *a.ProcedureID)
		if err != nil {
			return nil, fmt.Errorf("procedimento não encontrado: %w", err)
		}
	}

	req := webhook.AnamnesisLinkRequest{
		PatientID:     a.PatientID.String(),
		PatientName:   patientName,
		ProcedureID:   procedureID,
		ProcedureName: procedureName,
		WhatsApp:      brdoc.E164(phone),
	}
	if _, err := s.sender.SendAnamnesisLink(ctx, a.ID.String(), req); err != nil {
		return nil, err
	}

	now := s.now()
	a.Status = "link_sent"
	a.LinkSentAt = &now
	if err := s.anamneses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Submit stores the whole questionnaire at once. A form that is not
// submit-ready is rejected with the first incomplete step.
func (s *Service) Submit(ctx context.Context, id uuid.UUID, q *Questionnaire) (*Anamnesis, error) {
	a, err := s.anamneses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == "completed" {
		return nil, fmt.Errorf("anamnese já foi concluída")
	}
	if !q.CanSubmit() {
		return nil, fmt.Errorf("formulário incompleto: etapa %s", q.Step())
	}

	medical, err := json.Marshal(map[string]interface{}{
		"has_medication_allergy": q.HasMedicationAllergy,
		"allergy_description":    q.AllergyDescription,
		"uses_medication":        q.UsesMedication,
		"medication_description": q.MedicationDescription,
	})
	if err != nil {
		return nil, err
	}
	aesthetic, err := json.Marshal(map[string]interface{}{
		"has_previous_procedures": q.HasPreviousProcedures,
		"previous_procedure_type": q.PreviousProcedureType,
		"previous_procedure_text": q.PreviousProcedureText,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	medicalRaw := json.RawMessage(medical)
	aestheticRaw := json.RawMessage(aesthetic)
	awareness := "paciente declarou ciência dos riscos"

	a.MedicalHistory = &medicalRaw
	a.AestheticHistory = &aestheticRaw
	a.Expectations = &q.Expectations
	a.Awareness = &awareness
	a.Status = "completed"
	a.CompletedAt = &now
	if err := s.anamneses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
