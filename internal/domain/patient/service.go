package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/pkg/brdoc"
)

type Service struct {
	patients PatientRepository
}

func NewService(patients PatientRepository) *Service {
	return &Service{patients: patients}
}

var validComprehensionLevels = map[string]bool{
	"leigo":    true,
	"tecnico":  true,
	"avancado": true,
}

func (s *Service) validate(p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("nome é obrigatório")
	}
	if p.CPF != nil && *p.CPF != "" {
		digits := brdoc.Digits(*p.CPF)
		if !brdoc.ValidCPF(digits) {
			return fmt.Errorf("CPF inválido: %s", *p.CPF)
		}
		p.CPF = &digits
	}
	if p.Phone != nil && *p.Phone != "" {
		digits := brdoc.Digits(*p.Phone)
		p.Phone = &digits
	}
	if p.Comprehension != nil && !validComprehensionLevels[*p.Comprehension] {
		return fmt.Errorf("nível de compreensão inválido: %s", *p.Comprehension)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	if p.CPF != nil && *p.CPF != "" {
		if existing, err := s.patients.GetByCPF(ctx, *p.CPF); err == nil && existing != nil {
			return fmt.Errorf("já existe um paciente com este CPF")
		}
	}
	return s.patients.Create(ctx, p)
}

// GetPatient returns the patient with their consent document back-references.
func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*PatientDetail, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.patients.ListDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []DocumentRef{}
	}
	return &PatientDetail{Patient: p, Documents: docs}, nil
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) SearchPatients(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}
