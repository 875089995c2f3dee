package professional

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/pkg/brdoc"
)

type Service struct {
	professionals ProfessionalRepository
}

func NewService(professionals ProfessionalRepository) *Service {
	return &Service{professionals: professionals}
}

var validRoles = func() map[string]bool {
	m := make(map[string]bool, len(Roles))
	for _, r := range Roles {
		m[r] = true
	}
	return m
}()

func validate(p *Professional) error {
	if p.Name == "" {
		return fmt.Errorf("nome é obrigatório")
	}
	if p.Role == "" {
		return fmt.Errorf("cargo é obrigatório")
	}
	if !validRoles[p.Role] {
		return fmt.Errorf("cargo inválido: %s", p.Role)
	}
	if p.Phone != nil && *p.Phone != "" {
		digits := brdoc.Digits(*p.Phone)
		p.Phone = &digits
	}
	return nil
}

func (s *Service) CreateProfessional(ctx context.Context, p *Professional) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.professionals.Create(ctx, p)
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return s.professionals.GetByID(ctx, id)
}

func (s *Service) UpdateProfessional(ctx context.Context, p *Professional) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.professionals.Update(ctx, p)
}

func (s *Service) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	return s.professionals.Delete(ctx, id)
}

func (s *Service) SearchProfessionals(ctx context.Context, params map[string]string, limit, offset int) ([]*Professional, int, error) {
	return s.professionals.Search(ctx, params, limit, offset)
}
