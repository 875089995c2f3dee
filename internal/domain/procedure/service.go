package procedure

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	procedures ProcedureRepository
}

func NewService(procedures ProcedureRepository) *Service {
	return &Service{procedures: procedures}
}

var validCategories = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

func validate(p *Procedure) error {
	if p.Name == "" {
		return fmt.Errorf("nome é obrigatório")
	}
	if p.Category == "" {
		return fmt.Errorf("categoria é obrigatória")
	}
	if !validCategories[p.Category] {
		return fmt.Errorf("categoria inválida: %s", p.Category)
	}
	return nil
}

func (s *Service) CreateProcedure(ctx context.Context, p *Procedure) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.procedures.Create(ctx, p)
}

func (s *Service) GetProcedure(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return s.procedures.GetByID(ctx, id)
}

func (s *Service) UpdateProcedure(ctx context.Context, p *Procedure) error {
	if err := validate(p); err != nil {
		return err
	}
	return s.procedures.Update(ctx, p)
}

func (s *Service) DeleteProcedure(ctx context.Context, id uuid.UUID) error {
	return s.procedures.Delete(ctx, id)
}

// SearchProcedures filters by case-insensitive substring on the name, which
// backs the procedure combobox.
func (s *Service) SearchProcedures(ctx context.Context, params map[string]string, limit, offset int) ([]*Procedure, int, error) {
	return s.procedures.Search(ctx, params, limit, offset)
}
