package anamnesis

import (
	"context"

	"github.com/google/uuid"
)

type AnamnesisRepository interface {
	Create(ctx context.Context, a *Anamnesis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Anamnesis, error)
	Update(ctx context.Context, a *Anamnesis) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Anamnesis, int, error)
}
