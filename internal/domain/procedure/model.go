package procedure

import (
	"time"

	"github.com/google/uuid"
)

// Procedure maps to the procedimento table.
type Procedure struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"nome" json:"name"`
	Category          string    `db:"categoria" json:"category"`
	Description       *string   `db:"descricao" json:"description,omitempty"`
	Risks             *string   `db:"riscos" json:"risks,omitempty"`
	Contraindications *string   `db:"contraindicacoes" json:"contraindications,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Categories is the closed set of procedure categories, in display order.
var Categories = []string{
	"Estético",
	"Cirúrgico",
	"Dermatológico",
	"Capilar",
	"Outro",
}
