package professional

import (
	"time"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/pkg/brdoc"
)

// Professional maps to the profissional table.
type Professional struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"nome" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"telefone" json:"phone,omitempty"`
	Role      string    `db:"cargo" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FormattedPhone returns the phone with the Brazilian display mask.
func (p *Professional) FormattedPhone() string {
	if p.Phone == nil {
		return ""
	}
	return brdoc.FormatPhone(*p.Phone)
}

// Roles is the closed set of professional roles, in display order.
var Roles = []string{
	"Médico",
	"Enfermeiro",
	"Esteticista",
	"Dentista",
	"Biomédico",
	"Fisioterapeuta",
	"Recepcionista",
}
