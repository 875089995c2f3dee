package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/pkg/brdoc"
)

// Patient maps to the paciente table.
type Patient struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Name          string     `db:"nome" json:"name"`
	CPF           *string    `db:"cpf" json:"cpf,omitempty"`
	Gender        *string    `db:"genero" json:"gender,omitempty"`
	BirthDate     *time.Time `db:"data_nascimento" json:"birth_date,omitempty"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Phone         *string    `db:"telefone" json:"phone,omitempty"`
	Street        *string    `db:"logradouro" json:"street,omitempty"`
	City          *string    `db:"cidade" json:"city,omitempty"`
	State         *string    `db:"uf" json:"state,omitempty"`
	PostalCode    *string    `db:"cep" json:"postal_code,omitempty"`
	Comprehension *string    `db:"nivel_compreensao" json:"comprehension_level,omitempty"`
	Notes         *string    `db:"observacoes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// FormattedCPF returns the CPF with display punctuation (123.456.789-00).
func (p *Patient) FormattedCPF() string {
	if p.CPF == nil {
		return ""
	}
	return brdoc.FormatCPF(*p.CPF)
}

// FormattedPhone returns the phone with the Brazilian display mask.
func (p *Patient) FormattedPhone() string {
	if p.Phone == nil {
		return ""
	}
	return brdoc.FormatPhone(*p.Phone)
}

// DocumentRef is a read-only back-reference to a consent document.
type DocumentRef struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Title     string     `db:"titulo" json:"title"`
	Status    string     `db:"status" json:"status"`
	ExpiresAt *time.Time `db:"expira_em" json:"expires_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// PatientDetail is a patient with their document back-references.
type PatientDetail struct {
	*Patient
	Documents []DocumentRef `json:"documents"`
}
