package document

import (
	"time"

	"github.com/google/uuid"
)

// Document maps to the documento table (consent documents).
type Document struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         string     `db:"titulo" json:"title"`
	DocumentType  string     `db:"tipo" json:"document_type"`
	Status        string     `db:"status" json:"status"`
	ProcedureID   *uuid.UUID `db:"procedimento_id" json:"procedure_id,omitempty"`
	PatientID     *uuid.UUID `db:"paciente_id" json:"patient_id,omitempty"`
	Comprehension string     `db:"nivel_compreensao" json:"comprehension_level"`
	Channel       string     `db:"canal_envio" json:"delivery_channel"`
	Content       *string    `db:"conteudo" json:"content,omitempty"`
	ReadingTime   *int       `db:"tempo_leitura_min" json:"reading_time_minutes,omitempty"`
	Signature     *string    `db:"assinatura" json:"signature,omitempty"`
	SignedAt      *time.Time `db:"assinado_em" json:"signed_at,omitempty"`
	ExpiresAt     *time.Time `db:"expira_em" json:"expires_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Expired reports whether the document's expiry date has passed.
func (d *Document) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}
