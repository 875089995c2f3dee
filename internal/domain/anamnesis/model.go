package anamnesis

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Anamnesis maps to the anamnese table.
type Anamnesis struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	PatientID        uuid.UUID        `db:"paciente_id" json:"patient_id"`
	ProcedureID      *uuid.UUID       `db:"procedimento_id" json:"procedure_id,omitempty"`
	Status           string           `db:"status" json:"status"`
	MedicalHistory   *json.RawMessage `db:"historico_medico" json:"medical_history,omitempty"`
	AestheticHistory *json.RawMessage `db:"historico_estetico" json:"aesthetic_history,omitempty"`
	Expectations     *string          `db:"expectativas" json:"expectations,omitempty"`
	Awareness        *string          `db:"consciencia_riscos" json:"awareness,omitempty"`
	LinkSentAt       *time.Time       `db:"link_enviado_em" json:"link_sent_at,omitempty"`
	CompletedAt      *time.Time       `db:"concluida_em" json:"completed_at,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}
