package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the agendamento table.
type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"paciente_id" json:"patient_id"`
	ProfessionalID  *uuid.UUID `db:"profissional_id" json:"professional_id,omitempty"`
	ProcedureID     *uuid.UUID `db:"procedimento_id" json:"procedure_id,omitempty"`
	ScheduledAt     time.Time  `db:"agendado_para" json:"scheduled_at"`
	DurationMinutes int        `db:"duracao_minutos" json:"duration_minutes"`
	Status          string     `db:"status" json:"status"`
	Notes           *string    `db:"observacoes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
