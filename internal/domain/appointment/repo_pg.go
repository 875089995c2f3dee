package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttermos/termos/internal/platform/search"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

const appointmentCols = `id, paciente_id, profissional_id, procedimento_id,
	agendado_para, duracao_minutos, status, observacoes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ProfessionalID, &a.ProcedureID,
		&a.ScheduledAt, &a.DurationMinutes, &a.Status, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO agendamento (id, paciente_id, profissional_id, procedimento_id,
			agendado_para, duracao_minutos, status, observacoes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.ProfessionalID, a.ProcedureID,
		a.ScheduledAt, a.DurationMinutes, a.Status, a.Notes)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+appointmentCols+` FROM agendamento WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE agendamento SET paciente_id=$2, profissional_id=$3, procedimento_id=$4,
			agendado_para=$5, duracao_minutos=$6, status=$7, observacoes=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.ProfessionalID, a.ProcedureID,
		a.ScheduledAt, a.DurationMinutes, a.Status, a.Notes)
	return err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM agendamento WHERE id = $1`, id)
	return err
}

var appointmentSearchParams = map[string]search.ParamConfig{
	"search":       {Type: search.ParamText, Column: "observacoes"},
	"status":       {Type: search.ParamToken, Column: "status"},
	"patient":      {Type: search.ParamRef, Column: "paciente_id"},
	"professional": {Type: search.ParamRef, Column: "profissional_id"},
	"procedure":    {Type: search.ParamRef, Column: "procedimento_id"},
	"from":         {Type: search.ParamDateFrom, Column: "agendado_para"},
	"until":        {Type: search.ParamDateUntil, Column: "agendado_para"},
}

func (r *appointmentRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	qb := search.New("agendamento", appointmentCols)
	qb.ApplyParams(params, appointmentSearchParams)
	qb.OrderBy("agendado_para ASC")

	var total int
	if err := r.pool.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *appointmentRepoPG) ListBetween(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentCols+` FROM agendamento
		WHERE agendado_para >= $1 AND agendado_para < $2
		ORDER BY agendado_para ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}
