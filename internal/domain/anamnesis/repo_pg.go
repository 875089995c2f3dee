package anamnesis

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttermos/termos/internal/platform/search"
)

type anamnesisRepoPG struct{ pool *pgxpool.Pool }

func NewAnamnesisRepoPG(pool *pgxpool.Pool) AnamnesisRepository {
	return &anamnesisRepoPG{pool: pool}
}

const anamnesisCols = `id, paciente_id, procedimento_id, status,
	historico_medico, historico_estetico, expectativas, consciencia_riscos,
	link_enviado_em, concluida_em, created_at, updated_at`

func scanAnamnesis(row pgx.Row) (*Anamnesis, error) {
	var a Anamnesis
	err := row.Scan(&a.ID, &a.PatientID, &a.ProcedureID, &a.Status,
		&a.MedicalHistory, &a.AestheticHistory, &a.Expectations, &a.Awareness,
		&a.LinkSentAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *anamnesisRepoPG) Create(ctx context.Context, a *Anamnesis) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO anamnese (id, paciente_id, procedimento_id, status,
			historico_medico, historico_estetico, expectativas, consciencia_riscos)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.ProcedureID, a.Status,
		a.MedicalHistory, a.AestheticHistory, a.Expectations, a.Awareness)
	return err
}

func (r *anamnesisRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Anamnesis, error) {
	return scanAnamnesis(r.pool.QueryRow(ctx, `SELECT `+anamnesisCols+` FROM anamnese WHERE id = $1`, id))
}

func (r *anamnesisRepoPG) Update(ctx context.Context, a *Anamnesis) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE anamnese SET status=$2, historico_medico=$3, historico_estetico=$4,
			expectativas=$5, consciencia_riscos=$6, link_enviado_em=$7,
			concluida_em=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.MedicalHistory, a.AestheticHistory,
		a.Expectations, a.Awareness, a.LinkSentAt, a.CompletedAt)
	return err
}

func (r *anamnesisRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM anamnese WHERE id = $1`, id)
	return err
}

var anamnesisSearchParams = map[string]search.ParamConfig{
	"status":    {Type: search.ParamToken, Column: "status"},
	"patient":   {Type: search.ParamRef, Column: "paciente_id"},
	"procedure": {Type: search.ParamRef, Column: "procedimento_id"},
}

func (r *anamnesisRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Anamnesis, int, error) {
	qb := search.New("anamnese", anamnesisCols)
	qb.ApplyParams(params, anamnesisSearchParams)
	qb.OrderBy("created_at DESC")

	var total int
	if err := r.pool.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Anamnesis
	for rows.Next() {
		a, err := scanAnamnesis(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}
