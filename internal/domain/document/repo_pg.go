package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttermos/termos/internal/platform/search"
)

type documentRepoPG struct{ pool *pgxpool.Pool }

func NewDocumentRepoPG(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepoPG{pool: pool}
}

const documentCols = `id, titulo, tipo, status, procedimento_id, paciente_id,
	nivel_compreensao, canal_envio, conteudo, tempo_leitura_min,
	assinatura, assinado_em, expira_em, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Title, &d.DocumentType, &d.Status, &d.ProcedureID, &d.PatientID,
		&d.Comprehension, &d.Channel, &d.Content, &d.ReadingTime,
		&d.Signature, &d.SignedAt, &d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *documentRepoPG) Create(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documento (id, titulo, tipo, status, procedimento_id, paciente_id,
			nivel_compreensao, canal_envio, conteudo, tempo_leitura_min,
			assinatura, assinado_em, expira_em)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		d.ID, d.Title, d.DocumentType, d.Status, d.ProcedureID, d.PatientID,
		d.Comprehension, d.Channel, d.Content, d.ReadingTime,
		d.Signature, d.SignedAt, d.ExpiresAt)
	return err
}

func (r *documentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `SELECT `+documentCols+` FROM documento WHERE id = $1`, id))
}

func (r *documentRepoPG) Update(ctx context.Context, d *Document) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE documento SET titulo=$2, tipo=$3, status=$4, procedimento_id=$5,
			paciente_id=$6, nivel_compreensao=$7, canal_envio=$8, conteudo=$9,
			tempo_leitura_min=$10, assinatura=$11, assinado_em=$12, expira_em=$13,
			updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Title, d.DocumentType, d.Status, d.ProcedureID,
		d.PatientID, d.Comprehension, d.Channel, d.Content,
		d.ReadingTime, d.Signature, d.SignedAt, d.ExpiresAt)
	return err
}

func (r *documentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documento WHERE id = $1`, id)
	return err
}

var documentSearchParams = map[string]search.ParamConfig{
	"search":        {Type: search.ParamText, Columns: []string{"titulo", "conteudo"}},
	"status":        {Type: search.ParamToken, Column: "status"},
	"procedure_id":  {Type: search.ParamRef, Column: "procedimento_id"},
	"patient_id":    {Type: search.ParamRef, Column: "paciente_id"},
	"comprehension": {Type: search.ParamToken, Column: "nivel_compreensao"},
	"channel":       {Type: search.ParamToken, Column: "canal_envio"},
	"expires_until": {Type: search.ParamDateUntil, Column: "expira_em"},
}

func (r *documentRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Document, int, error) {
	qb := search.New("documento", documentCols)
	qb.ApplyParams(params, documentSearchParams)
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
	var items []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}
