package procedure

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttermos/termos/internal/platform/search"
)

type procedureRepoPG struct{ pool *pgxpool.Pool }

func NewProcedureRepoPG(pool *pgxpool.Pool) ProcedureRepository {
	return &procedureRepoPG{pool: pool}
}

const procedureCols = `id, nome, categoria, descricao, riscos, contraindicacoes,
	created_at, updated_at`

func scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Risks,
		&p.Contraindications, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *procedureRepoPG) Create(ctx context.Context, p *Procedure) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO procedimento (id, nome, categoria, descricao, riscos, contraindicacoes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Category, p.Description, p.Risks, p.Contraindications)
	return err
}

func (r *procedureRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return scanProcedure(r.pool.QueryRow(ctx, `SELECT `+procedureCols+` FROM procedimento WHERE id = $1`, id))
}

func (r *procedureRepoPG) Update(ctx context.Context, p *Procedure) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE procedimento SET nome=$2, categoria=$3, descricao=$4, riscos=$5,
			contraindicacoes=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Category, p.Description, p.Risks, p.Contraindications)
	return err
}

func (r *procedureRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM procedimento WHERE id = $1`, id)
	return err
}

var procedureSearchParams = map[string]search.ParamConfig{
	"search":   {Type: search.ParamText, Column: "nome"},
	"category": {Type: search.ParamToken, Column: "categoria"},
}

func (r *procedureRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Procedure, int, error) {
	qb := search.New("procedimento", procedureCols)
	qb.ApplyParams(params, procedureSearchParams)
	qb.OrderBy("nome ASC")

	var total int
	if err := r.pool.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
