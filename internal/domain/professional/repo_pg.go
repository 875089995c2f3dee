package professional

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttermos/termos/internal/platform/search"
)

type professionalRepoPG struct{ pool *pgxpool.Pool }

func NewProfessionalRepoPG(pool *pgxpool.Pool) ProfessionalRepository {
	return &professionalRepoPG{pool: pool}
}

const professionalCols = `id, nome, email, telefone, cargo, created_at, updated_at`

func scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *professionalRepoPG) Create(ctx context.Context, p *Professional) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profissional (id, nome, email, telefone, cargo)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.Email, p.Phone, p.Role)
	return err
}

func (r *professionalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return scanProfessional(r.pool.QueryRow(ctx, `SELECT `+professionalCols+` FROM profissional WHERE id = $1`, id))
}

func (r *professionalRepoPG) Update(ctx context.Context, p *Professional) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE profissional SET nome=$2, email=$3, telefone=$4, cargo=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Email, p.Phone, p.Role)
	return err
}

func (r *professionalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM profissional WHERE id = $1`, id)
	return err
}

var professionalSearchParams = map[string]search.ParamConfig{
	"search": {Type: search.ParamText, Columns: []string{"nome", "email"}},
	"role":   {Type: search.ParamToken, Column: "cargo"},
}

func (r *professionalRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Professional, int, error) {
	qb := search.New("profissional", professionalCols)
	qb.ApplyParams(params, professionalSearchParams)
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
	var items []*Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
