package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttermos/termos/internal/platform/search"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, nome, cpf, genero, data_nascimento, email, telefone,
	logradouro, cidade, uf, cep, nivel_compreensao, observacoes,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.CPF, &p.Gender, &p.BirthDate, &p.Email, &p.Phone,
		&p.Street, &p.City, &p.State, &p.PostalCode, &p.Comprehension, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO paciente (id, nome, cpf, genero, data_nascimento, email, telefone,
			logradouro, cidade, uf, cep, nivel_compreensao, observacoes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.Name, p.CPF, p.Gender, p.BirthDate, p.Email, p.Phone,
		p.Street, p.City, p.State, p.PostalCode, p.Comprehension, p.Notes)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM paciente WHERE id = $1`, id))
}

func (r *patientRepoPG) GetByCPF(ctx context.Context, cpf string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM paciente WHERE cpf = $1`, cpf))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE paciente SET nome=$2, cpf=$3, genero=$4, data_nascimento=$5, email=$6,
			telefone=$7, logradouro=$8, cidade=$9, uf=$10, cep=$11,
			nivel_compreensao=$12, observacoes=$13, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.CPF, p.Gender, p.BirthDate, p.Email,
		p.Phone, p.Street, p.City, p.State, p.PostalCode,
		p.Comprehension, p.Notes)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM paciente WHERE id = $1`, id)
	return err
}

var patientSearchParams = map[string]search.ParamConfig{
	"search":        {Type: search.ParamText, Columns: []string{"nome", "cpf", "email"}},
	"comprehension": {Type: search.ParamToken, Column: "nivel_compreensao"},
	"city":          {Type: search.ParamToken, Column: "cidade"},
}

func (r *patientRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	qb := search.New("paciente", patientCols)
	qb.ApplyParams(params, patientSearchParams)
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
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *patientRepoPG) ListDocuments(ctx context.Context, patientID uuid.UUID) ([]DocumentRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, titulo, status, expira_em, created_at
		FROM documento WHERE paciente_id = $1
		ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var refs []DocumentRef
	for rows.Next() {
		var d DocumentRef
		if err := rows.Scan(&d.ID, &d.Title, &d.Status, &d.ExpiresAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, d)
	}
	return refs, nil
}
