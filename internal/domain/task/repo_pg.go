package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smarttermos/termos/internal/platform/search"
)

type taskRepoPG struct{ pool *pgxpool.Pool }

func NewTaskRepoPG(pool *pgxpool.Pool) TaskRepository {
	return &taskRepoPG{pool: pool}
}

const taskCols = `id, titulo, descricao, prioridade, status, responsavel_id, prazo,
	created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status,
		&t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *taskRepoPG) Create(ctx context.Context, t *Task) error {
	t.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tarefa (id, titulo, descricao, prioridade, status, responsavel_id, prazo)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.Title, t.Description, t.Priority, t.Status, t.AssigneeID, t.DueDate)
	return err
}

func (r *taskRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `SELECT `+taskCols+` FROM tarefa WHERE id = $1`, id))
}

func (r *taskRepoPG) Update(ctx context.Context, t *Task) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tarefa SET titulo=$2, descricao=$3, prioridade=$4, status=$5,
			responsavel_id=$6, prazo=$7, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Title, t.Description, t.Priority, t.Status, t.AssigneeID, t.DueDate)
	return err
}

func (r *taskRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tarefa WHERE id = $1`, id)
	return err
}

var taskSearchParams = map[string]search.ParamConfig{
	"search":    {Type: search.ParamText, Columns: []string{"titulo", "descricao"}},
	"status":    {Type: search.ParamToken, Column: "status"},
	"priority":  {Type: search.ParamToken, Column: "prioridade"},
	"assignee":  {Type: search.ParamRef, Column: "responsavel_id"},
	"due_until": {Type: search.ParamDateUntil, Column: "prazo"},
}

func (r *taskRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Task, int, error) {
	qb := search.New("tarefa", taskCols)
	qb.ApplyParams(params, taskSearchParams)
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
	var items []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}
