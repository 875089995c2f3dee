package task

import (
	"time"

	"github.com/google/uuid"
)

// Task maps to the tarefa table.
type Task struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"titulo" json:"title"`
	Description *string    `db:"descricao" json:"description,omitempty"`
	Priority    string     `db:"prioridade" json:"priority"`
	Status      string     `db:"status" json:"status"`
	AssigneeID  *uuid.UUID `db:"responsavel_id" json:"assignee_id,omitempty"`
	DueDate     *time.Time `db:"prazo" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Overdue reports whether the task has a due date in the past and is still open.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == "concluida" || t.Status == "arquivada" {
		return false
	}
	return t.DueDate.Before(now)
}
