package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockTaskRepo struct {
	tasks map[uuid.UUID]*Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[uuid.UUID]*Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, t *Task) error {
	t.ID = uuid.New()
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTaskRepo) Update(_ context.Context, t *Task) error {
	if _, ok := m.tasks[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Task, int, error) {
	var matched []*Task
	for _, t := range m.tasks {
		if st := params["status"]; st != "" && t.Status != st {
			continue
		}
		if pr := params["priority"]; pr != "" && t.Priority != pr {
			continue
		}
		matched = append(matched, t)
	}
	return matched, len(matched), nil
}

func TestCreateTaskDefaults(t *testing.T) {
	svc := NewService(newMockTaskRepo())
	task := &Task{Title: "Ligar para paciente"}
	if err := svc.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.Status != "aberta" {
		t.Errorf("default status = %q, want aberta", task.Status)
	}
	if task.Priority != "media" {
		t.Errorf("default priority = %q, want media", task.Priority)
	}
}

func TestCreateTaskValidatesEnums(t *testing.T) {
	svc := NewService(newMockTaskRepo())
	ctx := context.Background()

	for _, pr := range []string{"baixa", "media", "alta", "critica"} {
		if err := svc.CreateTask(ctx, &Task{Title: "x", Priority: pr}); err != nil {
			t.Errorf("priority %q should be valid: %v", pr, err)
		}
	}
	for _, st := range []string{"aberta", "em_progresso", "concluida", "arquivada"} {
		if err := svc.CreateTask(ctx, &Task{Title: "x", Status: st}); err != nil {
			t.Errorf("status %q should be valid: %v", st, err)
		}
	}

	if err := svc.CreateTask(ctx, &Task{Title: "x", Priority: "urgente"}); err == nil {
		t.Error("expected invalid priority to be rejected")
	}
	if err := svc.CreateTask(ctx, &Task{Title: "x", Status: "fechada"}); err == nil {
		t.Error("expected invalid status to be rejected")
	}
	if err := svc.CreateTask(ctx, &Task{}); err == nil {
		t.Error("expected missing title to be rejected")
	}
}

func TestUpdateTaskValidatesEnums(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewService(repo)
	ctx := context.Background()

	task := &Task{Title: "Revisar termo"}
	if err := svc.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	task.Status = "em_progresso"
	task.Priority = "alta"
	if err := svc.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	task.Status = "invalida"
	if err := svc.UpdateTask(ctx, task); err == nil {
		t.Error("expected invalid status to be rejected on update")
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	cases := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{Status: "aberta"}, false},
		{"past due open", Task{Status: "aberta", DueDate: &yesterday}, true},
		{"past due in progress", Task{Status: "em_progresso", DueDate: &yesterday}, true},
		{"past due completed", Task{Status: "concluida", DueDate: &yesterday}, false},
		{"past due archived", Task{Status: "arquivada", DueDate: &yesterday}, false},
		{"future due", Task{Status: "aberta", DueDate: &tomorrow}, false},
	}
	for _, tc := range cases {
		if got := tc.task.Overdue(now); got != tc.want {
			t.Errorf("%s: Overdue = %v, want %v", tc.name, got, tc.want)
		}
	}
}
