package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	tasks TaskRepository
}

func NewService(tasks TaskRepository) *Service {
	return &Service{tasks: tasks}
}

var validPriorities = map[string]bool{
	"baixa":   true,
	"media":   true,
	"alta":    true,
	"critica": true,
}

var validStatuses = map[string]bool{
	"aberta":       true,
	"em_progresso": true,
	"concluida":    true,
	"arquivada":    true,
}

func (s *Service) CreateTask(ctx context.Context, t *Task) error {
	if t.Title == "" {
		return fmt.Errorf("título é obrigatório")
	}
	if t.Priority == "" {
		t.Priority = "media"
	}
	if !validPriorities[t.Priority] {
		return fmt.Errorf("prioridade inválida: %s", t.Priority)
	}
	if t.Status == "" {
		t.Status = "aberta"
	}
	if !validStatuses[t.Status] {
		return fmt.Errorf("status inválido: %s", t.Status)
	}
	return s.tasks.Create(ctx, t)
}

func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *Service) UpdateTask(ctx context.Context, t *Task) error {
	if t.Title == "" {
		return fmt.Errorf("título é obrigatório")
	}
	if !validPriorities[t.Priority] {
		return fmt.Errorf("prioridade inválida: %s", t.Priority)
	}
	if !validStatuses[t.Status] {
		return fmt.Errorf("status inválido: %s", t.Status)
	}
	return s.tasks.Update(ctx, t)
}

func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.tasks.Delete(ctx, id)
}

func (s *Service) SearchTasks(ctx context.Context, params map[string]string, limit, offset int) ([]*Task, int, error) {
	return s.tasks.Search(ctx, params, limit, offset)
}
