package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	appointments AppointmentRepository
	now          func() time.Time
}

func NewService(appointments AppointmentRepository) *Service {
	return &Service{appointments: appointments, now: time.Now}
}

var validStatuses = map[string]bool{
	"agendado":   true,
	"confirmado": true,
	"cancelado":  true,
	"concluido":  true,
}

func validate(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("paciente é obrigatório")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("data do agendamento é obrigatória")
	}
	if a.DurationMinutes <= 0 {
		return fmt.Errorf("duração deve ser positiva")
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("status inválido: %s", a.Status)
	}
	return nil
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.Status == "" {
		a.Status = "agendado"
	}
	if a.DurationMinutes == 0 {
		a.DurationMinutes = 60
	}
	if err := validate(a); err != nil {
		return err
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	return s.appointments.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) SearchAppointments(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.Search(ctx, params, limit, offset)
}

// GetStats fetches the trailing 30 days plus the remainder of today and
// derives the dashboard counts from the rows.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	now := s.now()
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	windowStart := now.Add(-30 * 24 * time.Hour)

	items, err := s.appointments.ListBetween(ctx, windowStart, dayEnd)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(items, now), nil
}
