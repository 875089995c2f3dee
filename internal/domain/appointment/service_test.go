package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	m.appointments[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	if a, ok := m.appointments[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockAppointmentRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.appointments, id)
	return nil
}

func (m *mockAppointmentRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	var matched []*Appointment
	for _, a := range m.appointments {
		if st := params["status"]; st != "" && a.Status != st {
			continue
		}
		matched = append(matched, a)
	}
	return matched, len(matched), nil
}

func (m *mockAppointmentRepo) ListBetween(_ context.Context, from, to time.Time) ([]*Appointment, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			items = append(items, a)
		}
	}
	return items, nil
}

func TestCreateAppointmentDefaults(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())
	a := &Appointment{PatientID: uuid.New(), ScheduledAt: time.Now().Add(time.Hour)}
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}
	if a.Status != "agendado" {
		t.Errorf("default status = %q, want agendado", a.Status)
	}
	if a.DurationMinutes != 60 {
		t.Errorf("default duration = %d, want 60", a.DurationMinutes)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc := NewService(newMockAppointmentRepo())
	ctx := context.Background()

	if err := svc.CreateAppointment(ctx, &Appointment{ScheduledAt: time.Now()}); err == nil {
		t.Error("expected missing patient to be rejected")
	}
	if err := svc.CreateAppointment(ctx, &Appointment{PatientID: uuid.New()}); err == nil {
		t.Error("expected missing scheduled_at to be rejected")
	}
	a := &Appointment{PatientID: uuid.New(), ScheduledAt: time.Now(), Status: "pendente"}
	if err := svc.CreateAppointment(ctx, a); err == nil {
		t.Error("expected invalid status to be rejected")
	}
}

func TestGetStatsUsesRepoWindow(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	seed := []*Appointment{
		{PatientID: uuid.New(), ScheduledAt: now.Add(-time.Hour), Status: "confirmado", DurationMinutes: 30},
		{PatientID: uuid.New(), ScheduledAt: now.Add(-2 * time.Hour), Status: "agendado", DurationMinutes: 30},
		{PatientID: uuid.New(), ScheduledAt: now.Add(-40 * 24 * time.Hour), Status: "agendado", DurationMinutes: 30},
	}
	for _, a := range seed {
		if err := svc.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("CreateAppointment failed: %v", err)
		}
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Today != 2 {
		t.Errorf("Today = %d, want 2", stats.Today)
	}
	if stats.Last30Days != 2 {
		t.Errorf("Last30Days = %d, want 2", stats.Last30Days)
	}
	if stats.ConfirmationRate != 50 {
		t.Errorf("ConfirmationRate = %d, want 50", stats.ConfirmationRate)
	}
	// The 40-day-old row is excluded by the repo window, so it cannot
	// inflate Pending either.
	if stats.Pending != 1 {
		t.Errorf("Pending = %d, want 1", stats.Pending)
	}
}
