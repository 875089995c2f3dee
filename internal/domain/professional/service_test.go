package professional

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockProfessionalRepo struct {
	professionals map[uuid.UUID]*Professional
}

func newMockProfessionalRepo() *mockProfessionalRepo {
	return &mockProfessionalRepo{professionals: make(map[uuid.UUID]*Professional)}
}

func (m *mockProfessionalRepo) Create(_ context.Context, p *Professional) error {
	p.ID = uuid.New()
	m.professionals[p.ID] = p
	return nil
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, id uuid.UUID) (*Professional, error) {
	if p, ok := m.professionals[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockProfessionalRepo) Update(_ context.Context, p *Professional) error {
	if _, ok := m.professionals[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.professionals[p.ID] = p
	return nil
}

func (m *mockProfessionalRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.professionals, id)
	return nil
}

func (m *mockProfessionalRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Professional, int, error) {
	var matched []*Professional
	for _, p := range m.professionals {
		if role := params["role"]; role != "" && p.Role != role {
			continue
		}
		matched = append(matched, p)
	}
	return matched, len(matched), nil
}

func strPtr(s string) *string { return &s }

func TestCreateProfessionalValidatesRole(t *testing.T) {
	svc := NewService(newMockProfessionalRepo())
	ctx := context.Background()

	for _, role := range Roles {
		p := &Professional{Name: "Dra. Paula", Role: role}
		if err := svc.CreateProfessional(ctx, p); err != nil {
			t.Errorf("role %q should be valid: %v", role, err)
		}
	}

	p := &Professional{Name: "Dra. Paula", Role: "Astronauta"}
	if err := svc.CreateProfessional(ctx, p); err == nil {
		t.Error("expected invalid role to be rejected")
	}
	p = &Professional{Name: "Dra. Paula"}
	if err := svc.CreateProfessional(ctx, p); err == nil {
		t.Error("expected missing role to be rejected")
	}
}

func TestCreateProfessionalNormalizesPhone(t *testing.T) {
	svc := NewService(newMockProfessionalRepo())
	p := &Professional{Name: "Dra. Paula", Role: "Médico", Phone: strPtr("(21) 3456-7890")}
	if err := svc.CreateProfessional(context.Background(), p); err != nil {
		t.Fatalf("CreateProfessional failed: %v", err)
	}
	if *p.Phone != "2134567890" {
		t.Errorf("stored phone = %q, want digits only", *p.Phone)
	}
	if p.FormattedPhone() != "(21) 3456-7890" {
		t.Errorf("FormattedPhone = %q", p.FormattedPhone())
	}
}

func TestRolesClosedSet(t *testing.T) {
	if len(Roles) != 7 {
		t.Errorf("expected 7 roles, got %d", len(Roles))
	}
}
