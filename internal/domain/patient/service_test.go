package patient

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
	docs     map[uuid.UUID][]DocumentRef
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{
		patients: make(map[uuid.UUID]*Patient),
		docs:     make(map[uuid.UUID][]DocumentRef),
	}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	if p, ok := m.patients[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockPatientRepo) GetByCPF(_ context.Context, cpf string) (*Patient, error) {
	for _, p := range m.patients {
		if p.CPF != nil && *p.CPF == cpf {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	var matched []*Patient
	for _, p := range m.patients {
		if q, ok := params["search"]; ok && q != "" {
			if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
				continue
			}
		}
		matched = append(matched, p)
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *mockPatientRepo) ListDocuments(_ context.Context, patientID uuid.UUID) ([]DocumentRef, error) {
	return m.docs[patientID], nil
}

func strPtr(s string) *string { return &s }

func TestCreatePatientNormalizesCPFAndPhone(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo)

	p := &Patient{
		Name:  "Maria Silva",
		CPF:   strPtr("529.982.247-25"),
		Phone: strPtr("(11) 98765-4321"),
	}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("CreatePatient failed: %v", err)
	}
	if *p.CPF != "52998224725" {
		t.Errorf("stored CPF = %q, want digits only", *p.CPF)
	}
	if *p.Phone != "11987654321" {
		t.Errorf("stored phone = %q, want digits only", *p.Phone)
	}
	if p.FormattedCPF() != "529.982.247-25" {
		t.Errorf("FormattedCPF = %q", p.FormattedCPF())
	}
	if p.FormattedPhone() != "(11) 98765-4321" {
		t.Errorf("FormattedPhone = %q", p.FormattedPhone())
	}
}

func TestCreatePatientRejectsInvalidCPF(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	p := &Patient{Name: "Maria", CPF: strPtr("123.456.789-00")}
	if err := svc.CreatePatient(context.Background(), p); err == nil {
		t.Error("expected error for invalid CPF check digits")
	}
}

func TestCreatePatientRejectsDuplicateCPF(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.CreatePatient(ctx, &Patient{Name: "Maria", CPF: strPtr("52998224725")}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := svc.CreatePatient(ctx, &Patient{Name: "Outra Maria", CPF: strPtr("529.982.247-25")})
	if err == nil {
		t.Error("expected duplicate CPF to be rejected")
	}
}

func TestCreatePatientRequiresName(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	if err := svc.CreatePatient(context.Background(), &Patient{}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestCreatePatientValidatesComprehension(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	ctx := context.Background()

	for _, level := range []string{"leigo", "tecnico", "avancado"} {
		p := &Patient{Name: "Maria", Comprehension: strPtr(level)}
		if err := svc.CreatePatient(ctx, p); err != nil {
			t.Errorf("level %q should be valid: %v", level, err)
		}
	}
	p := &Patient{Name: "Maria", Comprehension: strPtr("expert")}
	if err := svc.CreatePatient(ctx, p); err == nil {
		t.Error("expected invalid comprehension level to be rejected")
	}
}

func TestGetPatientIncludesDocuments(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p := &Patient{Name: "Maria"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("CreatePatient failed: %v", err)
	}
	repo.docs[p.ID] = []DocumentRef{
		{ID: uuid.New(), Title: "Termo de Botox", Status: "assinado"},
	}

	detail, err := svc.GetPatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPatient failed: %v", err)
	}
	if len(detail.Documents) != 1 || detail.Documents[0].Title != "Termo de Botox" {
		t.Errorf("unexpected documents: %+v", detail.Documents)
	}
}

func TestGetPatientEmptyDocumentsNotNil(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p := &Patient{Name: "Maria"}
	svc.CreatePatient(ctx, p)

	detail, err := svc.GetPatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPatient failed: %v", err)
	}
	if detail.Documents == nil {
		t.Error("Documents should be an empty slice, not nil")
	}
}
