package document

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func seedDocuments(t *testing.T, repo *mockDocumentRepo, n int) []*Document {
	t.Helper()
	docs := make([]*Document, n)
	for i := 0; i < n; i++ {
		d := &Document{
			Title:         fmt.Sprintf("Termo %02d", i),
			Status:        "rascunho",
			Comprehension: "leigo",
			Channel:       "email",
		}
		if err := repo.Create(context.Background(), d); err != nil {
			t.Fatalf("seed: %v", err)
		}
		d.CreatedAt = d.CreatedAt.Add(time.Duration(i) * time.Millisecond)
		docs[i] = d
	}
	return docs
}

func waitSettled(t *testing.T, b *Browser) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := b.Snapshot(); !s.Loading {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("browser never settled")
	return Snapshot{}
}

func TestBrowserDebounceCoalesces(t *testing.T) {
	repo := newMockDocumentRepo()
	seedDocuments(t, repo, 3)
	b := NewBrowser(NewService(repo), 10, WithDebounce(30*time.Millisecond))
	defer b.Close()

	b.SetSearch("T")
	b.SetSearch("Te")
	b.SetSearch("Termo")
	b.SetSearch("Termo 01")

	s := waitSettled(t, b)
	if got := repo.searchCount(); got != 1 {
		t.Errorf("rapid filter changes ran %d queries, want 1", got)
	}
	if len(s.Items) != 1 || s.Items[0].Title != "Termo 01" {
		t.Errorf("items = %v, want only the final filter's match", s.Items)
	}
}

func TestBrowserStaleResponseDiscarded(t *testing.T) {
	repo := newMockDocumentRepo()
	slow := &Document{Title: "Peeling lento", Status: "rascunho", Comprehension: "leigo", Channel: "email"}
	fast := &Document{Title: "Botox", Status: "rascunho", Comprehension: "leigo", Channel: "email"}
	repo.Create(context.Background(), slow)
	repo.Create(context.Background(), fast)
	repo.delay["Peeling"] = 150 * time.Millisecond

	b := NewBrowser(NewService(repo), 10, WithDebounce(10*time.Millisecond))
	defer b.Close()

	b.SetSearch("Peeling")
	time.Sleep(40 * time.Millisecond) // the slow fetch is now in flight
	b.SetSearch("Botox")

	time.Sleep(300 * time.Millisecond) // past the slow fetch's arrival
	s := b.Snapshot()
	if s.Loading {
		t.Fatal("browser still loading")
	}
	if len(s.Items) != 1 || s.Items[0].Title != "Botox" {
		t.Errorf("items = %+v, stale response overwrote the newer one", s.Items)
	}
}

func TestBrowserCreateOptimistic(t *testing.T) {
	repo := newMockDocumentRepo()
	// A huge debounce freezes the confirming refetch so the optimistic
	// state is observable.
	b := NewBrowser(NewService(repo), 10, WithDebounce(time.Hour))
	defer b.Close()

	d := &Document{Title: "Novo termo"}
	if err := b.Create(context.Background(), d); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s := b.Snapshot()
	if len(s.Items) != 1 || s.Items[0].Title != "Novo termo" {
		t.Errorf("items = %+v, want the created document prepended", s.Items)
	}
	if s.Total != 1 {
		t.Errorf("total = %d, want 1", s.Total)
	}
	if !s.Loading {
		t.Error("a confirming refetch should be pending")
	}
}

func TestBrowserRemoveLastItemStepsBack(t *testing.T) {
	repo := newMockDocumentRepo()
	seedDocuments(t, repo, 5)
	b := NewBrowser(NewService(repo), 2, WithDebounce(5*time.Millisecond))
	defer b.Close()

	b.SetPage(3)
	s := waitSettled(t, b)
	if s.Page != 3 || len(s.Items) != 1 {
		t.Fatalf("page 3 = %d items on page %d, want 1 on 3", len(s.Items), s.Page)
	}

	if err := b.Remove(context.Background(), s.Items[0].ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	s = waitSettled(t, b)
	if s.Page != 2 {
		t.Errorf("page = %d after deleting the last item of page 3, want 2", s.Page)
	}
	if len(s.Items) != 2 || s.Total != 4 {
		t.Errorf("items/total = %d/%d, want 2/4", len(s.Items), s.Total)
	}
}

func TestBrowserRemoveKeepsPageWhenNotLast(t *testing.T) {
	repo := newMockDocumentRepo()
	seedDocuments(t, repo, 5)
	b := NewBrowser(NewService(repo), 2, WithDebounce(5*time.Millisecond))
	defer b.Close()

	b.Refresh()
	s := waitSettled(t, b)
	if s.Page != 1 || len(s.Items) != 2 {
		t.Fatalf("page 1 = %d items on page %d", len(s.Items), s.Page)
	}

	if err := b.Remove(context.Background(), s.Items[0].ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	s = waitSettled(t, b)
	if s.Page != 1 {
		t.Errorf("page = %d, want to stay on 1", s.Page)
	}
	if s.Total != 4 {
		t.Errorf("total = %d, want 4", s.Total)
	}
}

type failingSearchRepo struct {
	*mockDocumentRepo
}

func (f *failingSearchRepo) Search(context.Context, map[string]string, int, int) ([]*Document, int, error) {
	return nil, 0, errors.New("conexão recusada")
}

func TestBrowserSurfacesFetchError(t *testing.T) {
	repo := &failingSearchRepo{newMockDocumentRepo()}
	b := NewBrowser(NewService(repo), 10, WithDebounce(5*time.Millisecond))
	defer b.Close()

	b.Refresh()
	s := waitSettled(t, b)
	if s.Err == "" {
		t.Error("fetch error should surface in the snapshot")
	}
}

func TestBrowserFilterChangeResetsPage(t *testing.T) {
	repo := newMockDocumentRepo()
	seedDocuments(t, repo, 5)
	b := NewBrowser(NewService(repo), 2, WithDebounce(5*time.Millisecond))
	defer b.Close()

	b.SetPage(3)
	waitSettled(t, b)

	b.SetFilters(Filters{Status: "rascunho"})
	s := waitSettled(t, b)
	if s.Page != 1 {
		t.Errorf("page = %d after filter change, want 1", s.Page)
	}
}
