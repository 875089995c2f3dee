package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(ctxWithQuery(t, ""))
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected page size %d, got %d", DefaultPageSize, p.PageSize)
	}
}

func TestFromContext_Values(t *testing.T) {
	p := FromContext(ctxWithQuery(t, "page=3&page_size=25"))
	if p.Page != 3 || p.PageSize != 25 {
		t.Errorf("unexpected params: %+v", p)
	}
	if p.Offset() != 50 {
		t.Errorf("expected offset 50, got %d", p.Offset())
	}
}

func TestFromContext_ClampsPageSize(t *testing.T) {
	p := FromContext(ctxWithQuery(t, "page_size=5000"))
	if p.PageSize != MaxPageSize {
		t.Errorf("expected clamp to %d, got %d", MaxPageSize, p.PageSize)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 25, Params{Page: 2, PageSize: 10})
	if !r.HasMore {
		t.Error("expected has_more on page 2 of 25")
	}
	r = NewResponse(nil, 25, Params{Page: 3, PageSize: 10})
	if r.HasMore {
		t.Error("expected no more pages after page 3 of 25")
	}
	if r.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", r.TotalPages)
	}
}
