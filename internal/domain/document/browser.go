package document

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smarttermos/termos/pkg/pagination"
)

// Filters is the mutable filter state of a document list.
type Filters struct {
	Search        string
	Status        string
	ProcedureID   string
	PatientID     string
	Comprehension string
	Channel       string
	ExpiresUntil  string
}

func (f Filters) params() map[string]string {
	m := map[string]string{}
	if f.Search != "" {
		m["search"] = f.Search
	}
	if f.Status != "" {
		m["status"] = f.Status
	}
	if f.ProcedureID != "" {
		m["procedure_id"] = f.ProcedureID
	}
	if f.PatientID != "" {
		m["patient_id"] = f.PatientID
	}
	if f.Comprehension != "" {
		m["comprehension"] = f.Comprehension
	}
	if f.Channel != "" {
		m["channel"] = f.Channel
	}
	if f.ExpiresUntil != "" {
		m["expires_until"] = f.ExpiresUntil
	}
	return m
}

// Snapshot is a point-in-time view of the browser state.
type Snapshot struct {
	Items      []*Document
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Loading    bool
	Err        string
}

const defaultDebounce = 300 * time.Millisecond

// Browser drives a filtered, paginated document list. Filter and page
// changes coalesce into one query per debounce window, and a newer query
// cancels the in-flight one, so stale responses never overwrite fresh state.
type Browser struct {
	svc      *Service
	debounce time.Duration

	mu       sync.Mutex
	filters  Filters
	page     int
	pageSize int
	items    []*Document
	total    int
	errMsg   string
	loading  bool

	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64

	onChange func(Snapshot)
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithDebounce overrides the 300ms debounce window.
func WithDebounce(d time.Duration) BrowserOption {
	return func(b *Browser) { b.debounce = d }
}

// WithOnChange registers a callback invoked after every state change.
func WithOnChange(fn func(Snapshot)) BrowserOption {
	return func(b *Browser) { b.onChange = fn }
}

func NewBrowser(svc *Service, pageSize int, opts ...BrowserOption) *Browser {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	b := &Browser{
		svc:      svc,
		debounce: defaultDebounce,
		page:     1,
		pageSize: pageSize,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Snapshot returns the current list state.
func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Browser) snapshotLocked() Snapshot {
	items := make([]*Document, len(b.items))
	copy(items, b.items)
	return Snapshot{
		Items:      items,
		Total:      b.total,
		Page:       b.page,
		PageSize:   b.pageSize,
		TotalPages: pagination.TotalPages(b.total, b.pageSize),
		Loading:    b.loading,
		Err:        b.errMsg,
	}
}

func (b *Browser) notifyLocked() {
	if b.onChange != nil {
		b.onChange(b.snapshotLocked())
	}
}

// SetFilters replaces the filter state, resets to page 1, and schedules a
// debounced fetch.
func (b *Browser) SetFilters(f Filters) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = f
	b.page = 1
	b.scheduleLocked()
}

// SetSearch updates the text filter, resets to page 1, and schedules a
// debounced fetch.
func (b *Browser) SetSearch(q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters.Search = q
	b.page = 1
	b.scheduleLocked()
}

// SetPage moves to the given page and schedules a debounced fetch.
func (b *Browser) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = page
	b.scheduleLocked()
}

// Refresh schedules a fetch of the current page without changing state.
func (b *Browser) Refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scheduleLocked()
}

// scheduleLocked resets the debounce timer; rapid successive changes
// collapse into a single query.
func (b *Browser) scheduleLocked() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.loading = true
	b.timer = time.AfterFunc(b.debounce, b.fetch)
	b.notifyLocked()
}

// fetch runs the query for the state captured at call time. A newer fetch
// bumps the generation and cancels this one's context; its result is
// discarded on arrival.
func (b *Browser) fetch() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.gen++
	gen := b.gen
	params := b.filters.params()
	page := b.page
	limit := b.pageSize
	offset := (page - 1) * b.pageSize
	b.mu.Unlock()

	items, total, err := b.svc.SearchDocuments(ctx, params, limit, offset)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen || ctx.Err() != nil {
		// Superseded by a newer fetch.
		return
	}
	b.loading = false
	if err != nil {
		b.errMsg = err.Error()
		b.notifyLocked()
		return
	}
	b.errMsg = ""
	b.items = items
	b.total = total
	b.notifyLocked()
}

// Create persists the document and optimistically prepends it to the current
// page, bumping the total, before the confirming refetch runs.
func (b *Browser) Create(ctx context.Context, d *Document) error {
	if err := b.svc.CreateDocument(ctx, d); err != nil {
		b.mu.Lock()
		b.errMsg = err.Error()
		b.notifyLocked()
		b.mu.Unlock()
		return err
	}
	b.mu.Lock()
	b.items = append([]*Document{d}, b.items...)
	b.total++
	b.scheduleLocked()
	b.mu.Unlock()
	return nil
}

// Remove deletes the document. If the deleted row was the last item on a
// page beyond the first, the browser steps back one page; either way the
// list refetches.
func (b *Browser) Remove(ctx context.Context, id uuid.UUID) error {
	if err := b.svc.DeleteDocument(ctx, id); err != nil {
		b.mu.Lock()
		b.errMsg = err.Error()
		b.notifyLocked()
		b.mu.Unlock()
		return err
	}
	b.mu.Lock()
	wasLastOnPage := len(b.items) == 1 && b.page > 1
	if wasLastOnPage {
		b.page--
	}
	b.scheduleLocked()
	b.mu.Unlock()
	return nil
}

// Close stops the debounce timer and cancels any in-flight fetch.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
}
