package catalog

import (
	"context"
	"sync"

	"vendorpanel/internal/models"
)

// Fetcher executes one listing query against the platform.
type Fetcher func(ctx context.Context, q ListQuery) (*models.ProductPage, error)

// QueryEngine owns the listing criteria (status, search, page) and the last
// applied result. Changing status or search resets the page to 1; every
// criteria change bumps a generation counter so that a response belonging to
// superseded criteria is discarded on arrival instead of overwriting fresher
// state. There is no transport-level cancellation; last request wins.
type QueryEngine struct {
	mu    sync.Mutex
	fetch Fetcher

	status string
	search string
	page   int
	limit  int
	gen    uint64

	items      []models.Product
	pagination models.Pagination
}

func NewQueryEngine(fetch Fetcher, limit int) *QueryEngine {
	if limit < 1 {
		limit = 10
	}
	return &QueryEngine{
		fetch:      fetch,
		status:     StatusAll,
		page:       1,
		limit:      limit,
		pagination: models.Pagination{Page: 1, Limit: limit},
	}
}

// SetStatus updates the status filter. Reports whether a reload is needed.
func (e *QueryEngine) SetStatus(status string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if status == e.status {
		return false
	}
	e.status = status
	e.page = 1
	e.gen++
	return true
}

// SetSearch updates the free-text filter. Reports whether a reload is needed.
func (e *QueryEngine) SetSearch(search string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if search == e.search {
		return false
	}
	e.search = search
	e.page = 1
	e.gen++
	return true
}

// SetPage moves to another page without touching the filter criteria. The
// target is clamped to [1, max(pages, 1)]. Reports whether a reload is needed.
func (e *QueryEngine) SetPage(page int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	maxPage := e.pagination.Pages
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if page == e.page {
		return false
	}
	e.page = page
	e.gen++
	return true
}

// Query returns the criteria a reload would use right now.
func (e *QueryEngine) Query() ListQuery {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ListQuery{Page: e.page, Limit: e.limit, Status: e.status, Search: e.search}
}

// Refresh executes the current query and applies the result, unless the
// criteria changed while the request was in flight; a stale response is
// dropped silently. On failure the listing degrades to an empty, zero-total
// page and the error is returned for the caller's notice.
func (e *QueryEngine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	gen := e.gen
	q := ListQuery{Page: e.page, Limit: e.limit, Status: e.status, Search: e.search}
	e.mu.Unlock()

	result, err := e.fetch(ctx, q)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		// Superseded while in flight; a fresher query owns the state now.
		return nil
	}

	if err != nil {
		e.items = nil
		e.pagination = models.Pagination{Page: 1, Limit: e.limit}
		e.page = 1
		return err
	}

	e.items = result.Items
	e.pagination = result.Pagination
	maxPage := e.pagination.Pages
	if maxPage < 1 {
		maxPage = 1
	}
	if e.page > maxPage {
		e.page = maxPage
	}
	e.pagination.Page = e.page
	return nil
}

// Snapshot returns the last applied items and pagination.
func (e *QueryEngine) Snapshot() ([]models.Product, models.Pagination) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Product(nil), e.items...), e.pagination
}
