package catalog

import (
	"context"

	"go.uber.org/zap"

	"vendorpanel/internal/models"
)

type listingClient interface {
	ListProducts(ctx context.Context, vendorID string, q ListQuery) (*models.ProductPage, error)
	DeleteProduct(ctx context.Context, vendorID, productID string) error
}

// Listing drives the paginated catalog view for one vendor: it owns a query
// engine, issues delete commands behind a confirmation hook, and steps back
// a page when the delete empties a trailing page.
type Listing struct {
	client   listingClient
	engine   *QueryEngine
	vendorID string
	confirm  func(models.Product) bool
	logger   *zap.Logger
}

// NewListing wires a listing for vendorID. confirm guards deletes; a nil
// hook means every delete proceeds.
func NewListing(client listingClient, vendorID string, pageSize int, confirm func(models.Product) bool, logger *zap.Logger) *Listing {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Listing{
		client:   client,
		vendorID: vendorID,
		confirm:  confirm,
		logger:   logger,
	}
	l.engine = NewQueryEngine(func(ctx context.Context, q ListQuery) (*models.ProductPage, error) {
		return client.ListProducts(ctx, vendorID, q)
	}, pageSize)
	return l
}

// Engine exposes the filter/page commands.
func (l *Listing) Engine() *QueryEngine { return l.engine }

// Load refreshes and returns the current page. A failed load never
// propagates: the listing degrades to an empty, zero-total result.
func (l *Listing) Load(ctx context.Context) ([]models.Product, models.Pagination) {
	if err := l.engine.Refresh(ctx); err != nil {
		l.logger.Warn("catalog page load failed, showing empty listing",
			zap.String("vendor_id", l.vendorID),
			zap.Error(err),
		)
	}
	return l.engine.Snapshot()
}

// SetFilter applies new criteria and reloads when they changed.
func (l *Listing) SetFilter(ctx context.Context, status, search string) ([]models.Product, models.Pagination) {
	changed := l.engine.SetStatus(status)
	if l.engine.SetSearch(search) {
		changed = true
	}
	if changed {
		return l.Load(ctx)
	}
	return l.engine.Snapshot()
}

// SetPage navigates to another page of the current criteria.
func (l *Listing) SetPage(ctx context.Context, page int) ([]models.Product, models.Pagination) {
	if l.engine.SetPage(page) {
		return l.Load(ctx)
	}
	return l.engine.Snapshot()
}

// Delete removes a product after confirmation and reloads. Deleting the
// last row of a page beyond the first steps back one page instead of
// rendering an empty page.
func (l *Listing) Delete(ctx context.Context, product models.Product) error {
	if l.confirm != nil && !l.confirm(product) {
		return nil
	}

	if err := l.client.DeleteProduct(ctx, l.vendorID, product.ID); err != nil {
		return err
	}

	items, pagination := l.engine.Snapshot()
	if len(items) == 1 && items[0].ID == product.ID && pagination.Page > 1 {
		l.engine.SetPage(pagination.Page - 1)
	}
	l.Load(ctx)
	return nil
}
