package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vendorpanel/internal/models"
)

// fakeListingClient serves a fixed set of products, two per page, and
// records deletes.
type fakeListingClient struct {
	products []models.Product
	deleted  []string
	listErr  error
}

func (f *fakeListingClient) ListProducts(ctx context.Context, vendorID string, q ListQuery) (*models.ProductPage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	total := len(f.products)
	pages := (total + q.Limit - 1) / q.Limit
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &models.ProductPage{
		Items:      append([]models.Product(nil), f.products[start:end]...),
		Pagination: models.Pagination{Page: q.Page, Limit: q.Limit, Total: total, Pages: pages},
	}, nil
}

func (f *fakeListingClient) DeleteProduct(ctx context.Context, vendorID, productID string) error {
	f.deleted = append(f.deleted, productID)
	for i, p := range f.products {
		if p.ID == productID {
			f.products = append(f.products[:i], f.products[i+1:]...)
			break
		}
	}
	return nil
}

func threeProducts() []models.Product {
	return []models.Product{
		{ID: "p1", Title: "One"},
		{ID: "p2", Title: "Two"},
		{ID: "p3", Title: "Three"},
	}
}

func TestListingLoadRendersPage(t *testing.T) {
	client := &fakeListingClient{products: threeProducts()}
	listing := NewListing(client, "v1", 2, nil, zap.NewNop())

	items, pagination := listing.Load(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 3, pagination.Total)
	assert.Equal(t, 2, pagination.Pages)
}

func TestListingDeleteLastItemOnTrailingPageStepsBack(t *testing.T) {
	client := &fakeListingClient{products: threeProducts()}
	listing := NewListing(client, "v1", 2, nil, zap.NewNop())

	listing.Load(context.Background())
	items, pagination := listing.SetPage(context.Background(), 2)
	require.Len(t, items, 1)
	require.Equal(t, 2, pagination.Page)

	require.NoError(t, listing.Delete(context.Background(), items[0]))

	items, pagination = listing.Engine().Snapshot()
	assert.Equal(t, 1, pagination.Page, "listing must step back instead of rendering an empty page")
	assert.Len(t, items, 2)
	assert.Equal(t, []string{"p3"}, client.deleted)
}

func TestListingDeleteOnFirstPageStaysPut(t *testing.T) {
	client := &fakeListingClient{products: threeProducts()}
	listing := NewListing(client, "v1", 2, nil, zap.NewNop())

	items, _ := listing.Load(context.Background())
	require.NoError(t, listing.Delete(context.Background(), items[0]))

	items, pagination := listing.Engine().Snapshot()
	assert.Equal(t, 1, pagination.Page)
	assert.Len(t, items, 2)
}

func TestListingDeleteRespectsConfirmation(t *testing.T) {
	client := &fakeListingClient{products: threeProducts()}
	listing := NewListing(client, "v1", 2, func(models.Product) bool { return false }, zap.NewNop())

	items, _ := listing.Load(context.Background())
	require.NoError(t, listing.Delete(context.Background(), items[0]))
	assert.Empty(t, client.deleted, "declined confirmation must not delete")
}

func TestListingDegradesToEmptyOnLoadFailure(t *testing.T) {
	client := &fakeListingClient{listErr: errors.New("boom")}
	listing := NewListing(client, "v1", 2, nil, zap.NewNop())

	items, pagination := listing.Load(context.Background())
	assert.Empty(t, items)
	assert.Zero(t, pagination.Total)
}

func TestListingFilterChangeReloadsFromPageOne(t *testing.T) {
	client := &fakeListingClient{products: threeProducts()}
	listing := NewListing(client, "v1", 2, nil, zap.NewNop())

	listing.Load(context.Background())
	listing.SetPage(context.Background(), 2)

	_, pagination := listing.SetFilter(context.Background(), "active", "")
	assert.Equal(t, 1, pagination.Page)
}
