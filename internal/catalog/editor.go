package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"vendorpanel/internal/models"
)

type editorClient interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	CreateProduct(ctx context.Context, vendorID string, draft models.Product, staged []*StagedImage, primaryIndex int) (*models.Product, error)
	UpdateProduct(ctx context.Context, vendorID, productID string, draft models.Product, staged []*StagedImage, deletedImageIDs []string) (*models.Product, error)
}

// Editor orchestrates one create/update transaction: form validation gates
// the network call, the slug and SKU fallbacks fill derived fields, and the
// image set travels with the draft. Submission is single-flight; the form
// survives any failed call so no typed work is lost.
type Editor struct {
	client   editorClient
	vendorID string
	logger   *zap.Logger

	productID string
	Form      ProductForm
	Images    *ImageSet

	mu   sync.Mutex
	busy bool
}

// NewEditor opens the editor in add mode: empty draft, draft status, no
// images.
func NewEditor(client editorClient, vendorID string, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		client:   client,
		vendorID: vendorID,
		logger:   logger,
		Form:     ProductForm{Status: string(models.StatusDraft)},
		Images:   NewImageSet(nil),
	}
}

// Load switches the editor to edit mode for productID. A NotFound error is
// returned as-is so the caller can present an error state instead of a form.
func (ed *Editor) Load(ctx context.Context, productID string) error {
	product, err := ed.client.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	ed.productID = product.ID
	if ed.productID == "" {
		ed.productID = productID
	}
	ed.Form = FormFromProduct(*product)
	ed.Images = NewImageSet(product.Images)
	return nil
}

// IsEdit reports whether the editor is bound to a persisted product.
func (ed *Editor) IsEdit() bool { return ed.productID != "" }

// Busy reports whether a submission is outstanding; the only externally
// observable effect of a pending call.
func (ed *Editor) Busy() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.busy
}

// Close releases preview resources held by the image set.
func (ed *Editor) Close() {
	ed.Images.ReleasePreviews()
}

// Submit validates the draft and, when clean, runs the create or update
// transaction. A non-empty violation map blocks the network call entirely.
// While a submission is outstanding, further submits fail with
// ErrSubmitInFlight so a double click cannot create duplicates.
func (ed *Editor) Submit(ctx context.Context) (*models.Product, map[string]string, error) {
	ed.mu.Lock()
	if ed.busy {
		ed.mu.Unlock()
		return nil, nil, ErrSubmitInFlight
	}
	ed.busy = true
	ed.mu.Unlock()
	defer func() {
		ed.mu.Lock()
		ed.busy = false
		ed.mu.Unlock()
	}()

	draft, violations := ed.Form.Product()
	if len(violations) > 0 {
		return nil, violations, nil
	}

	draft.Slug = Slugify(draft.Title)
	if draft.SKU == "" {
		draft.SKU = FallbackSKU()
	}

	staged := ed.Images.Staged()

	if !ed.IsEdit() {
		// Fresh product: the first upload becomes primary unless a primary
		// already exists, which cannot happen here.
		primaryIndex := -1
		if len(staged) > 0 && ed.Images.PrimaryID() == "" {
			primaryIndex = 0
		}
		product, err := ed.client.CreateProduct(ctx, ed.vendorID, draft, staged, primaryIndex)
		if err != nil {
			return nil, nil, err
		}
		ed.productID = product.ID
		ed.Images.ReleasePreviews()
		ed.logger.Info("product draft persisted",
			zap.String("vendor_id", ed.vendorID),
			zap.String("product_id", product.ID),
		)
		return product, nil, nil
	}

	draft.ID = ed.productID
	draft.Images = ed.Images.Existing()
	product, err := ed.client.UpdateProduct(ctx, ed.vendorID, ed.productID, draft, staged, ed.Images.DeletedIDs())
	if err != nil {
		return nil, nil, err
	}
	ed.Images.ReleasePreviews()
	ed.Images = NewImageSet(product.Images)
	return product, nil, nil
}
