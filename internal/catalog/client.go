package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"vendorpanel/internal/models"
)

// Doer issues HTTP requests against the catalog platform. Request signing,
// retry and token refresh live behind this interface, outside the core.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for platform calls. Refresh is the
// session collaborator's problem; the client only attaches what it is given.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource for a fixed service credential.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client is the typed boundary over the remote catalog API. Every response
// is normalized into the internal contract before anything downstream sees
// it; no other component branches on response shape.
type Client struct {
	baseURL     string
	assetOrigin string
	http        Doer
	tokens      TokenSource
	logger      *zap.Logger
}

func NewClient(baseURL, assetOrigin string, tokens TokenSource, doer Doer, logger *zap.Logger) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		assetOrigin: strings.TrimRight(assetOrigin, "/"),
		http:        doer,
		tokens:      tokens,
		logger:      logger,
	}
}

// ListQuery carries the listing criteria. Status "all" (or empty) means no
// status filter is sent upstream.
type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
}

const StatusAll = "all"

// ListProducts fetches one page of the vendor's catalog. The platform
// answers in one of three shapes (bare array, nested products array, or an
// envelope without a pagination block); all of them come back as a
// ProductPage and shape ambiguity is never an error.
func (c *Client) ListProducts(ctx context.Context, vendorID string, q ListQuery) (*models.ProductPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	query := url.Values{}
	query.Set("vendorId", vendorID)
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if status := strings.TrimSpace(q.Status); status != "" && status != StatusAll {
		query.Set("status", status)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		query.Set("search", search)
	}

	body, err := c.do(ctx, "list products", http.MethodGet, "/products", query, nil, "")
	if err != nil {
		return nil, err
	}

	page, err := normalizeProductList(body, q.Limit)
	if err != nil {
		return nil, &TransportError{Op: "list products", Err: err}
	}
	for i := range page.Items {
		c.resolveImageURLs(&page.Items[i])
	}

	c.logger.Debug("catalog page fetched",
		zap.String("vendor_id", vendorID),
		zap.Int("page", page.Pagination.Page),
		zap.Int("count", len(page.Items)),
	)
	return page, nil
}

// GetProduct fetches a single product with its nested images, resolving the
// record from either a data or product field. Missing both is NotFound.
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	body, err := c.do(ctx, "get product", http.MethodGet, "/products/"+url.PathEscape(productID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	product, err := decodeProduct("get product", body)
	if err != nil {
		return nil, err
	}
	c.resolveImageURLs(product)
	return product, nil
}

// CreateProduct submits a new product. With staged images the body is
// multipart (JSON draft part plus one binary part per image, upload order
// preserved); primaryIndex marks which upload becomes primary, or pass a
// negative value to leave the choice to the platform.
func (c *Client) CreateProduct(ctx context.Context, vendorID string, draft models.Product, staged []*StagedImage, primaryIndex int) (*models.Product, error) {
	payload, err := productPayload(vendorID, draft, nil)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeProductBody(payload, staged, primaryIndex)
	if err != nil {
		return nil, err
	}

	respBody, err := c.do(ctx, "create product", http.MethodPost, "/products", nil, body, contentType)
	if err != nil {
		return nil, err
	}
	product, err := decodeProduct("create product", respBody)
	if err != nil {
		return nil, err
	}
	c.resolveImageURLs(product)
	c.logger.Info("product created", zap.String("vendor_id", vendorID), zap.String("product_id", product.ID))
	return product, nil
}

// UpdateProduct submits edits to an existing product. deletedImageIDs is
// always included, even empty, so the platform can reconcile the image set.
func (c *Client) UpdateProduct(ctx context.Context, vendorID, productID string, draft models.Product, staged []*StagedImage, deletedImageIDs []string) (*models.Product, error) {
	if deletedImageIDs == nil {
		deletedImageIDs = []string{}
	}
	payload, err := productPayload(vendorID, draft, deletedImageIDs)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeProductBody(payload, staged, -1)
	if err != nil {
		return nil, err
	}

	respBody, err := c.do(ctx, "update product", http.MethodPut, "/products/"+url.PathEscape(productID), nil, body, contentType)
	if err != nil {
		return nil, err
	}
	product, err := decodeProduct("update product", respBody)
	if err != nil {
		return nil, err
	}
	c.resolveImageURLs(product)
	c.logger.Info("product updated", zap.String("vendor_id", vendorID), zap.String("product_id", productID))
	return product, nil
}

// DeleteProduct removes a product from the vendor's catalog.
func (c *Client) DeleteProduct(ctx context.Context, vendorID, productID string) error {
	payload, err := json.Marshal(map[string]string{"vendorId": vendorID})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "delete product", http.MethodDelete, "/products/"+url.PathEscape(productID), nil, bytes.NewReader(payload), "application/json")
	if err == nil {
		c.logger.Info("product deleted", zap.String("vendor_id", vendorID), zap.String("product_id", productID))
	}
	return err
}

// ListCategories fetches the vendor's category options for the organization
// selector. Read-only; the categories themselves are not owned by this core.
func (c *Client) ListCategories(ctx context.Context, vendorID string) ([]models.Category, error) {
	body, err := c.do(ctx, "list categories", http.MethodGet, "/products/vendors/"+url.PathEscape(vendorID)+"/categories", nil, nil, "")
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var categories []models.Category
		if err := json.Unmarshal(trimmed, &categories); err != nil {
			return nil, &TransportError{Op: "list categories", Err: err}
		}
		return categories, nil
	}

	var envelope struct {
		Data       []models.Category `json:"data"`
		Categories []models.Category `json:"categories"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &TransportError{Op: "list categories", Err: err}
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return envelope.Categories, nil
}

/* =======================
   REQUEST PLUMBING
======================= */

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, &TransportError{Op: op, Err: fmt.Errorf("upstream status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return nil, decodeServerValidation(resp.StatusCode, respBody)
	}

	return respBody, nil
}

func decodeServerValidation(status int, body []byte) error {
	serverErr := &ServerValidationError{Status: status, Fields: map[string]string{}}

	var envelope struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		serverErr.Message = envelope.Message
		if serverErr.Message == "" {
			serverErr.Message = envelope.Error
		}
		if envelope.Errors != nil {
			serverErr.Fields = envelope.Errors
		}
	}
	return serverErr
}

func normalizeProductList(body []byte, limit int) (*models.ProductPage, error) {
	page := &models.ProductPage{Items: []models.Product{}}

	trimmed := bytes.TrimSpace(body)
	var pagination *models.Pagination

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Items); err != nil {
			return nil, err
		}
	} else if len(trimmed) > 0 {
		var envelope struct {
			Items      []models.Product   `json:"items"`
			Products   []models.Product   `json:"products"`
			Data       []models.Product   `json:"data"`
			Pagination *models.Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		switch {
		case envelope.Items != nil:
			page.Items = envelope.Items
		case envelope.Products != nil:
			page.Items = envelope.Products
		case envelope.Data != nil:
			page.Items = envelope.Data
		}
		pagination = envelope.Pagination
	}

	if pagination == nil {
		page.Pagination = models.Pagination{
			Page:  1,
			Limit: limit,
			Total: len(page.Items),
			Pages: 1,
		}
		return page, nil
	}

	page.Pagination = *pagination
	if page.Pagination.Limit < 1 {
		page.Pagination.Limit = limit
	}
	if page.Pagination.Pages == 0 && page.Pagination.Total > 0 {
		page.Pagination.Pages = int(math.Ceil(float64(page.Pagination.Total) / float64(page.Pagination.Limit)))
	}
	return page, nil
}

func decodeProduct(op string, body []byte) (*models.Product, error) {
	var envelope struct {
		Data    *models.Product `json:"data"`
		Product *models.Product `json:"product"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	if envelope.Product != nil {
		return envelope.Product, nil
	}

	// Some platform deployments answer with the bare record.
	var product models.Product
	if err := json.Unmarshal(body, &product); err == nil && product.ID != "" {
		return &product, nil
	}

	// Well-formed body carrying neither envelope field nor a record.
	return nil, ErrNotFound
}

func productPayload(vendorID string, draft models.Product, deletedImageIDs []string) (map[string]interface{}, error) {
	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	payload := map[string]interface{}{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	payload["vendorId"] = vendorID
	if deletedImageIDs != nil {
		payload["deletedImages"] = deletedImageIDs
	}
	return payload, nil
}

// encodeProductBody picks the wire format: plain JSON when nothing is
// staged, multipart otherwise, with binary parts in upload order.
func encodeProductBody(payload map[string]interface{}, staged []*StagedImage, primaryIndex int) (io.Reader, string, error) {
	if len(staged) == 0 {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(raw), "application/json", nil
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("product", string(raw)); err != nil {
		return nil, "", err
	}
	if primaryIndex >= 0 {
		if err := writer.WriteField("primaryIndex", strconv.Itoa(primaryIndex)); err != nil {
			return nil, "", err
		}
	}

	for _, image := range staged {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, image.Name))
		if image.MIME != "" {
			header.Set("Content-Type", image.MIME)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

// resolveImageURLs rewrites root-relative image paths against the configured
// asset origin so consumers never branch on URL shape.
func (c *Client) resolveImageURLs(p *models.Product) {
	if c.assetOrigin == "" {
		return
	}
	for i := range p.Images {
		p.Images[i].ImageURL = resolveAssetURL(c.assetOrigin, p.Images[i].ImageURL)
		p.Images[i].ThumbnailURL = resolveAssetURL(c.assetOrigin, p.Images[i].ThumbnailURL)
	}
}

func resolveAssetURL(origin, raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return origin + raw
}
