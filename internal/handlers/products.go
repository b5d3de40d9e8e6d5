package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vendorpanel/internal/cache"
	"vendorpanel/internal/catalog"
	"vendorpanel/internal/models"
)

// ProductHandler exposes the vendor's catalog operations to the dashboard,
// proxying them through the typed catalog client. redisClient may be nil;
// caching is then skipped entirely.
type ProductHandler struct {
	client      *catalog.Client
	redisClient *redis.Client
	logger      *zap.Logger
	cacheTTL    time.Duration
	pageSize    int
}

func NewProductHandler(client *catalog.Client, redisClient *redis.Client, logger *zap.Logger, cacheTTL time.Duration, pageSize int) *ProductHandler {
	if pageSize < 1 {
		pageSize = 10
	}
	return &ProductHandler{
		client:      client,
		redisClient: redisClient,
		logger:      logger,
		cacheTTL:    cacheTTL,
		pageSize:    pageSize,
	}
}

/* =======================
   LIST
======================= */

func (h *ProductHandler) List(c *gin.Context) {
	const route = "GET /panel/products"
	defer handlePanic(c, h.logger, route)

	page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"), h.pageSize)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.client.ListProducts(c.Request.Context(), vendorFrom(c), catalog.ListQuery{
		Page:   page,
		Limit:  limit,
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondCatalogError(c, h.logger, route, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       result.Items,
		"pagination": result.Pagination,
	})
}

/* =======================
   GET
======================= */

func (h *ProductHandler) Get(c *gin.Context) {
	const route = "GET /panel/products/:id"
	defer handlePanic(c, h.logger, route)

	id := c.Param("id")
	ctx := c.Request.Context()

	if h.redisClient != nil {
		if cached, err := cache.GetProduct(ctx, h.redisClient, id); err == nil {
			var product models.Product
			if err := json.Unmarshal(cached, &product); err == nil {
				c.JSON(http.StatusOK, gin.H{"data": product})
				return
			}
		}
	}

	product, err := h.client.GetProduct(ctx, id)
	if err != nil {
		respondCatalogError(c, h.logger, route, err)
		return
	}

	if h.redisClient != nil {
		_ = cache.SetProduct(ctx, h.redisClient, id, product, h.cacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

/* =======================
   CREATE
======================= */

func (h *ProductHandler) Create(c *gin.Context) {
	const route = "POST /panel/products"
	defer handlePanic(c, h.logger, route)

	intake, err := parseProductRequest(c)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	editor := catalog.NewEditor(h.client, vendorFrom(c), h.logger)
	defer editor.Close()
	editor.Form = intake.Form

	rejected := editor.Images.AddStaged(intake.Staged...)

	product, violations, err := editor.Submit(c.Request.Context())
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": violations})
		return
	}
	if err != nil {
		respondCatalogError(c, h.logger, route, err)
		return
	}

	response := gin.H{"data": product}
	if len(rejected) > 0 {
		response["warnings"] = rejected
	}
	c.JSON(http.StatusCreated, response)
}

/* =======================
   UPDATE
======================= */

func (h *ProductHandler) Update(c *gin.Context) {
	const route = "PUT /panel/products/:id"
	defer handlePanic(c, h.logger, route)

	id := c.Param("id")
	ctx := c.Request.Context()

	intake, err := parseProductRequest(c)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	editor := catalog.NewEditor(h.client, vendorFrom(c), h.logger)
	defer editor.Close()

	if err := editor.Load(ctx, id); err != nil {
		respondCatalogError(c, h.logger, route, err)
		return
	}

	loaded := editor.Form
	editor.Form = intake.Form
	// An update that omits status must not demote the product to draft.
	if editor.Form.Status == "" {
		editor.Form.Status = loaded.Status
	}
	for _, imageID := range intake.DeletedImages {
		editor.Images.RemoveExisting(imageID)
	}
	if intake.PrimaryImageID != "" {
		editor.Images.SetPrimary(intake.PrimaryImageID)
	}
	rejected := editor.Images.AddStaged(intake.Staged...)

	product, violations, err := editor.Submit(ctx)
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": violations})
		return
	}
	if err != nil {
		respondCatalogError(c, h.logger, route, err)
		return
	}

	if h.redisClient != nil {
		_ = cache.DeleteProduct(ctx, h.redisClient, id)
	}

	response := gin.H{"data": product}
	if len(rejected) > 0 {
		response["warnings"] = rejected
	}
	c.JSON(http.StatusOK, response)
}

/* =======================
   DELETE
======================= */

func (h *ProductHandler) Delete(c *gin.Context) {
	const route = "DELETE /panel/products/:id"
	defer handlePanic(c, h.logger, route)

	id := c.Param("id")
	ctx := c.Request.Context()

	if err := h.client.DeleteProduct(ctx, vendorFrom(c), id); err != nil {
		respondCatalogError(c, h.logger, route, err)
		return
	}

	if h.redisClient != nil {
		_ = cache.DeleteProduct(ctx, h.redisClient, id)
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
