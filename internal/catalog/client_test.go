package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorpanel/internal/models"
)

func newTestClient(t *testing.T, register func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "https://cdn.example.com", StaticToken("test-token"), srv.Client(), nil)
}

func TestListProductsNormalizesBareArray(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, []models.Product{{ID: "p1"}, {ID: "p2"}})
		})
	})

	page, err := client.ListProducts(context.Background(), "v1", ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, Total: 2, Pages: 1}, page.Pagination)
}

func TestListProductsNormalizesNestedProducts(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"products":   []models.Product{{ID: "p1"}},
				"pagination": gin.H{"page": 2, "limit": 10, "total": 11, "pages": 2},
			})
		})
	})

	page, err := client.ListProducts(context.Background(), "v1", ListQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 11, page.Pagination.Total)
}

func TestListProductsSynthesizesMissingPagination(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"items": []models.Product{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}})
		})
	})

	page, err := client.ListProducts(context.Background(), "v1", ListQuery{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 20, Total: 3, Pages: 1}, page.Pagination)
}

func TestListProductsSendsCriteriaAndAuth(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth string
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products", func(c *gin.Context) {
			gotAuth = c.GetHeader("Authorization")
			gotQuery = map[string]string{
				"vendorId": c.Query("vendorId"),
				"page":     c.Query("page"),
				"limit":    c.Query("limit"),
				"status":   c.Query("status"),
				"search":   c.Query("search"),
			}
			c.JSON(http.StatusOK, []models.Product{})
		})
	})

	_, err := client.ListProducts(context.Background(), "v1", ListQuery{Page: 2, Limit: 5, Status: "active", Search: "shirt"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "v1", gotQuery["vendorId"])
	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "5", gotQuery["limit"])
	assert.Equal(t, "active", gotQuery["status"])
	assert.Equal(t, "shirt", gotQuery["search"])
}

func TestListProductsOmitsStatusAll(t *testing.T) {
	var hasStatus bool
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products", func(c *gin.Context) {
			_, hasStatus = c.GetQuery("status")
			c.JSON(http.StatusOK, []models.Product{})
		})
	})

	_, err := client.ListProducts(context.Background(), "v1", ListQuery{Status: StatusAll})
	require.NoError(t, err)
	assert.False(t, hasStatus)
}

func TestGetProductResolvesDataOrProductField(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products/from-data", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": models.Product{ID: "from-data", Title: "A"}})
		})
		r.GET("/products/from-product", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"product": models.Product{ID: "from-product", Title: "B"}})
		})
		r.GET("/products/neither", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	})

	product, err := client.GetProduct(context.Background(), "from-data")
	require.NoError(t, err)
	assert.Equal(t, "from-data", product.ID)

	product, err = client.GetProduct(context.Background(), "from-product")
	require.NoError(t, err)
	assert.Equal(t, "from-product", product.ID)

	_, err = client.GetProduct(context.Background(), "neither")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductResolvesRelativeImageURLs(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products/p1", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": models.Product{
				ID: "p1",
				Images: []models.ProductImage{
					{ID: "i1", ImageURL: "/uploads/a.jpg"},
					{ID: "i2", ImageURL: "https://elsewhere.example.com/b.jpg"},
				},
			}})
		})
	})

	product, err := client.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/a.jpg", product.Images[0].ImageURL)
	assert.Equal(t, "https://elsewhere.example.com/b.jpg", product.Images[1].ImageURL)
}

func TestCreateProductMultipartBody(t *testing.T) {
	var gotTitle, gotPrimary string
	var gotFiles []string
	client := newTestClient(t, func(r *gin.Engine) {
		r.POST("/products", func(c *gin.Context) {
			require.NoError(t, c.Request.ParseMultipartForm(32<<20))

			var draft models.Product
			require.NoError(t, json.Unmarshal([]byte(c.PostForm("product")), &draft))
			gotTitle = draft.Title
			gotPrimary = c.PostForm("primaryIndex")
			for _, header := range c.Request.MultipartForm.File["images"] {
				gotFiles = append(gotFiles, header.Filename)
			}
			c.JSON(http.StatusCreated, gin.H{"product": models.Product{ID: "new-1", Title: draft.Title}})
		})
	})

	staged := []*StagedImage{
		{Name: "first.png", MIME: "image/png", Data: pngBytes(0)},
		{Name: "second.png", MIME: "image/png", Data: pngBytes(0)},
	}
	product, err := client.CreateProduct(context.Background(), "v1", models.Product{Title: "Shirt", Price: 10, Quantity: 1}, staged, 0)
	require.NoError(t, err)

	assert.Equal(t, "new-1", product.ID)
	assert.Equal(t, "Shirt", gotTitle)
	assert.Equal(t, "0", gotPrimary, "first upload must be signaled primary by index")
	assert.Equal(t, []string{"first.png", "second.png"}, gotFiles, "binary parts must keep upload order")
}

func TestCreateProductPlainJSONWithoutImages(t *testing.T) {
	var gotContentType string
	var gotBody map[string]interface{}
	client := newTestClient(t, func(r *gin.Engine) {
		r.POST("/products", func(c *gin.Context) {
			gotContentType = c.GetHeader("Content-Type")
			require.NoError(t, c.ShouldBindJSON(&gotBody))
			c.JSON(http.StatusCreated, gin.H{"product": models.Product{ID: "new-2"}})
		})
	})

	_, err := client.CreateProduct(context.Background(), "v1", models.Product{Title: "Shirt", Price: 10}, nil, -1)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "v1", gotBody["vendorId"])
	assert.Equal(t, "Shirt", gotBody["title"])
}

func TestUpdateProductAlwaysSendsDeletedImages(t *testing.T) {
	var gotBody map[string]interface{}
	client := newTestClient(t, func(r *gin.Engine) {
		r.PUT("/products/p1", func(c *gin.Context) {
			require.NoError(t, c.ShouldBindJSON(&gotBody))
			c.JSON(http.StatusOK, gin.H{"product": models.Product{ID: "p1"}})
		})
	})

	_, err := client.UpdateProduct(context.Background(), "v1", "p1", models.Product{Title: "Shirt", Price: 10}, nil, nil)
	require.NoError(t, err)

	deleted, ok := gotBody["deletedImages"].([]interface{})
	require.True(t, ok, "deletedImages must be present even when empty")
	assert.Empty(t, deleted)
}

func TestDeleteProductSendsVendorBody(t *testing.T) {
	var gotBody map[string]string
	client := newTestClient(t, func(r *gin.Engine) {
		r.DELETE("/products/p1", func(c *gin.Context) {
			require.NoError(t, c.ShouldBindJSON(&gotBody))
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})
	})

	require.NoError(t, client.DeleteProduct(context.Background(), "v1", "p1"))
	assert.Equal(t, "v1", gotBody["vendorId"])
}

func TestClientErrorTaxonomy(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products/unauthorized", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
		})
		r.GET("/products/missing", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
		r.GET("/products/invalid", func(c *gin.Context) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "validation failed",
				"errors":  gin.H{"price": "must be positive"},
			})
		})
		r.GET("/products/broken", func(c *gin.Context) {
			c.String(http.StatusBadGateway, "upstream exploded")
		})
	})

	_, err := client.GetProduct(context.Background(), "unauthorized")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetProduct(context.Background(), "invalid")
	var serverErr *ServerValidationError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusUnprocessableEntity, serverErr.Status)
	assert.Equal(t, "must be positive", serverErr.Fields["price"])

	_, err = client.GetProduct(context.Background(), "broken")
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestGetProductMalformedBodyIsTransportError(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products/garbled", func(c *gin.Context) {
			c.String(http.StatusOK, "<html>definitely not json</html>")
		})
	})

	_, err := client.GetProduct(context.Background(), "garbled")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr, "a body that fails to decode is a transport fault")
	assert.NotErrorIs(t, err, ErrNotFound, "decode failures must not masquerade as missing products")
}

func TestListCategoriesAcceptsBothShapes(t *testing.T) {
	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/products/vendors/v1/categories", func(c *gin.Context) {
			c.JSON(http.StatusOK, []models.Category{{ID: "c1", Name: "Apparel"}})
		})
		r.GET("/products/vendors/v2/categories", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": []models.Category{{ID: "c2", Name: "Footwear"}}})
		})
	})

	categories, err := client.ListCategories(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Apparel", categories[0].Name)

	categories, err = client.ListCategories(context.Background(), "v2")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Footwear", categories[0].Name)
}
