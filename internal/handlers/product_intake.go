package handlers

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vendorpanel/internal/catalog"
	"vendorpanel/internal/models"
)

// productIntake is the decoded editor submission, whichever wire format the
// dashboard used.
type productIntake struct {
	Form           catalog.ProductForm
	Staged         []catalog.StagedImage
	DeletedImages  []string
	PrimaryImageID string
}

/* =======================
   MULTIPART PARSER
======================= */

func parseMultipartProductRequest(c *gin.Context) (productIntake, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return productIntake{}, err
	}

	intake := productIntake{}
	form := &intake.Form

	// ---- STRING FIELDS ----

	form.Title = strings.TrimSpace(c.PostForm("title"))
	form.SKU = strings.TrimSpace(c.PostForm("sku"))
	form.Description = c.PostForm("description")
	form.ShortDescription = c.PostForm("short_description")
	form.Brand = strings.TrimSpace(c.PostForm("brand"))
	form.CategoryID = strings.TrimSpace(c.PostForm("category_id"))
	form.Status = strings.TrimSpace(c.PostForm("status"))
	form.WeightUnit = strings.TrimSpace(c.PostForm("weight_unit"))
	form.SEOTitle = strings.TrimSpace(c.PostForm("seo_title"))
	form.SEODescription = strings.TrimSpace(c.PostForm("seo_description"))

	// ---- NUMBER FIELDS (kept raw; the form validator owns parsing) ----

	form.Price = c.PostForm("price")
	form.ComparePrice = c.PostForm("compare_price")
	form.CostPrice = c.PostForm("cost_price")
	form.Quantity = c.PostForm("quantity")
	form.LowStockThreshold = c.PostForm("low_stock_threshold")
	form.Weight = c.PostForm("weight")

	// ---- BOOL FIELDS ----

	if value, ok := c.GetPostForm("is_featured"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return productIntake{}, err
		}
		form.IsFeatured = parsed
	}

	// ---- TAGS ----

	form.Tags = splitListField(c.PostFormArray("tags"))

	// ---- IMAGE RECONCILIATION FIELDS ----

	intake.DeletedImages = splitListField(c.PostFormArray("deletedImages"))
	intake.PrimaryImageID = strings.TrimSpace(c.PostForm("primaryImageId"))

	// ---- IMAGE FILES ----

	if c.Request.MultipartForm != nil {
		for _, header := range c.Request.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				return productIntake{}, err
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return productIntake{}, err
			}
			intake.Staged = append(intake.Staged, catalog.StagedImage{
				Name: header.Filename,
				Data: data,
			})
		}
	}

	return intake, nil
}

// splitListField accepts repeated form values, a single JSON array value, or
// a comma-joined value. Dashboards disagree on which one they send.
func splitListField(values []string) []string {
	if len(values) == 1 {
		single := strings.TrimSpace(values[0])
		if strings.HasPrefix(single, "[") {
			var decoded []string
			if err := json.Unmarshal([]byte(single), &decoded); err == nil {
				values = decoded
			}
		} else if strings.Contains(single, ",") {
			values = strings.Split(single, ",")
		}
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}

/* =======================
   JSON PARSER
======================= */

type productRequest struct {
	Title             string            `json:"title"`
	SKU               string            `json:"sku"`
	Description       string            `json:"description"`
	ShortDescription  string            `json:"short_description"`
	Price             *float64          `json:"price"`
	ComparePrice      *float64          `json:"compare_price"`
	CostPrice         *float64          `json:"cost_price"`
	Quantity          *int              `json:"quantity"`
	LowStockThreshold *int              `json:"low_stock_threshold"`
	Weight            *float64          `json:"weight"`
	WeightUnit        string            `json:"weight_unit"`
	CategoryID        string            `json:"category_id"`
	Brand             string            `json:"brand"`
	Tags              models.StringList `json:"tags"`
	Status            string            `json:"status"`
	IsFeatured        bool              `json:"is_featured"`
	SEOTitle          string            `json:"seo_title"`
	SEODescription    string            `json:"seo_description"`
	DeletedImages     []string          `json:"deletedImages"`
	PrimaryImageID    string            `json:"primary_image_id"`
}

func parseJSONProductRequest(c *gin.Context) (productIntake, error) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return productIntake{}, err
	}

	intake := productIntake{
		DeletedImages:  req.DeletedImages,
		PrimaryImageID: strings.TrimSpace(req.PrimaryImageID),
		Form: catalog.ProductForm{
			Title:            req.Title,
			SKU:              req.SKU,
			Description:      req.Description,
			ShortDescription: req.ShortDescription,
			WeightUnit:       req.WeightUnit,
			CategoryID:       req.CategoryID,
			Brand:            req.Brand,
			Tags:             req.Tags,
			Status:           req.Status,
			IsFeatured:       req.IsFeatured,
			SEOTitle:         req.SEOTitle,
			SEODescription:   req.SEODescription,
		},
	}

	if req.Price != nil {
		intake.Form.Price = formatFloat(*req.Price)
	}
	if req.ComparePrice != nil {
		intake.Form.ComparePrice = formatFloat(*req.ComparePrice)
	}
	if req.CostPrice != nil {
		intake.Form.CostPrice = formatFloat(*req.CostPrice)
	}
	if req.Weight != nil {
		intake.Form.Weight = formatFloat(*req.Weight)
	}
	if req.Quantity != nil {
		intake.Form.Quantity = strconv.Itoa(*req.Quantity)
	}
	if req.LowStockThreshold != nil {
		intake.Form.LowStockThreshold = strconv.Itoa(*req.LowStockThreshold)
	}

	return intake, nil
}

func parseProductRequest(c *gin.Context) (productIntake, error) {
	if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		return parseMultipartProductRequest(c)
	}
	return parseJSONProductRequest(c)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
