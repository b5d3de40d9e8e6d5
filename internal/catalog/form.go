package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"vendorpanel/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProductForm holds the raw, string-typed values of the product editor as
// the vendor typed them. Numeric fields are parsed and checked by Product;
// nothing here reaches the network until the violation map comes back empty.
type ProductForm struct {
	Title             string
	SKU               string
	Description       string
	ShortDescription  string
	Price             string
	ComparePrice      string
	CostPrice         string
	Quantity          string
	LowStockThreshold string
	Weight            string
	WeightUnit        string
	CategoryID        string
	Brand             string
	Tags              []string
	Status            string
	IsFeatured        bool
	SEOTitle          string
	SEODescription    string
}

// FormFromProduct hydrates an editor form from a fetched product record.
func FormFromProduct(p models.Product) ProductForm {
	form := ProductForm{
		Title:            p.Title,
		SKU:              p.SKU,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            formatFloat(p.Price),
		Quantity:         strconv.Itoa(p.Quantity),
		WeightUnit:       string(p.WeightUnit),
		Brand:            p.Brand,
		Tags:             append([]string(nil), p.Tags...),
		Status:           string(p.Status),
		IsFeatured:       p.IsFeatured,
		SEOTitle:         p.SEOTitle,
		SEODescription:   p.SEODescription,
	}
	if p.ComparePrice != nil {
		form.ComparePrice = formatFloat(*p.ComparePrice)
	}
	if p.CostPrice != nil {
		form.CostPrice = formatFloat(*p.CostPrice)
	}
	if p.Weight != nil {
		form.Weight = formatFloat(*p.Weight)
	}
	if p.CategoryID != nil {
		form.CategoryID = *p.CategoryID
	}
	if p.LowStockThreshold > 0 {
		form.LowStockThreshold = strconv.Itoa(p.LowStockThreshold)
	}
	return form
}

// Validate returns every field-level violation in the form, keyed by field
// name. An empty map means the form may be submitted.
func (f ProductForm) Validate() map[string]string {
	_, violations := f.Product()
	return violations
}

// Product parses the form into a draft product. The returned map holds one
// message per violated field; the draft is only meaningful when it is empty.
func (f ProductForm) Product() (models.Product, map[string]string) {
	violations := map[string]string{}

	draft := models.Product{
		Title:            strings.TrimSpace(f.Title),
		SKU:              strings.TrimSpace(f.SKU),
		Description:      strings.TrimSpace(f.Description),
		ShortDescription: strings.TrimSpace(f.ShortDescription),
		Brand:            strings.TrimSpace(f.Brand),
		Tags:             models.StringList(f.Tags),
		IsFeatured:       f.IsFeatured,
		SEOTitle:         strings.TrimSpace(f.SEOTitle),
		SEODescription:   strings.TrimSpace(f.SEODescription),
		Status:           models.ProductStatus(strings.TrimSpace(f.Status)),
		WeightUnit:       models.WeightUnit(strings.TrimSpace(f.WeightUnit)),
	}
	if draft.Status == "" {
		draft.Status = models.StatusDraft
	}

	if draft.Title == "" {
		violations["title"] = "title is required"
	}

	if price, ok := parseFloatField(f.Price, "price", "price must be a positive number", violations); ok {
		if price <= 0 {
			violations["price"] = "price must be a positive number"
		}
		draft.Price = price
	}

	if qty := strings.TrimSpace(f.Quantity); qty == "" {
		violations["quantity"] = "quantity must be zero or greater"
	} else if parsed, err := strconv.Atoi(qty); err != nil || parsed < 0 {
		violations["quantity"] = "quantity must be zero or greater"
	} else {
		draft.Quantity = parsed
	}

	draft.LowStockThreshold = models.DefaultLowStockThreshold
	if threshold := strings.TrimSpace(f.LowStockThreshold); threshold != "" {
		parsed, err := strconv.Atoi(threshold)
		if err != nil || parsed < 0 {
			violations["low_stock_threshold"] = "low stock threshold must be zero or greater"
		} else {
			draft.LowStockThreshold = parsed
		}
	}

	if compare, ok := parseOptionalFloat(f.ComparePrice, "compare_price", violations); ok {
		draft.ComparePrice = compare
	}
	if cost, ok := parseOptionalFloat(f.CostPrice, "cost_price", violations); ok {
		draft.CostPrice = cost
	}
	if weight, ok := parseOptionalFloat(f.Weight, "weight", violations); ok {
		draft.Weight = weight
	}

	if category := strings.TrimSpace(f.CategoryID); category != "" {
		draft.CategoryID = &category
	}

	// Strike-through price only makes sense above the selling price.
	if _, priceBad := violations["price"]; !priceBad && draft.ComparePrice != nil && *draft.ComparePrice <= draft.Price {
		violations["compare_price"] = "compare price must be greater than price"
	}

	if err := validate.Struct(draft); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				key, message := violationFor(fe)
				if _, seen := violations[key]; !seen {
					violations[key] = message
				}
			}
		}
	}

	return draft, violations
}

func violationFor(fe validator.FieldError) (string, string) {
	switch fe.StructField() {
	case "Title":
		return "title", "title is required"
	case "Price":
		return "price", "price must be a positive number"
	case "Quantity":
		return "quantity", "quantity must be zero or greater"
	case "SEOTitle":
		return "seo_title", "seo title must be 60 characters or fewer"
	case "SEODescription":
		return "seo_description", "seo description must be 160 characters or fewer"
	case "Status":
		return "status", "invalid status"
	case "WeightUnit":
		return "weight_unit", "invalid weight unit"
	default:
		return strings.ToLower(fe.StructField()), "invalid value"
	}
}

func parseFloatField(raw, key, message string, violations map[string]string) (float64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		violations[key] = message
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		violations[key] = message
		return 0, false
	}
	return parsed, true
}

func parseOptionalFloat(raw, key string, violations map[string]string) (*float64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, true
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		violations[key] = "must be a non-negative number"
		return nil, false
	}
	return &parsed, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
