package models

import "time"

type ProductStatus string

const (
	StatusDraft      ProductStatus = "draft"
	StatusPending    ProductStatus = "pending"
	StatusActive     ProductStatus = "active"
	StatusInactive   ProductStatus = "inactive"
	StatusOutOfStock ProductStatus = "out_of_stock"
)

type WeightUnit string

const (
	WeightGram     WeightUnit = "gram"
	WeightKilogram WeightUnit = "kilogram"
	WeightPound    WeightUnit = "pound"
)

const DefaultLowStockThreshold = 5

// Product mirrors the catalog platform's product record. ID is empty until
// the platform assigns one on first save.
type Product struct {
	ID                string         `json:"id,omitempty"`
	VendorID          string         `json:"vendorId,omitempty"`
	Title             string         `json:"title" validate:"required"`
	Slug              string         `json:"slug,omitempty"`
	SKU               string         `json:"sku,omitempty"`
	Description       string         `json:"description,omitempty"`
	ShortDescription  string         `json:"short_description,omitempty"`
	Price             float64        `json:"price" validate:"gt=0"`
	ComparePrice      *float64       `json:"compare_price,omitempty"`
	CostPrice         *float64       `json:"cost_price,omitempty"`
	Quantity          int            `json:"quantity" validate:"gte=0"`
	LowStockThreshold int            `json:"low_stock_threshold,omitempty"`
	Weight            *float64       `json:"weight,omitempty"`
	WeightUnit        WeightUnit     `json:"weight_unit,omitempty" validate:"omitempty,oneof=gram kilogram pound"`
	CategoryID        *string        `json:"category_id,omitempty"`
	Brand             string         `json:"brand,omitempty"`
	Tags              StringList     `json:"tags,omitempty"`
	Status            ProductStatus  `json:"status,omitempty" validate:"omitempty,oneof=draft pending active inactive out_of_stock"`
	IsFeatured        bool           `json:"is_featured,omitempty"`
	SEOTitle          string         `json:"seo_title,omitempty" validate:"max=60"`
	SEODescription    string         `json:"seo_description,omitempty" validate:"max=160"`
	Images            []ProductImage `json:"images,omitempty"`
	CreatedAt         time.Time      `json:"createdAt,omitempty"`
	UpdatedAt         time.Time      `json:"updatedAt,omitempty"`
}

// ProductImage is owned by the platform once persisted. Staged uploads have
// no ID until the create/update transaction commits.
type ProductImage struct {
	ID           string `json:"id,omitempty"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	AltText      string `json:"alt_text,omitempty"`
	IsPrimary    bool   `json:"is_primary"`
}

// PrimaryImage returns the image flagged primary, or nil if none is.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}
