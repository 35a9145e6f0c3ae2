package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShopCacheEntry is one durable cache row, unique per (shop_domain, data_type)
type ShopCacheEntry struct {
	ShopDomain string
	DataType   CacheDataType
	Payload    []byte // serialized cache envelope, opaque to the repository
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VendorCache is the payload stored under the "vendors" data type
type VendorCache struct {
	Vendors      []string  `json:"vendors"`
	TotalVendors int       `json:"totalVendors"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// ProductTypeCache is the payload stored under the "productTypes" data type.
// AllTypes is the de-duplicated universe across the shop; ByVendor holds the
// types seen on each vendor's own products.
type ProductTypeCache struct {
	AllTypes    []string            `json:"allTypes"`
	ByVendor    map[string][]string `json:"productTypesByVendor"`
	LastUpdated time.Time           `json:"lastUpdated"`
}

// ShopIdentity holds shop facts that never change within a session
type ShopIdentity struct {
	Domain       string
	Name         string
	Email        string
	CurrencyCode string
}

// StoreSettings holds merchant-configured settings used for description generation
type StoreSettings struct {
	BrandVoice     string
	TargetAudience string
	DefaultTone    string
}

// ValidationResult is the outcome of checking one value against the catalog
type ValidationResult struct {
	Type        ValidationType
	Value       string
	Available   bool
	ConflictGID string // Shopify GID of the product/variant already using the value
	CheckedAt   time.Time
}

// ProductDraft is the wizard input for creating a product
type ProductDraft struct {
	Title           string   `json:"title"`
	Handle          string   `json:"handle"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Tags            []string `json:"tags"`
	SKU             string   `json:"sku"`
	Barcode         string   `json:"barcode"`
	Price           string   `json:"price"`
}

// CreatedProduct is returned after a successful productCreate mutation
type CreatedProduct struct {
	GID    string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
	Status string `json:"status"`
}

// ProductExtract is structured data scraped from a reference URL
type ProductExtract struct {
	SourceURL   string   `json:"sourceUrl"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Vendor      string   `json:"vendor"`
	ProductType string   `json:"productType"`
	Price       string   `json:"price"`
	ImageURLs   []string `json:"imageUrls"`
	Features    []string `json:"features"`
}

// DescriptionRequest is the input for AI description generation
type DescriptionRequest struct {
	ProductTitle string   `json:"productTitle"`
	ProductType  string   `json:"productType"`
	Vendor       string   `json:"vendor"`
	Keywords     []string `json:"keywords"`
	Tone         string   `json:"tone"`
}

// GeneratedDescription is the AI output plus provenance
type GeneratedDescription struct {
	DescriptionHTML string `json:"descriptionHtml"`
	SEOTitle        string `json:"seoTitle"`
	SEODescription  string `json:"seoDescription"`
	Model           string `json:"model"`
}

// GenerationLog is one audit row per AI generation attempt
type GenerationLog struct {
	ID           uuid.UUID
	ShopDomain   string
	ProductTitle string
	ProductType  string
	Model        string
	Status       GenerationStatus
	ErrorMessage *string
	DurationMS   int64
	CreatedAt    time.Time
}
