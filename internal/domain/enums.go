package domain

// CacheDataType identifies one logical cached artifact per shop
type CacheDataType string

const (
	// CacheDataTypeVendors - full vendor list for the shop
	CacheDataTypeVendors CacheDataType = "vendors"
	// CacheDataTypeProductTypes - product-type universe plus per-vendor breakdown
	CacheDataTypeProductTypes CacheDataType = "productTypes"
)

// ValidationType identifies which catalog field a validation checks
type ValidationType string

const (
	ValidationTypeSKU     ValidationType = "sku"
	ValidationTypeBarcode ValidationType = "barcode"
	ValidationTypeHandle  ValidationType = "handle"
)

// GenerationStatus represents the outcome of one AI description generation
type GenerationStatus string

const (
	GenerationStatusSucceeded GenerationStatus = "SUCCEEDED"
	GenerationStatusFailed    GenerationStatus = "FAILED"
)
