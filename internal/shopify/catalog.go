package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bco89/product-builder-pro-sub000/internal/cache"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

// pageSize is the Admin API maximum for connection pages
const pageSize = 250

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type stringConnection struct {
	PageInfo pageInfo `json:"pageInfo"`
	Edges    []struct {
		Node string `json:"node"`
	} `json:"edges"`
}

// VendorsPage fetches one page of the shop's vendor listing
func (c *Client) VendorsPage(ctx context.Context, cursor string) (*cache.Page, error) {
	resp, err := c.Execute(ctx, VendorsQuery, paginationVars(cursor))
	if err != nil {
		return nil, err
	}

	var data struct {
		Shop struct {
			ProductVendors stringConnection `json:"productVendors"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse vendors page: %w", err)
	}
	return connectionToPage(data.Shop.ProductVendors), nil
}

// ProductTypesPage fetches one page of the shop's product-type listing
func (c *Client) ProductTypesPage(ctx context.Context, cursor string) (*cache.Page, error) {
	resp, err := c.Execute(ctx, ProductTypesQuery, paginationVars(cursor))
	if err != nil {
		return nil, err
	}

	var data struct {
		Shop struct {
			ProductTypes stringConnection `json:"productTypes"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse product types page: %w", err)
	}
	return connectionToPage(data.Shop.ProductTypes), nil
}

// VendorProductTypesPage fetches one page of product types scoped to a single
// vendor's products
func (c *Client) VendorProductTypesPage(ctx context.Context, vendor, cursor string) (*cache.Page, error) {
	vars := paginationVars(cursor)
	vars["query"] = fmt.Sprintf("vendor:%q", sanitizeQueryValue(vendor))

	resp, err := c.Execute(ctx, VendorProductsQuery, vars)
	if err != nil {
		return nil, err
	}

	var data struct {
		Products struct {
			PageInfo pageInfo `json:"pageInfo"`
			Edges    []struct {
				Node struct {
					ProductType string `json:"productType"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse vendor products page: %w", err)
	}

	page := &cache.Page{
		HasNextPage: data.Products.PageInfo.HasNextPage,
		EndCursor:   data.Products.PageInfo.EndCursor,
	}
	for _, edge := range data.Products.Edges {
		if edge.Node.ProductType != "" {
			page.Items = append(page.Items, edge.Node.ProductType)
		}
	}
	return page, nil
}

// GetShopIdentity fetches the shop's identity facts
func (c *Client) GetShopIdentity(ctx context.Context) (*domain.ShopIdentity, error) {
	resp, err := c.Execute(ctx, ShopQuery, nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		Shop struct {
			MyshopifyDomain string `json:"myshopifyDomain"`
			Name            string `json:"name"`
			ContactEmail    string `json:"contactEmail"`
			CurrencyCode    string `json:"currencyCode"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse shop: %w", err)
	}

	return &domain.ShopIdentity{
		Domain:       data.Shop.MyshopifyDomain,
		Name:         data.Shop.Name,
		Email:        data.Shop.ContactEmail,
		CurrencyCode: data.Shop.CurrencyCode,
	}, nil
}

// GetStoreSettings fetches the merchant's description settings; metafields
// the merchant never set come back as zero values
func (c *Client) GetStoreSettings(ctx context.Context) (*domain.StoreSettings, error) {
	resp, err := c.Execute(ctx, StoreSettingsQuery, nil)
	if err != nil {
		return nil, err
	}

	type metafield struct {
		Value string `json:"value"`
	}
	var data struct {
		Shop struct {
			BrandVoice     *metafield `json:"brandVoice"`
			TargetAudience *metafield `json:"targetAudience"`
			DefaultTone    *metafield `json:"defaultTone"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse store settings: %w", err)
	}

	settings := &domain.StoreSettings{}
	if data.Shop.BrandVoice != nil {
		settings.BrandVoice = data.Shop.BrandVoice.Value
	}
	if data.Shop.TargetAudience != nil {
		settings.TargetAudience = data.Shop.TargetAudience.Value
	}
	if data.Shop.DefaultTone != nil {
		settings.DefaultTone = data.Shop.DefaultTone.Value
	}
	return settings, nil
}

// VariantMatch is an existing variant that conflicts with a candidate value
type VariantMatch struct {
	VariantGID   string
	ProductGID   string
	ProductTitle string
}

// FindVariantByField finds at most one variant whose sku or barcode matches
// value. Returns (nil, nil) when the value is unused.
func (c *Client) FindVariantByField(ctx context.Context, field domain.ValidationType, value string) (*VariantMatch, error) {
	query := fmt.Sprintf(VariantsByFieldQueryTemplate,
		fmt.Sprintf("%s:%s", string(field), sanitizeQueryValue(value)))

	resp, err := c.Execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		ProductVariants struct {
			Edges []struct {
				Node struct {
					ID      string `json:"id"`
					Product struct {
						ID    string `json:"id"`
						Title string `json:"title"`
					} `json:"product"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"productVariants"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse variants: %w", err)
	}

	if len(data.ProductVariants.Edges) == 0 {
		return nil, nil
	}
	node := data.ProductVariants.Edges[0].Node
	return &VariantMatch{
		VariantGID:   node.ID,
		ProductGID:   node.Product.ID,
		ProductTitle: node.Product.Title,
	}, nil
}

// FindProductByHandle returns the GID of the product using handle, or empty
// when the handle is free
func (c *Client) FindProductByHandle(ctx context.Context, handle string) (string, error) {
	resp, err := c.Execute(ctx, ProductByHandleQuery, map[string]interface{}{"handle": handle})
	if err != nil {
		return "", err
	}

	var data struct {
		ProductByHandle *struct {
			ID string `json:"id"`
		} `json:"productByHandle"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse product by handle: %w", err)
	}
	if data.ProductByHandle == nil {
		return "", nil
	}
	return data.ProductByHandle.ID, nil
}

// CreateProduct runs the productCreate mutation for a wizard draft
func (c *Client) CreateProduct(ctx context.Context, draft *domain.ProductDraft) (*domain.CreatedProduct, error) {
	input := map[string]interface{}{
		"title":           draft.Title,
		"vendor":          draft.Vendor,
		"productType":     draft.ProductType,
		"descriptionHtml": draft.DescriptionHTML,
	}
	if draft.Handle != "" {
		input["handle"] = draft.Handle
	}
	if len(draft.Tags) > 0 {
		input["tags"] = draft.Tags
	}

	resp, err := c.Execute(ctx, ProductCreateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return nil, err
	}

	var data struct {
		ProductCreate struct {
			Product    *domain.CreatedProduct `json:"product"`
			UserErrors []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"productCreate"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse productCreate: %w", err)
	}

	if len(data.ProductCreate.UserErrors) > 0 {
		messages := make([]string, len(data.ProductCreate.UserErrors))
		for i, ue := range data.ProductCreate.UserErrors {
			messages[i] = ue.Message
		}
		return nil, fmt.Errorf("productCreate user errors: %s", strings.Join(messages, "; "))
	}
	if data.ProductCreate.Product == nil {
		return nil, fmt.Errorf("productCreate returned no product")
	}
	return data.ProductCreate.Product, nil
}

func paginationVars(cursor string) map[string]interface{} {
	vars := map[string]interface{}{"first": pageSize}
	if cursor != "" {
		vars["after"] = cursor
	}
	return vars
}

func connectionToPage(conn stringConnection) *cache.Page {
	page := &cache.Page{
		HasNextPage: conn.PageInfo.HasNextPage,
		EndCursor:   conn.PageInfo.EndCursor,
	}
	for _, edge := range conn.Edges {
		if edge.Node != "" {
			page.Items = append(page.Items, edge.Node)
		}
	}
	return page
}

// sanitizeQueryValue strips characters that would break out of a Shopify
// search query string literal
func sanitizeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `"`, "")
	v = strings.ReplaceAll(v, `\`, "")
	return strings.TrimSpace(v)
}
