package shopify

// ShopQuery fetches shop identity facts
const ShopQuery = `
query getShop {
  shop {
    myshopifyDomain
    name
    contactEmail
    currencyCode
  }
}
`

// StoreSettingsQuery fetches the merchant's description-generation settings
// from app-owned shop metafields
const StoreSettingsQuery = `
query getStoreSettings {
  shop {
    brandVoice: metafield(namespace: "product_builder", key: "brand_voice") {
      value
    }
    targetAudience: metafield(namespace: "product_builder", key: "target_audience") {
      value
    }
    defaultTone: metafield(namespace: "product_builder", key: "default_tone") {
      value
    }
  }
}
`

// VendorsQuery pages through the shop's distinct vendor names
const VendorsQuery = `
query getVendors($first: Int!, $after: String) {
  shop {
    productVendors(first: $first, after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node
      }
    }
  }
}
`

// ProductTypesQuery pages through the shop's distinct product types
const ProductTypesQuery = `
query getProductTypes($first: Int!, $after: String) {
  shop {
    productTypes(first: $first, after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node
      }
    }
  }
}
`

// VendorProductsQuery pages through one vendor's products, returning only
// each product's type. The query parameter is a search string, e.g.
// vendor:"Acme".
const VendorProductsQuery = `
query getVendorProducts($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        productType
      }
    }
  }
}
`

// VariantsByFieldQueryTemplate finds variants matching a field query, e.g.
// sku:ABC-123 or barcode:0123456789012. The query parameter must be a string
// literal, so the caller builds it with fmt.Sprintf.
const VariantsByFieldQueryTemplate = `
query findVariants {
  productVariants(first: 1, query: "%s") {
    edges {
      node {
        id
        sku
        barcode
        product {
          id
          title
        }
      }
    }
  }
}
`

// ProductByHandleQuery checks whether a handle is already taken
const ProductByHandleQuery = `
query getProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {
    id
    title
  }
}
`
