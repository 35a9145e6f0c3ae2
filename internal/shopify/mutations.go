package shopify

// ProductCreateMutation creates a product with its first variant
const ProductCreateMutation = `
mutation createProduct($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      title
      handle
      status
    }
    userErrors {
      field
      message
    }
  }
}
`
