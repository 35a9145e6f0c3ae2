package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bco89/product-builder-pro-sub000/internal/config"
	"github.com/bco89/product-builder-pro-sub000/internal/domain"
)

// newTestClient points a client at an httptest server that answers every
// GraphQL request with the given handler
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.ShopifyConfig{
		ShopDomain:  srv.URL,
		AccessToken: "shpat_test",
		APIVersion:  "2024-10",
	}, nil)
	c.httpClient = srv.Client()
	return c, srv
}

func graphqlData(t *testing.T, w http.ResponseWriter, data string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"data":` + data + `}`)); err != nil {
		t.Errorf("write response: %v", err)
	}
}

func TestVendorsPageParsesConnection(t *testing.T) {
	var gotToken string
	var gotReq GraphQLRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		graphqlData(t, w, `{
			"shop": {
				"productVendors": {
					"pageInfo": {"hasNextPage": true, "endCursor": "abc"},
					"edges": [{"node": "Acme"}, {"node": ""}, {"node": "Zeta"}]
				}
			}
		}`)
	})

	page, err := client.VendorsPage(context.Background(), "")
	if err != nil {
		t.Fatalf("vendors page failed: %v", err)
	}
	if gotToken != "shpat_test" {
		t.Fatalf("access token header %q", gotToken)
	}
	if gotReq.Variables["first"] != float64(pageSize) {
		t.Fatalf("page size variable %v", gotReq.Variables["first"])
	}
	if _, ok := gotReq.Variables["after"]; ok {
		t.Fatal("first page must not send a cursor")
	}

	if !page.HasNextPage || page.EndCursor != "abc" {
		t.Fatalf("pageInfo lost: %+v", page)
	}
	if len(page.Items) != 2 || page.Items[0] != "Acme" || page.Items[1] != "Zeta" {
		t.Fatalf("empty nodes should be dropped: %v", page.Items)
	}
}

func TestVendorsPagePassesCursor(t *testing.T) {
	var gotReq GraphQLRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		graphqlData(t, w, `{"shop": {"productVendors": {"pageInfo": {"hasNextPage": false, "endCursor": ""}, "edges": []}}}`)
	})

	if _, err := client.VendorsPage(context.Background(), "cursor-1"); err != nil {
		t.Fatalf("vendors page failed: %v", err)
	}
	if gotReq.Variables["after"] != "cursor-1" {
		t.Fatalf("cursor not forwarded: %v", gotReq.Variables)
	}
}

func TestExecuteSurfacesGraphQLErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors": [{"message": "Throttled"}]}`))
	})

	_, err := client.VendorsPage(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "Throttled") {
		t.Fatalf("graphQL error not surfaced: %v", err)
	}
}

func TestExecuteSurfacesHTTPFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.VendorsPage(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("HTTP failure not surfaced: %v", err)
	}
}

func TestVendorProductTypesPageScopesQueryToVendor(t *testing.T) {
	var gotReq GraphQLRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		graphqlData(t, w, `{
			"products": {
				"pageInfo": {"hasNextPage": false, "endCursor": ""},
				"edges": [
					{"node": {"productType": "Boots"}},
					{"node": {"productType": ""}}
				]
			}
		}`)
	})

	page, err := client.VendorProductTypesPage(context.Background(), `Acme "Inc"`, "")
	if err != nil {
		t.Fatalf("vendor products page failed: %v", err)
	}
	if gotReq.Variables["query"] != `vendor:"Acme Inc"` {
		t.Fatalf("vendor filter not sanitized: %v", gotReq.Variables["query"])
	}
	if len(page.Items) != 1 || page.Items[0] != "Boots" {
		t.Fatalf("unexpected items: %v", page.Items)
	}
}

func TestFindVariantByFieldReturnsNilWhenFree(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		graphqlData(t, w, `{"productVariants": {"edges": []}}`)
	})

	match, err := client.FindVariantByField(context.Background(), domain.ValidationTypeSKU, "SKU-FREE")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if match != nil {
		t.Fatalf("free value reported a conflict: %+v", match)
	}
}

func TestFindVariantByFieldReturnsFirstMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		graphqlData(t, w, `{
			"productVariants": {
				"edges": [{"node": {
					"id": "gid://shopify/ProductVariant/1",
					"product": {"id": "gid://shopify/Product/2", "title": "Socks"}
				}}]
			}
		}`)
	})

	match, err := client.FindVariantByField(context.Background(), domain.ValidationTypeBarcode, "0123")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if match == nil || match.VariantGID != "gid://shopify/ProductVariant/1" || match.ProductTitle != "Socks" {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestCreateProductSurfacesUserErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		graphqlData(t, w, `{
			"productCreate": {
				"product": null,
				"userErrors": [{"field": ["handle"], "message": "Handle has already been taken"}]
			}
		}`)
	})

	_, err := client.CreateProduct(context.Background(), &domain.ProductDraft{Title: "Socks", Vendor: "Acme"})
	if err == nil || !strings.Contains(err.Error(), "already been taken") {
		t.Fatalf("user errors not surfaced: %v", err)
	}
}

func TestSanitizeQueryValue(t *testing.T) {
	if got := sanitizeQueryValue(` Ac"me\ `); got != "Acme" {
		t.Fatalf("sanitizeQueryValue = %q", got)
	}
}
