package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benschg/klara-shop/internal/address"
	"github.com/benschg/klara-shop/internal/cart"
	"github.com/benschg/klara-shop/internal/catalog"
	"github.com/benschg/klara-shop/internal/checkout"
	"github.com/benschg/klara-shop/internal/order"
	"github.com/benschg/klara-shop/internal/storage"
)

// newTestServer wires the full API against an in-memory snapshot store and a
// stub upstream catalog.
func newTestServer(t *testing.T) (*httptest.Server, *cart.Store, *checkout.Store) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/variants"):
			w.Write([]byte(`[{"id":"v1","variantOptionValues":["M"],"pricePeriods":[{"price":39.9}]}]`))
		case strings.HasSuffix(r.URL.Path, "/article-categories"):
			w.Write([]byte(`[{"id":"c1","nameDE":"Blumen"}]`))
		default:
			w.Write([]byte(`[{"id":"a1","nameDE":"Rosenstrauss","articleNumber":"R-1","accountingTags":["Blumen"]}]`))
		}
	}))
	t.Cleanup(upstream.Close)

	catalogClient := catalog.NewClient(upstream.URL, "test-key")
	cartStore := cart.NewStore(storage.NewMemoryStore(), nil, nil)
	checkoutStore := checkout.NewStore(storage.NewMemoryStore())
	orderService := order.NewService(cartStore, checkoutStore, nil)
	addressClient := address.NewClient(upstream.URL)

	handlers := NewHandlers(catalogClient, cartStore, checkoutStore, orderService, addressClient)
	server := httptest.NewServer(NewRouter(handlers, ""))
	t.Cleanup(server.Close)

	return server, cartStore, checkoutStore
}

func doJSON(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ============================================
// Catalog Endpoint Tests
// ============================================

func TestAPI_GetArticles(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/articles")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	articles := decode[[]catalog.Article](t, resp)
	require.Len(t, articles, 1)
	assert.Equal(t, "Rosenstrauss", articles[0].NameDE)
}

func TestAPI_GetArticleVariants(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/articles/a1/variants")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	variants := decode[[]catalog.Variant](t, resp)
	require.Len(t, variants, 1)
	assert.Equal(t, "v1", variants[0].ID)
}

func TestAPI_ResolveVariant(t *testing.T) {
	server, _, _ := newTestServer(t)

	article := `{"id":"a1","hasVariant":true,"options":[{"name":"Grösse","values":["S","M"]}]}`

	// No selection yet: only values occurring in a variant are offered and
	// the article stays blocked from the cart.
	resp := doJSON(t, http.MethodPost, server.URL+"/articles/a1/resolve-variant",
		`{"article":`+article+`,"selection":{}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	type resolution struct {
		DataUnavailable bool                `json:"data_unavailable"`
		AvailableValues map[string][]string `json:"available_values"`
		SelectedVariant *catalog.Variant    `json:"selected_variant"`
		EffectivePrice  *float64            `json:"effective_price"`
		CanAddToCart    bool                `json:"can_add_to_cart"`
	}
	open := decode[resolution](t, resp)
	assert.False(t, open.DataUnavailable)
	assert.Equal(t, []string{"M"}, open.AvailableValues["Grösse"])
	assert.Nil(t, open.SelectedVariant)
	assert.False(t, open.CanAddToCart)

	// Full selection resolves the variant and its price.
	resp = doJSON(t, http.MethodPost, server.URL+"/articles/a1/resolve-variant",
		`{"article":`+article+`,"selection":{"Grösse":"M"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resolved := decode[resolution](t, resp)
	require.NotNil(t, resolved.SelectedVariant)
	assert.Equal(t, "v1", resolved.SelectedVariant.ID)
	require.NotNil(t, resolved.EffectivePrice)
	assert.InDelta(t, 39.9, *resolved.EffectivePrice, 0.001)
	assert.True(t, resolved.CanAddToCart)
}

func TestAPI_GetCategories(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/categories")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ============================================
// Cart Endpoint Tests
// ============================================

func TestAPI_CartLifecycle(t *testing.T) {
	server, _, _ := newTestServer(t)

	// Add an item.
	resp := doJSON(t, http.MethodPost, server.URL+"/cart/items",
		`{"article_id":"a1","name":"Rosenstrauss","unit_price":49.9,"quantity":2}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	line := decode[cart.Item](t, resp)
	require.NotEmpty(t, line.CartItemID)
	assert.Equal(t, 2, line.Quantity)

	// Update quantity.
	resp = doJSON(t, http.MethodPatch, server.URL+"/cart/items/"+line.CartItemID, `{"quantity":5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[cart.State](t, resp)
	assert.Equal(t, 5, state.TotalItems)

	// Update custom text.
	resp = doJSON(t, http.MethodPatch, server.URL+"/cart/items/"+line.CartItemID, `{"custom_text":"Alles Gute"}`)
	state = decode[cart.State](t, resp)
	assert.Equal(t, "Alles Gute", state.Items[0].CustomText)

	// Remove the line.
	resp = doJSON(t, http.MethodDelete, server.URL+"/cart/items/"+line.CartItemID, "")
	state = decode[cart.State](t, resp)
	assert.Empty(t, state.Items)
}

func TestAPI_AddCartItem_RequiresArticleID(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/cart/items", `{"name":"kaputt"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_UpdateCartItem_NotFound(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, server.URL+"/cart/items/nope", `{"quantity":1}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ClearCart(t *testing.T) {
	server, cartStore, _ := newTestServer(t)
	cartStore.AddItem(cart.Item{ArticleID: "a1", Name: "Rosen", UnitPrice: 10}, 1)

	resp := doJSON(t, http.MethodDelete, server.URL+"/cart", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, cartStore.Items())
}

// ============================================
// Checkout Endpoint Tests
// ============================================

func TestAPI_CheckoutFlow(t *testing.T) {
	server, _, _ := newTestServer(t)

	// Next on an empty checkout is blocked with the validation state.
	resp := doJSON(t, http.MethodPost, server.URL+"/checkout/next", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	state := decode[checkout.State](t, resp)
	assert.Equal(t, checkout.StepCustomerInfo, state.CurrentStep)
	assert.NotEmpty(t, state.Errors.CustomerInfo)

	// Fill in contact details and advance.
	resp = doJSON(t, http.MethodPut, server.URL+"/checkout/customer-info", `{"email":"anna@example.ch"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/checkout/next", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	state = decode[checkout.State](t, resp)
	assert.Equal(t, checkout.StepShippingAddress, state.CurrentStep)

	// Back again.
	resp = doJSON(t, http.MethodPost, server.URL+"/checkout/previous", "")
	state = decode[checkout.State](t, resp)
	assert.Equal(t, checkout.StepCustomerInfo, state.CurrentStep)
}

func TestAPI_CheckoutShippingAddressMirrorsBilling(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, server.URL+"/checkout/shipping-address",
		`{"first_name":"Anna","last_name":"Muster","street":"Bahnhofstrasse","house_number":"12","postal_code":"8001","city":"Zürich","country":"Switzerland"}`)
	state := decode[checkout.State](t, resp)

	assert.Equal(t, "Zürich", state.BillingAddress.City)
}

func TestAPI_CheckoutReset(t *testing.T) {
	server, _, checkoutStore := newTestServer(t)
	checkoutStore.SetDeliveryNotes("bitte klingeln")

	resp := doJSON(t, http.MethodPost, server.URL+"/checkout/reset", "")
	state := decode[checkout.State](t, resp)

	assert.Empty(t, state.DeliveryNotes)
}

// ============================================
// Order Endpoint Tests
// ============================================

func TestAPI_PlaceOrder_ConflictWhenNotReady(t *testing.T) {
	server, cartStore, _ := newTestServer(t)
	cartStore.AddItem(cart.Item{ArticleID: "a1", Name: "Rosen", UnitPrice: 10}, 1)

	resp := doJSON(t, http.MethodPost, server.URL+"/orders", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_PlaceOrder_Success(t *testing.T) {
	server, cartStore, checkoutStore := newTestServer(t)
	cartStore.AddItem(cart.Item{ArticleID: "a1", Name: "Rosen", UnitPrice: 10}, 1)

	checkoutStore.SetCustomerInfo("anna@example.ch", "")
	checkoutStore.SetShippingAddress(checkout.Address{
		FirstName: "Anna", LastName: "Muster", Street: "Bahnhofstrasse",
		HouseNumber: "12", PostalCode: "8001", City: "Zürich", Country: "Switzerland",
	})
	for checkoutStore.CurrentStep() != checkout.StepPayment {
		require.NoError(t, checkoutStore.NextStep())
	}

	resp := doJSON(t, http.MethodPost, server.URL+"/orders", "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decode[order.Order](t, resp)
	assert.NotEmpty(t, placed.ID)

	listResp, err := http.Get(server.URL + "/orders")
	require.NoError(t, err)
	orders := decode[[]order.Order](t, listResp)
	require.Len(t, orders, 1)
}

// ============================================
// Method Guard Tests
// ============================================

func TestAPI_MethodNotAllowed(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, server.URL+"/articles", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
