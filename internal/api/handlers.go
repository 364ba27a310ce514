package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/benschg/klara-shop/internal/address"
	"github.com/benschg/klara-shop/internal/cart"
	"github.com/benschg/klara-shop/internal/catalog"
	"github.com/benschg/klara-shop/internal/checkout"
	"github.com/benschg/klara-shop/internal/customtext"
	"github.com/benschg/klara-shop/internal/order"
	"github.com/benschg/klara-shop/internal/variant"
)

type Handlers struct {
	catalog  *catalog.Client
	cart     *cart.Store
	checkout *checkout.Store
	orders   *order.Service
	address  *address.Client
}

func NewHandlers(catalogClient *catalog.Client, cartStore *cart.Store, checkoutStore *checkout.Store, orderService *order.Service, addressClient *address.Client) *Handlers {
	return &Handlers{
		catalog:  catalogClient,
		cart:     cartStore,
		checkout: checkoutStore,
		orders:   orderService,
		address:  addressClient,
	}
}

// Catalog Handlers

func (h *Handlers) GetArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := catalog.ArticlesParams{
		Limit:         parseIntParam(q.Get("limit"), 50),
		Offset:        parseIntParam(q.Get("offset"), 0),
		ProductTypeID: q.Get("product_type"),
	}
	onlineOnly := true
	params.SellInOnlineShop = &onlineOnly

	articles, err := h.catalog.Articles(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

func (h *Handlers) GetArticleVariants(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/articles/")
	id = strings.TrimSuffix(id, "/variants")

	variants, err := h.catalog.ArticleVariants(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, variants)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ArticleCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handlers) GetCustomTextConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleName    string   `json:"article_name"`
		AccountingTags []string `json:"accounting_tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, ok := customtext.ConfigFor(req.ArticleName, req.AccountingTags)
	if !ok {
		respondJSON(w, http.StatusOK, map[string]bool{"enabled": false})
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Enabled bool `json:"enabled"`
		customtext.Config
	}{Enabled: true, Config: cfg})
}

// ResolveVariant resolves the user's option selection for an article against
// its concrete variants: which values are selectable, the matched variant if
// any, the effective price and whether the article can go into the cart.
func (h *Handlers) ResolveVariant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Article   catalog.Article   `json:"article"`
		Selection map[string]string `json:"selection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := extractPathParam(r.URL.Path, "/articles/")
	id = strings.TrimSuffix(id, "/resolve-variant")
	if req.Article.ID == "" {
		req.Article.ID = id
	}

	var variants []catalog.Variant
	if req.Article.HasVariant {
		var err error
		variants, err = h.catalog.ArticleVariants(r.Context(), req.Article.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}

	resolver := variant.NewResolver(req.Article, variants)
	for option, value := range req.Selection {
		resolver.Select(option, value)
	}

	now := time.Now()
	resp := struct {
		DataUnavailable bool                `json:"data_unavailable"`
		AvailableValues map[string][]string `json:"available_values"`
		SelectedVariant *catalog.Variant    `json:"selected_variant,omitempty"`
		EffectivePrice  *float64            `json:"effective_price,omitempty"`
		CanAddToCart    bool                `json:"can_add_to_cart"`
	}{
		DataUnavailable: resolver.DataUnavailable(),
		AvailableValues: resolver.AvailableValues(),
		CanAddToCart:    resolver.CanAddToCart(now),
	}
	if v, ok := resolver.SelectedVariant(); ok {
		resp.SelectedVariant = v
	}
	if price, ok := resolver.EffectivePrice(now); ok {
		resp.EffectivePrice = &price
	}
	respondJSON(w, http.StatusOK, resp)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.State())
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		cart.Item
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ArticleID == "" {
		http.Error(w, "article_id is required", http.StatusBadRequest)
		return
	}

	item := h.cart.AddItem(req.Item, req.Quantity)
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity   *int    `json:"quantity"`
		CustomText *string `json:"custom_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	found := false
	if req.Quantity != nil {
		found = h.cart.UpdateQuantity(id, *req.Quantity)
	}
	if req.CustomText != nil {
		found = h.cart.UpdateCustomText(id, *req.CustomText) || found
	}
	if !found {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, h.cart.State())
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/cart/items/")
	if !h.cart.RemoveItem(id) {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, h.cart.State())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetCartSuggestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.Suggestions())
}

// Checkout Handlers

func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.checkout.State())
}

func (h *Handlers) CheckoutNextStep(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.NextStep(); err != nil {
		if errors.Is(err, checkout.ErrStepInvalid) {
			respondJSON(w, http.StatusUnprocessableEntity, h.checkout.State())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, h.checkout.State())
}

func (h *Handlers) CheckoutPreviousStep(w http.ResponseWriter, r *http.Request) {
	h.checkout.PreviousStep()
	respondJSON(w, http.StatusOK, h.checkout.State())
}

func (h *Handlers) CheckoutValidate(w http.ResponseWriter, r *http.Request) {
	valid := h.checkout.ValidateCurrentStep()
	respondJSON(w, http.StatusOK, struct {
		Valid bool           `json:"valid"`
		State checkout.State `json:"state"`
	}{Valid: valid, State: h.checkout.State()})
}

func (h *Handlers) CheckoutReset(w http.ResponseWriter, r *http.Request) {
	h.checkout.Reset()
	respondJSON(w, http.StatusOK, h.checkout.State())
}

func (h *Handlers) SetCustomerInfo(w http.ResponseWriter, r *http.Request) {
	var req checkout.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.checkout.SetCustomerInfo(req.Email, req.Phone)
	respondJSON(w, http.StatusOK, h.checkout.State())
}

func (h *Handlers) SetShippingAddress(w http.ResponseWriter, r *http.Request) {
	var req checkout.Address
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.checkout.SetShippingAddress(req)
	respondJSON(w, http.StatusOK, h.checkout.State())
}

func (h *Handlers) SetBillingAddress(w http.ResponseWriter, r *http.Request) {
	var req checkout.Address
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.checkout.SetBillingAddress(req)
	respondJSON(w, http.StatusOK, h.checkout.State())
}

func (h *Handlers) ToggleSameAddress(w http.ResponseWriter, r *http.Request) {
	enabled := h.checkout.ToggleSameAddress()
	respondJSON(w, http.StatusOK, struct {
		UseSameAddressForBilling bool           `json:"use_same_address_for_billing"`
		State                    checkout.State `json:"state"`
	}{UseSameAddressForBilling: enabled, State: h.checkout.State()})
}

func (h *Handlers) SetDeliveryNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.checkout.SetDeliveryNotes(req.Notes)
	respondJSON(w, http.StatusOK, h.checkout.State())
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	placed, err := h.orders.Place(r.Context())
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) || errors.Is(err, order.ErrCheckoutIncomplete) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, placed)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orders.Orders())
}

// Address Handlers

func (h *Handlers) GetAddressSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		respondJSON(w, http.StatusOK, []address.Suggestion{})
		return
	}

	suggestions, err := h.address.Suggestions(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func parseIntParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
