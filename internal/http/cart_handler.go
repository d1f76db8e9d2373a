package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/greenharvest/catalog/internal/cart"
	"github.com/greenharvest/catalog/internal/catalog"
)

type CartHandler struct {
	store   cart.LedgerStore
	catalog ProductCatalog
	timeout time.Duration
}

func NewCartHandler(store cart.LedgerStore, c ProductCatalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: c,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	SessionID string          `json:"session_id"`
	Currency  string          `json:"currency"`
	Lines     []cart.Line     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

func cartResponse(sessionID string, ledger cart.Ledger) CartResponse {
	return CartResponse{
		SessionID: sessionID,
		Currency:  ledger.Currency,
		Lines:     ledger.Lines,
		Total:     ledger.Total(),
	}
}

// ledgerFor loads the session's ledger; a missing session is an empty
// cart, not an error.
func (h *CartHandler) ledgerFor(ctx context.Context, sessionID string) (cart.Ledger, error) {
	ledger, err := h.store.Get(ctx, sessionID)
	if errors.Is(err, cart.ErrSessionNotFound) {
		return cart.Ledger{}, nil
	}
	return ledger, err
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	ledger, err := h.ledgerFor(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(sessionID, ledger))
}

// AddItem validates the product and variant against the catalog,
// resolves the unit price from the product's tier schedule at the
// merged line quantity, and stores the updated ledger.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	product, err := h.catalog.Find(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "no product with id "+req.ProductID)
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "failed to validate product")
		return
	}
	if _, ok := product.VariantByID(req.VariantID); !ok {
		respondError(w, http.StatusBadRequest, "invalid_variant", "product has no variant "+req.VariantID)
		return
	}

	ledger, err := h.ledgerFor(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to load cart")
		return
	}

	// Price the line at the quantity it will hold after the merge, so
	// repeated adds cross tier breakpoints the same way one large add
	// would.
	merged := req.Quantity
	for _, line := range ledger.Lines {
		if line.ProductID == req.ProductID && line.VariantID == req.VariantID {
			merged += line.Quantity
			break
		}
	}
	unitPrice := product.Pricing.PriceFor(merged)

	next, err := ledger.AddItem(req.ProductID, req.VariantID, req.Quantity, unitPrice, product.Pricing.Currency)
	if err != nil {
		respondCartError(w, err)
		return
	}

	if err := h.store.Put(ctx, sessionID, next); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to store cart")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(sessionID, next))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")
	variantID := chi.URLParam(r, "variantID")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ledger, err := h.ledgerFor(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to load cart")
		return
	}

	next, err := ledger.SetQuantity(productID, variantID, req.Quantity)
	if err != nil {
		respondCartError(w, err)
		return
	}

	if err := h.store.Put(ctx, sessionID, next); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to store cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(sessionID, next))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	productID := chi.URLParam(r, "productID")
	variantID := chi.URLParam(r, "variantID")

	ledger, err := h.ledgerFor(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to load cart")
		return
	}

	next := ledger.RemoveItem(productID, variantID)
	if next.IsEmpty() {
		err = h.store.Delete(ctx, sessionID)
	} else {
		err = h.store.Put(ctx, sessionID, next)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to store cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(sessionID, next))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	if err := h.store.Delete(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(sessionID, cart.Ledger{}))
}

// Checkout commits the cart: it captures a snapshot with line
// subtotals and the grand total, clears the session, and hands the
// snapshot to the caller. Payment is a downstream collaborator's
// concern.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	ledger, err := h.ledgerFor(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to load cart")
		return
	}
	if ledger.IsEmpty() {
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty, nothing to checkout")
		return
	}

	snapshot := ledger.Snapshot(time.Now())
	if err := h.store.Delete(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

func respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
	case errors.Is(err, cart.ErrCurrencyMismatch):
		respondError(w, http.StatusConflict, "currency_mismatch", "cart lines must share a single currency")
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "line_not_found", "item is not in the cart")
	default:
		respondError(w, http.StatusInternalServerError, "cart_unavailable", "cart operation failed")
	}
}
