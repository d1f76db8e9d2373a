package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/greenharvest/catalog/internal/cart"
)

func cartRouter(t *testing.T) *chi.Mux {
	t.Helper()

	store := cart.NewMemoryStore(time.Minute)
	t.Cleanup(func() { store.Close() })

	handler := NewCartHandler(store, testCatalog(), 5*time.Second)

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{productID}/{variantID}", handler.UpdateQuantity)
		r.Delete("/items/{productID}/{variantID}", handler.RemoveItem)
	})
	r.Post("/checkout", handler.Checkout)
	return r
}

func doJSON(t *testing.T, router *chi.Mux, method, target, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	request := httptest.NewRequest(method, target, &buf)
	if sessionID != "" {
		request.Header.Set(SessionHeader, sessionID)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeCart(t *testing.T, recorder *httptest.ResponseRecorder) CartResponse {
	t.Helper()

	var response CartResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode cart response: %v", err)
	}
	return response
}

func TestCart_AddMergeRemoveFlow(t *testing.T) {
	router := cartRouter(t)

	// First add issues a session and prices 3 kg of tomatoes at 2.5.
	recorder := doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-1", VariantID: "v1", Quantity: 3,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}
	sessionID := recorder.Header().Get(SessionHeader)
	if sessionID == "" {
		t.Fatal("Expected a session ID to be issued")
	}
	response := decodeCart(t, recorder)
	if !response.Total.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("Expected total 7.5, got %s", response.Total)
	}

	// Second add for the same line merges quantities.
	recorder = doJSON(t, router, "POST", "/cart/items", sessionID, AddItemRequestDTO{
		ProductID: "prd-1", VariantID: "v1", Quantity: 2,
	})
	response = decodeCart(t, recorder)
	if len(response.Lines) != 1 {
		t.Fatalf("Expected 1 line after merge, got %d", len(response.Lines))
	}
	if response.Lines[0].Quantity != 5 {
		t.Errorf("Expected merged quantity 5, got %d", response.Lines[0].Quantity)
	}
	if !response.Total.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Expected total 12.5, got %s", response.Total)
	}

	// Removing the line empties the cart and zeroes the total.
	recorder = doJSON(t, router, "DELETE", "/cart/items/prd-1/v1", sessionID, nil)
	response = decodeCart(t, recorder)
	if len(response.Lines) != 0 {
		t.Errorf("Expected empty cart, got %d lines", len(response.Lines))
	}
	if !response.Total.IsZero() {
		t.Errorf("Expected zero total, got %s", response.Total)
	}
}

func TestCart_AddCrossingTierBreakpointReprices(t *testing.T) {
	router := cartRouter(t)

	recorder := doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-1", VariantID: "v1", Quantity: 600,
	})
	sessionID := recorder.Header().Get(SessionHeader)
	response := decodeCart(t, recorder)
	if !response.Lines[0].UnitPrice.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Expected base tier price 2.5, got %s", response.Lines[0].UnitPrice)
	}

	// 600 + 500 crosses the 1000-unit breakpoint; the merged line is
	// repriced at 2.2.
	recorder = doJSON(t, router, "POST", "/cart/items", sessionID, AddItemRequestDTO{
		ProductID: "prd-1", VariantID: "v1", Quantity: 500,
	})
	response = decodeCart(t, recorder)
	if !response.Lines[0].UnitPrice.Equal(decimal.RequireFromString("2.2")) {
		t.Errorf("Expected tier price 2.2 after merge, got %s", response.Lines[0].UnitPrice)
	}
	if !response.Total.Equal(decimal.RequireFromString("2420")) {
		t.Errorf("Expected total 2420, got %s", response.Total)
	}
}

func TestCart_AddValidation(t *testing.T) {
	router := cartRouter(t)

	recorder := doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-1", VariantID: "v1", Quantity: 0,
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected %d for zero quantity, got %d", http.StatusBadRequest, recorder.Code)
	}

	recorder = doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-404", VariantID: "v1", Quantity: 1,
	})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected %d for unknown product, got %d", http.StatusNotFound, recorder.Code)
	}

	recorder = doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-1", VariantID: "v-missing", Quantity: 1,
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected %d for unknown variant, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	router := cartRouter(t)

	recorder := doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-2", VariantID: "v1", Quantity: 2,
	})
	sessionID := recorder.Header().Get(SessionHeader)

	recorder = doJSON(t, router, "PUT", "/cart/items/prd-2/v1", sessionID, UpdateQuantityRequestDTO{Quantity: 4})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	response := decodeCart(t, recorder)
	if !response.Total.Equal(decimal.RequireFromString("32")) {
		t.Errorf("Expected total 32, got %s", response.Total)
	}

	recorder = doJSON(t, router, "PUT", "/cart/items/prd-2/v1", sessionID, UpdateQuantityRequestDTO{Quantity: 0})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected %d for zero quantity, got %d", http.StatusBadRequest, recorder.Code)
	}

	recorder = doJSON(t, router, "PUT", "/cart/items/prd-3/v1", sessionID, UpdateQuantityRequestDTO{Quantity: 2})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected %d for line not in cart, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestCart_GetUnknownSessionIsEmptyCart(t *testing.T) {
	router := cartRouter(t)

	recorder := doJSON(t, router, "GET", "/cart", "sess-never-seen", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	response := decodeCart(t, recorder)
	if len(response.Lines) != 0 || !response.Total.IsZero() {
		t.Errorf("Expected empty cart, got %+v", response)
	}
}

func TestCheckout_SnapshotsAndClears(t *testing.T) {
	router := cartRouter(t)

	recorder := doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-1", VariantID: "v1", Quantity: 3,
	})
	sessionID := recorder.Header().Get(SessionHeader)
	doJSON(t, router, "POST", "/cart/items", sessionID, AddItemRequestDTO{
		ProductID: "prd-2", VariantID: "v1", Quantity: 2,
	})

	recorder = doJSON(t, router, "POST", "/checkout", sessionID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var snapshot cart.Snapshot
	if err := json.NewDecoder(recorder.Body).Decode(&snapshot); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if len(snapshot.Lines) != 2 {
		t.Fatalf("Expected 2 snapshot lines, got %d", len(snapshot.Lines))
	}
	// 3×2.5 + 2×8
	if !snapshot.Total.Equal(decimal.RequireFromString("23.5")) {
		t.Errorf("Expected total 23.5, got %s", snapshot.Total)
	}
	if snapshot.Currency != "USD" {
		t.Errorf("Expected USD, got %s", snapshot.Currency)
	}

	// The committed session starts over with an empty cart.
	recorder = doJSON(t, router, "GET", "/cart", sessionID, nil)
	response := decodeCart(t, recorder)
	if len(response.Lines) != 0 {
		t.Errorf("Expected cart cleared after checkout, got %d lines", len(response.Lines))
	}
}

func TestCheckout_EmptyCartConflicts(t *testing.T) {
	router := cartRouter(t)

	recorder := doJSON(t, router, "POST", "/checkout", "sess-empty", nil)

	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected status code %d, got %d", http.StatusConflict, recorder.Code)
	}
}

func TestCart_Clear(t *testing.T) {
	router := cartRouter(t)

	recorder := doJSON(t, router, "POST", "/cart/items", "", AddItemRequestDTO{
		ProductID: "prd-3", VariantID: "v1", Quantity: 20,
	})
	sessionID := recorder.Header().Get(SessionHeader)

	recorder = doJSON(t, router, "DELETE", "/cart", sessionID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	response := decodeCart(t, recorder)
	if len(response.Lines) != 0 || !response.Total.IsZero() {
		t.Errorf("Expected cleared cart, got %+v", response)
	}
}
