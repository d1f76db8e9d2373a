// Package http exposes the catalog and cart engines over a JSON API
// for the storefront's rendering layer.
package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenharvest/catalog/internal/catalog"
	"github.com/greenharvest/catalog/internal/domain"
	"github.com/greenharvest/catalog/internal/filter"
	"github.com/greenharvest/catalog/internal/sorting"
)

// ProductCatalog is the catalog snapshot as the handlers see it.
type ProductCatalog interface {
	All(ctx context.Context) ([]domain.Product, error)
	Find(ctx context.Context, id string) (domain.Product, error)
}

type CatalogHandler struct {
	catalog ProductCatalog
	timeout time.Duration
}

func NewCatalogHandler(c ProductCatalog, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: c,
		timeout: timeout,
	}
}

type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Sort     domain.SortKey   `json:"sort"`
	Prefs    DisplayPrefs     `json:"prefs"`
}

// List runs the full pipeline: snapshot → filter → sort. Facet params
// repeat (`?region=europe&region=asia`), organic=true narrows to
// organic products, and unrecognized query keys are ignored.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.All(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "failed to load catalog")
		return
	}

	selection := parseSelection(r.URL.Query())
	sortKey := domain.ParseSortKey(r.URL.Query().Get("sort"))
	prefs, tag := resolvePrefs(r)

	filtered := filter.Apply(products, selection)
	sorted := sorting.Apply(filtered, sortKey, tag)

	respondJSON(w, http.StatusOK, ProductListResponse{
		Products: sorted,
		Count:    len(sorted),
		Sort:     sortKey,
		Prefs:    prefs,
	})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	product, err := h.catalog.Find(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "no product with id "+id)
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "failed to load catalog")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func parseSelection(query url.Values) domain.FacetSelection {
	selection := domain.FacetSelection{
		Facets: make(map[string][]string),
	}
	for _, facet := range domain.KnownFacets {
		values := make([]string, 0, len(query[facet]))
		for _, v := range query[facet] {
			// A cleared facet arrives as "?region="; treat it as
			// unconstrained rather than matching the empty string.
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			selection.Facets[facet] = values
		}
	}
	if organic, err := strconv.ParseBool(query.Get("organic")); err == nil {
		selection.OrganicOnly = organic
	}
	return selection
}
