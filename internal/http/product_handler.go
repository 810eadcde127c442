package http

import (
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog catalog.Reader
}

func NewProductHandler(reader catalog.Reader) *ProductHandler {
	return &ProductHandler{catalog: reader}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.ListProducts(r.Context())
	respondList(w, products, len(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be an integer")
		return
	}

	product, ok := catalog.Find(h.catalog.ListProducts(r.Context()), id)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "Product not found")
		return
	}
	respondData(w, http.StatusOK, product, "")
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	products := catalog.FilterByCategory(h.catalog.ListProducts(r.Context()), category)

	count := len(products)
	respondJSON(w, http.StatusOK, Response{
		Success:  true,
		Data:     products,
		Count:    &count,
		Category: category,
	})
}
