package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shestoi/GoBigTech/services/storefront/internal/repository"
	"github.com/shestoi/GoBigTech/services/storefront/internal/service"
)

// ListProducts обрабатывает GET /api/products?page&limit
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.products.ListProducts(r.Context(),
		parsePageParam(query.Get("page")),
		parsePageParam(query.Get("limit")),
	)
	if err != nil {
		h.writeError(w, r, "failed to list products", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page))
}

// GetProduct обрабатывает GET /api/products/{pid}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		h.writeError(w, r, "failed to get product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// CreateProduct обрабатывает POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	input := service.CreateProductInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Code:        deref(req.Code),
	}
	var ok bool
	if input.Price, ok = priceFromRequest(req); !ok {
		writeBadRequest(w, "price must be a number")
		return
	}
	if input.Stock, ok = stockFromRequest(req); !ok {
		writeBadRequest(w, "stock must be an integer")
		return
	}

	product, err := h.products.CreateProduct(r.Context(), input)
	if err != nil {
		h.writeError(w, r, "failed to create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, productMessage{Message: "product created", Product: toProductResponse(product)})
}

// UpdateProduct обрабатывает PUT /api/products/{pid}: меняются только переданные поля
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	patch := repository.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
	}
	var ok bool
	if patch.Price, ok = priceFromRequest(req); !ok {
		writeBadRequest(w, "price must be a number")
		return
	}
	if patch.Stock, ok = stockFromRequest(req); !ok {
		writeBadRequest(w, "stock must be an integer")
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), chi.URLParam(r, "pid"), patch)
	if err != nil {
		h.writeError(w, r, "failed to update product", err)
		return
	}
	writeJSON(w, http.StatusOK, productMessage{Message: "product updated", Product: toProductResponse(product)})
}

// DeleteProduct обрабатывает DELETE /api/products/{pid}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.DeleteProduct(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		h.writeError(w, r, "failed to delete product", err)
		return
	}
	writeJSON(w, http.StatusOK, productMessage{Message: "product deleted", Product: toProductResponse(product)})
}

func priceFromRequest(req ProductRequest) (*decimal.Decimal, bool) {
	if req.Price == nil {
		return nil, true
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		return nil, false
	}
	return &price, true
}

func stockFromRequest(req ProductRequest) (*int, bool) {
	if req.Stock == nil {
		return nil, true
	}
	stock, ok := parseInteger(*req.Stock)
	if !ok {
		return nil, false
	}
	return &stock, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
