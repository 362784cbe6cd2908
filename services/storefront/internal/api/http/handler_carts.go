package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateCart обрабатывает POST /api/carts: списывает остатки и создаёт корзину
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req ItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	items, isArray, err := decodeItems(req.Products)
	if !isArray {
		writeBadRequest(w, "products must be an array")
		return
	}
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cart, err := h.carts.CreateCartFromOrder(r.Context(), items)
	if err != nil {
		h.writeError(w, r, "failed to create cart", err)
		return
	}
	writeJSON(w, http.StatusCreated, cartMessage{Message: "cart created", Cart: toCartResponse(cart)})
}

// GetCart обрабатывает GET /api/carts/{cid}
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.GetCart(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		h.writeError(w, r, "failed to get cart", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartViewResponse(view))
}

// AddItem обрабатывает POST /api/carts/{cid}/product/{pid}: количество прибавляется к текущему
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	quantity, ok := h.readQuantity(w, r, true)
	if !ok {
		return
	}

	summary, err := h.carts.AddItem(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), quantity)
	if err != nil {
		h.writeError(w, r, "failed to add product to cart", err)
		return
	}
	writeJSON(w, http.StatusOK, cartMessage{Message: "product added to cart", Cart: toCartSummaryResponse(summary)})
}

// SetItemQuantity обрабатывает PUT /api/carts/{cid}/product/{pid}
func (h *Handler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	quantity, ok := h.readQuantity(w, r, false)
	if !ok {
		return
	}

	cart, err := h.carts.SetItemQuantity(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), quantity)
	if err != nil {
		h.writeError(w, r, "failed to update product quantity", err)
		return
	}
	writeJSON(w, http.StatusOK, cartMessage{Message: "quantity updated", Cart: toCartResponse(cart)})
}

// RemoveItem обрабатывает DELETE /api/carts/{cid}/product/{pid}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveItem(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"))
	if err != nil {
		h.writeError(w, r, "failed to remove product from cart", err)
		return
	}
	writeJSON(w, http.StatusOK, cartMessage{Message: "product removed from cart", Cart: toCartResponse(cart)})
}

// ReplaceItems обрабатывает PUT /api/carts/{cid}: список позиций заменяется целиком
func (h *Handler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	var req ItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	items, isArray, err := decodeItems(req.Products)
	if !isArray {
		writeBadRequest(w, "products must be an array")
		return
	}
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cart, err := h.carts.ReplaceAllItems(r.Context(), chi.URLParam(r, "cid"), items)
	if err != nil {
		h.writeError(w, r, "failed to update cart", err)
		return
	}
	writeJSON(w, http.StatusOK, cartMessage{Message: "cart updated", Cart: toCartResponse(cart)})
}

// ClearCart обрабатывает DELETE /api/carts/{cid}: корзина остаётся, позиции удаляются
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.ClearCart(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		h.writeError(w, r, "failed to clear cart", err)
		return
	}
	writeJSON(w, http.StatusOK, cartMessage{Message: "all products removed from cart", Cart: toCartResponse(cart)})
}

// PurgeCart обрабатывает DELETE /api/carts/{cid}/purge: документ корзины удаляется
func (h *Handler) PurgeCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.DeleteCart(r.Context(), chi.URLParam(r, "cid")); err != nil {
		h.writeError(w, r, "failed to delete cart", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "cart deleted"})
}

func (h *Handler) readQuantity(w http.ResponseWriter, r *http.Request, loose bool) (int, bool) {
	var req QuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return 0, false
	}
	quantity, err := parseQuantity(req.Quantity, loose)
	if err != nil {
		writeBadRequest(w, err.Error())
		return 0, false
	}
	return quantity, true
}
