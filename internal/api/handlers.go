package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Karla-castillo01/EasyShopApp/internal/api/middleware"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/cart"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/user"
	"github.com/Karla-castillo01/EasyShopApp/internal/infrastructure/store"
)

// CartHandlers maps HTTP requests onto the cart service. The token carries
// the username; the user id the service needs is resolved through the user
// lookup per request.
type CartHandlers struct {
	carts *cart.Service
	users user.Lookup
}

func NewCartHandlers(carts *cart.Service, users user.Lookup) *CartHandlers {
	return &CartHandlers{
		carts: carts,
		users: users,
	}
}

// resolveUserID maps the verified principal to a database user id
func (h *CartHandlers) resolveUserID(r *http.Request) (int, int, string) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return 0, http.StatusUnauthorized, "unauthorized"
	}
	u, exists, err := h.users.GetByUserName(r.Context(), principal.Subject)
	if err != nil {
		return 0, http.StatusServiceUnavailable, "user lookup failed"
	}
	if !exists {
		return 0, http.StatusNotFound, "user not found"
	}
	return u.ID, 0, ""
}

func (h *CartHandlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := h.resolveUserID(r)
	if status != 0 {
		respondJSONError(w, msg, status)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := h.resolveUserID(r)
	if status != 0 {
		respondJSONError(w, msg, status)
		return
	}

	productID, ok := productIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.carts.AddProduct(r.Context(), userID, productID); err != nil {
		respondCartError(w, err)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandlers) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := h.resolveUserID(r)
	if status != 0 {
		respondJSONError(w, msg, status)
		return
	}

	productID, ok := productIDFromPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondJSONError(w, "quantity is required", http.StatusBadRequest)
		return
	}

	if err := h.carts.SetProductQuantity(r.Context(), userID, productID, *req.Quantity); err != nil {
		respondCartError(w, err)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandlers) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := h.resolveUserID(r)
	if status != 0 {
		respondJSONError(w, msg, status)
		return
	}

	productID, ok := productIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.carts.RemoveProduct(r.Context(), userID, productID); err != nil {
		respondCartError(w, err)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AdminGetCart returns any user's cart by id. The route is role-gated, so
// no principal-to-user resolution happens here.
func (h *CartHandlers) AdminGetCart(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/admin/carts/")
	userID, err := strconv.Atoi(raw)
	if err != nil {
		respondJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := h.resolveUserID(r)
	if status != 0 {
		respondJSONError(w, msg, status)
		return
	}

	if err := h.carts.ClearCart(r.Context(), userID); err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondCartError translates the service's error kinds into status codes;
// this boundary is the only place that mapping happens.
func respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		respondJSONError(w, "product not found", http.StatusNotFound)
	case errors.Is(err, cart.ErrProductNotInCart):
		respondJSONError(w, "product not in cart", http.StatusNotFound)
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondJSONError(w, "quantity must not be negative", http.StatusBadRequest)
	case errors.Is(err, store.ErrStoreUnavailable):
		respondJSONError(w, "store unavailable, retry later", http.StatusServiceUnavailable)
	default:
		respondJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

func productIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimPrefix(r.URL.Path, "/cart/products/")
	productID, err := strconv.Atoi(raw)
	if err != nil {
		respondJSONError(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return productID, true
}
