package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rl1809/storefront-cart/internal/adapter/notify"
	"github.com/rl1809/storefront-cart/internal/core/domain"
	"github.com/rl1809/storefront-cart/internal/core/service"
)

type HTTPHandler struct {
	cartStore *service.CartStore
	feed      *notify.Feed
}

type AddProductHTTPRequest struct {
	ProductID int `json:"product_id"`
}

type UpdateAmountHTTPRequest struct {
	Amount int `json:"amount"`
}

type CartHTTPResponse struct {
	Cart          domain.Cart `json:"cart"`
	Notifications []string    `json:"notifications"`
}

type ErrorHTTPResponse struct {
	Message string `json:"message"`
}

func NewHTTPHandler(cartStore *service.CartStore, feed *notify.Feed) *HTTPHandler {
	return &HTTPHandler{cartStore: cartStore, feed: feed}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", h.AddProduct).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id:[0-9]+}", h.UpdateProductAmount).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id:[0-9]+}", h.RemoveProduct).Methods(http.MethodDelete)
	api.HandleFunc("/notifications", h.Notifications).Methods(http.MethodGet)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CartHTTPResponse{Cart: h.cartStore.Cart(), Notifications: []string{}})
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}
	if req.ProductID <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "missing required fields"})
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	cart := h.cartStore.AddProduct(ctx, req.ProductID)
	writeCart(w, cart, collector.Messages())
}

func (h *HTTPHandler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateAmountHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid request body"})
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	cart := h.cartStore.UpdateProductAmount(ctx, service.UpdateProductAmount{
		ProductID: productID,
		Amount:    req.Amount,
	})
	writeCart(w, cart, collector.Messages())
}

func (h *HTTPHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	cart := h.cartStore.RemoveProduct(ctx, productID)
	writeCart(w, cart, collector.Messages())
}

// Notifications drains the notice feed.
func (h *HTTPHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.feed.Drain())
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Message: "invalid product id"})
		return 0, false
	}
	return id, true
}

// writeCart maps the notifications raised by an operation to a status code.
// The body always carries the committed cart.
func writeCart(w http.ResponseWriter, cart domain.Cart, messages []string) {
	status := http.StatusOK
	for _, m := range messages {
		if m == service.MsgOutOfStock {
			status = http.StatusConflict
		} else {
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, CartHTTPResponse{Cart: cart, Notifications: messages})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
