package stubstore

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wleft/storefront/internal/domain"
)

type Handler struct {
	store *MemoryStore
}

func NewHandler(store *MemoryStore) *Handler {
	return &Handler{store: store}
}

// NewRouter mounts the backend surface the session consumes, plus the
// webhook endpoint the gateway would call out-of-band.
func NewRouter(store *MemoryStore) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/products", h.Products)
	r.Post("/products/add", h.AddProduct)
	r.Post("/products/{id}/restock", h.Restock)
	r.Post("/payment/create-order/{id}", h.CreateOrder)
	r.Post("/payment/webhook", h.Webhook)
	return r
}

func (h *Handler) Products(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.store.List())
}

type addProductRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Price < 0 || req.Quantity < 0 {
		http.Error(w, "invalid product", http.StatusBadRequest)
		return
	}

	created := h.store.Add(productFromRequest(req))
	respondJSON(w, http.StatusOK, created)
}

func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if _, err := h.store.Restock(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Product restocked successfully"))
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	quantity := 1
	if q := r.URL.Query().Get("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
	}

	order, err := h.store.CreateOrder(id, quantity)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrProductNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type webhookRequest struct {
	Event   string `json:"event"`
	OrderID string `json:"order_id"`
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Event != "order.paid" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Webhook received"))
		return
	}

	if err := h.store.MarkPaid(req.OrderID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Webhook received and processed"))
}

func productFromRequest(req addProductRequest) domain.Product {
	return domain.Product{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Quantity:    req.Quantity,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
