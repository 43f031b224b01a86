package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mckitchen/internal/kitchen"
	"mckitchen/internal/logger"
	"mckitchen/internal/models"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Kitchen *kitchen.Kitchen
	Log     *logger.Logger
}

// NewHandler creates a new handler
func NewHandler(k *kitchen.Kitchen, log *logger.Logger) *Handler {
	return &Handler{Kitchen: k, Log: log}
}

// Routes mounts the command and query endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.RequestIDMiddleware)
	r.Post("/orders", h.SubmitOrder)
	r.Delete("/orders/{id}", h.CancelOrder)
	r.Get("/orders/pending", h.GetPendingOrders)
	r.Get("/orders/processing", h.GetProcessingOrders)
	r.Get("/orders/complete", h.GetCompleteOrders)
	r.Post("/bots", h.AddBot)
	r.Delete("/bots", h.RemoveBot)
	r.Get("/bots", h.GetBots)
	r.Get("/status", h.GetStatus)
}

// RequestIDMiddleware tags each request with a uuid for log correlation.
func (h *Handler) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		h.Log.WithRequestID(requestID).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

// SubmitOrder admits a new order
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	priority := models.Priority(req.Priority)
	if priority != models.PriorityVIP && priority != models.PriorityNormal {
		http.Error(w, `{"error": "Priority must be 'VIP' or 'NORMAL'"}`, http.StatusBadRequest)
		return
	}

	orderID := h.Kitchen.SubmitOrder(priority)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order_id": orderID,
	})
}

// CancelOrder removes an order by id
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error": "Invalid order id"}`, http.StatusBadRequest)
		return
	}

	if !h.Kitchen.CancelOrder(id) {
		http.Error(w, `{"error": "Order not found"}`, http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Order cancelled",
	})
}

// AddBot creates a new idle bot
func (h *Handler) AddBot(w http.ResponseWriter, r *http.Request) {
	botID := h.Kitchen.AddBot()

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bot_id": botID,
	})
}

// RemoveBot destroys the most-recently-added bot
func (h *Handler) RemoveBot(w http.ResponseWriter, r *http.Request) {
	removed := h.Kitchen.RemoveBot()
	json.NewEncoder(w).Encode(map[string]interface{}{
		"removed": removed,
	})
}

// GetPendingOrders returns the pending queue
func (h *Handler) GetPendingOrders(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.Kitchen.PendingOrders())
}

// GetProcessingOrders returns the in-flight orders
func (h *Handler) GetProcessingOrders(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.Kitchen.ProcessingOrders())
}

// GetCompleteOrders returns the completed orders
func (h *Handler) GetCompleteOrders(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.Kitchen.CompleteOrders())
}

// GetBots returns the bot pool
func (h *Handler) GetBots(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.Kitchen.Bots())
}

// GetStatus returns a consistent snapshot of all queues and bots,
// including derived progress for in-flight orders
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.Kitchen.State())
}
