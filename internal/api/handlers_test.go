package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"mckitchen/internal/kitchen"
	"mckitchen/internal/logger"
	"mckitchen/internal/models"
)

func newTestRouter(cook time.Duration) (*chi.Mux, *kitchen.Kitchen) {
	k := kitchen.New(kitchen.Config{
		CookDuration: cook,
		PollInterval: 10 * time.Millisecond,
	}, logger.Discard())
	handler := NewHandler(k, logger.Discard())
	router := chi.NewRouter()
	router.Group(handler.Routes)
	return router, k
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitOrderHandler(t *testing.T) {
	router, _ := newTestRouter(time.Hour)

	w := doJSON(t, router, http.MethodPost, "/orders", map[string]string{"priority": "NORMAL"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]int
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp["order_id"])

	w = doJSON(t, router, http.MethodPost, "/orders", map[string]string{"priority": "VIP"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp["order_id"])

	// VIP submitted later must be served first
	w = doJSON(t, router, http.MethodGet, "/orders/pending", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var pending []models.Order
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&pending))
	if assert.Len(t, pending, 2) {
		assert.Equal(t, 2, pending[0].ID)
		assert.Equal(t, 1, pending[1].ID)
	}
}

func TestSubmitOrderHandler_InvalidPriority(t *testing.T) {
	router, _ := newTestRouter(time.Hour)

	w := doJSON(t, router, http.MethodPost, "/orders", map[string]string{"priority": "GOLD"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrderHandler(t *testing.T) {
	router, k := newTestRouter(time.Hour)

	id := k.SubmitOrder(models.PriorityNormal)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, k.PendingOrders())

	// Already gone
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBotHandlers(t *testing.T) {
	router, k := newTestRouter(time.Hour)

	w := doJSON(t, router, http.MethodPost, "/bots", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]int
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp["bot_id"])

	w = doJSON(t, router, http.MethodGet, "/bots", nil)
	var bots []models.Bot
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&bots))
	if assert.Len(t, bots, 1) {
		assert.Equal(t, models.BotIdle, bots[0].State)
	}

	w = doJSON(t, router, http.MethodDelete, "/bots", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var removed map[string]bool
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&removed))
	assert.True(t, removed["removed"])
	assert.Empty(t, k.Bots())

	// Empty pool is a benign no-op
	w = doJSON(t, router, http.MethodDelete, "/bots", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&removed))
	assert.False(t, removed["removed"])
}

func TestStatusHandler(t *testing.T) {
	router, k := newTestRouter(time.Hour)

	k.SubmitOrder(models.PriorityVIP)
	k.SubmitOrder(models.PriorityNormal)
	k.AddBot()

	w := doJSON(t, router, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var snap kitchen.Snapshot
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	if assert.Len(t, snap.Processing, 1) {
		assert.Equal(t, 1, snap.Processing[0].ID)
		assert.GreaterOrEqual(t, snap.Processing[0].Progress, 0)
	}
	if assert.Len(t, snap.Pending, 1) {
		assert.Equal(t, 2, snap.Pending[0].ID)
	}
	assert.Len(t, snap.Bots, 1)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(time.Hour)

	w := doJSON(t, router, http.MethodGet, "/bots", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
