package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/ordering/internal/menu"
	"github.com/kiwari-pos/ordering/internal/middleware"
	"github.com/kiwari-pos/ordering/internal/render"
	"github.com/sirupsen/logrus"
)

// ScreenRegistry defines the registry methods needed by menu handlers.
// Satisfied by *menu.Registry; narrow interface for testability.
type ScreenRegistry interface {
	Mount(session menu.Session) *menu.Screen
	Remount(session menu.Session) *menu.Screen
	Unmount(userID uuid.UUID)
}

// MenuHandler serves the menu screen of the authenticated user.
type MenuHandler struct {
	screens ScreenRegistry
	log     logrus.FieldLogger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(screens ScreenRegistry, log logrus.FieldLogger) *MenuHandler {
	return &MenuHandler{screens: screens, log: log}
}

// RegisterRoutes registers menu screen endpoints on the given Chi router.
// Expected to be mounted at /menu behind middleware.Authenticate.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Close)
	r.Post("/reload", h.Reload)
	r.Get("/page", h.Page)
	r.Put("/items/{id}/quantity", h.SetQuantity)
	r.Post("/items/{id}/increment", h.Increment)
	r.Post("/items/{id}/decrement", h.Decrement)
	r.Post("/quantities/retry", h.Retry)
	r.Post("/orders", h.CreateOrder)
}

// --- Request / Response types ---

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type orderCreatedResponse struct {
	Title     string          `json:"title"`
	OrderID   uuid.UUID       `json:"order_id"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []menu.LineItem `json:"items"`
	Total     string          `json:"total"`
}

type retryResponse struct {
	Entries []menu.Entry `json:"entries"`
}

// --- Handlers ---

// Get mounts the caller's screen if needed and returns its snapshot.
// The snapshot reports loading=true until the catalog load finishes.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.mount(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, screen.Snapshot())
}

// Reload discards the caller's screen and mounts a fresh one.
func (h *MenuHandler) Reload(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	screen := h.screens.Remount(session)
	h.writeJSON(w, http.StatusOK, screen.Snapshot())
}

// Close unmounts the caller's screen and drops its local state.
func (h *MenuHandler) Close(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	h.screens.Unmount(session.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// Page renders the caller's screen as HTML.
func (h *MenuHandler) Page(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.mount(w, r)
	if !ok {
		return
	}
	data := render.Data{
		View:    screen.Snapshot(),
		OrderID: r.URL.Query().Get("order"),
		Error:   r.URL.Query().Get("error"),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, data); err != nil {
		h.log.WithError(err).Error("render menu page")
	}
}

// SetQuantity sets an item's quantity. 0 removes it.
func (h *MenuHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Quantity == nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity is required"})
		return
	}
	if *req.Quantity < 0 {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must not be negative"})
		return
	}
	if *req.Quantity > math.MaxInt32 {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity is too large"})
		return
	}

	screen, itemID, ok := h.loadedItem(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, screen.Adjust(r.Context(), itemID, *req.Quantity))
}

// Increment is the + button.
func (h *MenuHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, 1)
}

// Decrement is the - button. It never takes a quantity below zero.
func (h *MenuHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, -1)
}

func (h *MenuHandler) step(w http.ResponseWriter, r *http.Request, delta int) {
	screen, itemID, ok := h.loadedItem(w, r)
	if !ok {
		return
	}
	entry := screen.Step(r.Context(), itemID, delta)
	if isFormPost(r) {
		http.Redirect(w, r, "/menu/page", http.StatusSeeOther)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// Retry re-sends the mirror write of every quantity whose last write failed.
func (h *MenuHandler) Retry(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.mount(w, r)
	if !ok {
		return
	}
	entries := screen.RetryFailed(r.Context())
	if entries == nil {
		entries = []menu.Entry{}
	}
	h.writeJSON(w, http.StatusOK, retryResponse{Entries: entries})
}

// CreateOrder submits the caller's quantities as an order.
func (h *MenuHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.mount(w, r)
	if !ok {
		return
	}

	receipt, err := screen.Submit(r.Context())
	if isFormPost(r) {
		// Browser forms get the outcome as a dialog on the page.
		q := url.Values{}
		if err != nil {
			q.Set("error", err.Error())
		} else {
			q.Set("order", receipt.OrderID.String())
		}
		http.Redirect(w, r, "/menu/page?"+q.Encode(), http.StatusSeeOther)
		return
	}
	if err != nil {
		if errors.Is(err, menu.ErrSubmitInProgress) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	items := receipt.Items
	if items == nil {
		items = []menu.LineItem{}
	}
	h.writeJSON(w, http.StatusCreated, orderCreatedResponse{
		Title:     "Order Created",
		OrderID:   receipt.OrderID,
		CreatedAt: receipt.CreatedAt,
		Items:     items,
		Total:     receipt.Total,
	})
}

// --- Helpers ---

func (h *MenuHandler) mount(w http.ResponseWriter, r *http.Request) (*menu.Screen, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return nil, false
	}
	return h.screens.Mount(session), true
}

// loadedItem waits for the catalog load and checks the item is on the menu.
func (h *MenuHandler) loadedItem(w http.ResponseWriter, r *http.Request) (*menu.Screen, string, bool) {
	screen, ok := h.mount(w, r)
	if !ok {
		return nil, "", false
	}

	select {
	case <-screen.Loaded():
	case <-r.Context().Done():
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "menu is still loading"})
		return nil, "", false
	}

	itemID := chi.URLParam(r, "id")
	if !screen.HasItem(itemID) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return nil, "", false
	}
	return screen, itemID, true
}

func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func (h *MenuHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("encode JSON response")
	}
}
