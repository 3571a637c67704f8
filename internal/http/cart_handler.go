package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/sessioncart/internal/domain"
	"github.com/nikolayk812/sessioncart/internal/logger"
	"github.com/nikolayk812/sessioncart/internal/service"
)

// CartService is the subset of service.CartService the handlers depend on.
type CartService interface {
	AddItem(ctx context.Context, sessionID string, product domain.Product, quantity int) (*domain.Cart, error)
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error)
	Checkout(ctx context.Context, sessionID string) (domain.CheckoutResult, error)
}

type CartHandler struct {
	svc  CartService
	logg *logger.Logger
}

func NewCartHandler(svc CartService, logg *logger.Logger) *CartHandler {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CartHandler{svc: svc, logg: logg}
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req AddItemRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(r, h.logg, w, err)
		return
	}

	product, quantity, err := req.toDomain()
	if err != nil {
		writeError(r, h.logg, w, err)
		return
	}

	cart, err := h.svc.AddItem(r.Context(), sessionID, product, quantity)
	if err != nil {
		writeError(r, h.logg, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	cart, err := h.svc.GetCart(r.Context(), sessionID)
	if err != nil {
		writeError(r, h.logg, w, err)
		return
	}
	if cart == nil {
		writeError(r, h.logg, w, service.ErrCartNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	itemID := chi.URLParam(r, "itemId")

	cart, err := h.svc.RemoveItem(r.Context(), sessionID, itemID)
	if err != nil {
		writeError(r, h.logg, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	result, err := h.svc.Checkout(r.Context(), sessionID)
	if err != nil {
		writeError(r, h.logg, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCheckoutResponse(result))
}
