package cart

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/web"
)

type Handler struct {
	service  *Service
	log      *zap.Logger
	validate *validator.Validate
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		log:      log,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the cart endpoints. Every route is
// authenticated; the cart owner is the authenticated principal.
func (h *Handler) RegisterRoutes(r *mux.Router, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	r.HandleFunc("", requireAuth(h.Get)).Methods("GET")
	r.HandleFunc("", requireAuth(h.Clear)).Methods("DELETE")
	r.HandleFunc("/items", requireAuth(h.AddItem)).Methods("POST")
	r.HandleFunc("/items", requireAuth(h.UpdateItem)).Methods("PUT")
	r.HandleFunc("/items", requireAuth(h.RemoveItem)).Methods("DELETE")
}

type ItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type RemoveItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	p, err := web.PrincipalFromContext(r.Context())
	if err != nil {
		web.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ItemRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "ProductId and quantity are required")
		return
	}

	view, err := h.service.AddItem(p.UserID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondCart(w, view, "Item added to cart successfully")
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	p, err := web.PrincipalFromContext(r.Context())
	if err != nil {
		web.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ItemRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "ProductId and quantity are required")
		return
	}

	view, err := h.service.UpdateItem(p.UserID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondCart(w, view, "Cart item updated successfully")
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	p, err := web.PrincipalFromContext(r.Context())
	if err != nil {
		web.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req RemoveItemRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "ProductId is required")
		return
	}

	view, err := h.service.RemoveItem(p.UserID, req.ProductID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondCart(w, view, "Item removed from cart successfully")
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	p, err := web.PrincipalFromContext(r.Context())
	if err != nil {
		web.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Clear(p.UserID); err != nil {
		h.respondError(w, err)
		return
	}

	web.OK(w, "All items removed from cart successfully")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := web.PrincipalFromContext(r.Context())
	if err != nil {
		web.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	view, err := h.service.Get(p.UserID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondCart(w, view, "Cart fetched successfully")
}

func (h *Handler) respondCart(w http.ResponseWriter, view *View, message string) {
	web.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Cart    *View  `json:"cart"`
	}{Success: true, Message: message, Cart: view})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		web.Error(w, http.StatusBadRequest, "Quantity must be at least 1")
	case errors.Is(err, ErrProductNotFound):
		web.Error(w, http.StatusBadRequest, "Product not found")
	case errors.Is(err, ErrCartNotFound):
		web.Error(w, http.StatusNotFound, "Cart not found")
	case errors.Is(err, ErrItemNotFound):
		web.Error(w, http.StatusNotFound, "Item not found in cart")
	case errors.Is(err, ErrVersionConflict):
		web.Error(w, http.StatusConflict, "Cart was modified by another request, please retry")
	default:
		h.log.Error("cart operation failed", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
