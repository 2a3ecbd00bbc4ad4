package product

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the catalog endpoints. Reads are public,
// writes are admin-only.
func (h *Handler) RegisterRoutes(r *mux.Router, requireAdmin func(http.HandlerFunc) http.HandlerFunc) {
	r.HandleFunc("/create", requireAdmin(h.Create)).Methods("POST")
	r.HandleFunc("/getallproduct", h.List).Methods("GET")
	r.HandleFunc("/product/{id}", h.Get).Methods("GET")
	r.HandleFunc("/update/{id}", requireAdmin(h.Update)).Methods("PUT")
	r.HandleFunc("/delete/{id}", requireAdmin(h.Delete)).Methods("DELETE")
}

type CreateRequest struct {
	Title       string `json:"title" validate:"required,max=128"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	product, err := h.service.Create(Input{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, ErrProductExists) {
			web.Error(w, http.StatusConflict, "Product Already Exists")
			return
		}
		h.log.Error("failed to create product", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Product *Product `json:"product"`
	}{Success: true, Message: "Product created successfully", Product: product})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List()
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success     bool      `json:"success"`
		AllProducts []Product `json:"allProducts"`
		Message     string    `json:"message"`
	}{Success: true, AllProducts: products, Message: "All Products Fetched Successfully"})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			web.Error(w, http.StatusNotFound, "Product Not Found")
			return
		}
		h.log.Error("failed to fetch product", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Product *Product `json:"product"`
		Message string   `json:"message"`
	}{Success: true, Product: product, Message: "Product Fetched Successfully"})
}

type UpdateRequest struct {
	Title       string `json:"title" validate:"omitempty,max=128"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image" validate:"omitempty,url"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.Update(id, Input{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			web.Error(w, http.StatusNotFound, "Product Not Found")
			return
		}
		h.log.Error("failed to update product", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Product *Product `json:"product"`
		Message string   `json:"message"`
	}{Success: true, Product: product, Message: "Product updated successfully"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			web.Error(w, http.StatusNotFound, "Product Not Found")
			return
		}
		h.log.Error("failed to delete product", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.OK(w, "Product Deleted Successfully")
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return uint(id), true
}
