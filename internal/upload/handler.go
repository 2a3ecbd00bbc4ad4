package upload

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/web"
)

type Handler struct {
	store    Store
	log      *zap.Logger
	maxBytes int64
}

func NewHandler(store Store, log *zap.Logger, maxBytes int64) *Handler {
	return &Handler{store: store, log: log, maxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(r *mux.Router, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	r.HandleFunc("/image", requireAuth(h.UploadImage)).Methods("POST")
}

// UploadImage accepts a multipart image and responds with the URL it
// will be served from. The folder form value selects the target
// namespace (user or product).
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		web.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder != "user" && folder != "product" {
		folder = "misc"
	}

	url, err := h.store.Save(folder, header.Filename, file)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			web.Error(w, http.StatusBadRequest, "unsupported image type")
			return
		}
		h.log.Error("failed to store upload", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
	}{Success: true, URL: url})
}
