package activity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/web"
)

type Handler struct {
	repo Repository
	log  *zap.Logger
}

func NewHandler(repo Repository, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// RegisterRoutes mounts the activity endpoints on the given subrouter.
// requireAuth and requireAdmin wrap handlers with the corresponding
// access checks.
func (h *Handler) RegisterRoutes(r *mux.Router, requireAuth, requireAdmin func(http.HandlerFunc) http.HandlerFunc) {
	r.HandleFunc("/activities", requireAdmin(h.ListLoginActivities)).Methods("GET")
	r.HandleFunc("/activities/{id}", requireAdmin(h.DeleteLoginActivity)).Methods("DELETE")
	r.HandleFunc("/logs", requireAuth(h.ListAuditLogs)).Methods("GET")
}

func (h *Handler) ListLoginActivities(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.ListLogins()
	if err != nil {
		h.log.Error("failed to list login activities", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success    bool            `json:"success"`
		Activities []LoginActivity `json:"activities"`
	}{Success: true, Activities: records})
}

func (h *Handler) DeleteLoginActivity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid activity id")
		return
	}

	if err := h.repo.DeleteLogin(uint(id)); err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			web.Error(w, http.StatusNotFound, "Login activity not found")
			return
		}
		h.log.Error("failed to delete login activity", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.OK(w, "Login activity deleted successfully")
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.ListAudits()
	if err != nil {
		h.log.Error("failed to list audit logs", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool       `json:"success"`
		Logs    []AuditLog `json:"logs"`
	}{Success: true, Logs: records})
}
