package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/web"
)

type Handler struct {
	service      *Service
	log          *zap.Logger
	validate     *validator.Validate
	loginLimiter *limiter.Limiter
}

func NewHandler(service *Service, log *zap.Logger, loginRatePerSec float64) *Handler {
	if loginRatePerSec <= 0 {
		loginRatePerSec = 5
	}
	return &Handler{
		service:      service,
		log:          log,
		validate:     validator.New(),
		loginLimiter: tollbooth.NewLimiter(loginRatePerSec, nil),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router, mw *Middleware) {
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.Handle("/login", tollbooth.LimitFuncHandler(h.loginLimiter, h.Login)).Methods("POST")
	r.HandleFunc("/profile/{id}", mw.RequireAuth(h.GetProfile)).Methods("GET")
	r.HandleFunc("/update/{id}", mw.RequireAuth(h.UpdateProfile)).Methods("PUT")
	r.HandleFunc("/password/{id}", mw.RequireAuth(h.ChangePassword)).Methods("PUT")
	r.HandleFunc("/allusers", mw.RequireAdmin(h.ListUsers)).Methods("GET")
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=8,max=12"`
	Image     string `json:"image" validate:"omitempty,url"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		h.log.Warn("invalid register request", zap.Error(err))
		web.Error(w, http.StatusBadRequest, "Please enter all required fields")
		return
	}

	_, err := h.service.Register(RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Image:     req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			web.Error(w, http.StatusConflict, "User Already Exists")
		case errors.Is(err, ErrWeakPassword):
			web.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("failed to register user", zap.Error(err))
			web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	web.OK(w, "Registered Successfully. Please check your email for verification and password.")
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		h.log.Warn("invalid login request", zap.Error(err))
		web.Error(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	token, user, err := h.service.Login(req.Email, req.Password, h.requestInfo(r, req.Email))
	if err != nil {
		var locked *AccountLockedError
		var invalid *InvalidCredentialsError
		switch {
		case errors.Is(err, ErrUserNotFound):
			web.Error(w, http.StatusBadRequest, "User not found")
		case errors.As(err, &locked):
			web.Error(w, http.StatusForbidden, fmt.Sprintf(
				"Account is locked due to too many failed login attempts. Please try again in %d seconds.",
				locked.RetryAfterSeconds))
		case errors.As(err, &invalid):
			if invalid.LockImposed {
				web.Error(w, http.StatusBadRequest,
					"Incorrect password. Your account has been locked. Please try again later.")
			} else {
				web.Error(w, http.StatusBadRequest, fmt.Sprintf(
					"Incorrect password. %d attempts remaining.", invalid.RemainingAttempts))
			}
		default:
			h.log.Error("login failed", zap.String("email", req.Email), zap.Error(err))
			web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Token    string `json:"token"`
		UserData *User  `json:"userData"`
		Message  string `json:"message"`
	}{Success: true, Token: token, UserData: user, Message: "Login successful"})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUserID(w, r)
	if !ok {
		return
	}
	if !h.selfOrAdmin(w, r, id) {
		return
	}

	user, err := h.service.GetProfile(id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			web.Error(w, http.StatusNotFound, "User Not Found")
			return
		}
		h.log.Error("failed to fetch profile", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		User    *User  `json:"user"`
		Message string `json:"message"`
	}{Success: true, User: user, Message: "Profile Fetched Successfully"})
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=64"`
	LastName  string `json:"lastName" validate:"omitempty,max=64"`
	Email     string `json:"email" validate:"omitempty,email"`
	Image     string `json:"image" validate:"omitempty,url"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUserID(w, r)
	if !ok {
		return
	}
	if !h.selfOrAdmin(w, r, id) {
		return
	}

	var req UpdateProfileRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	user, err := h.service.UpdateProfile(id, ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Image:     req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			web.Error(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrUserExists):
			web.Error(w, http.StatusConflict, "Email already registered")
		default:
			h.log.Error("failed to update profile", zap.Error(err))
			web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		User    *User  `json:"user"`
		Message string `json:"message"`
	}{Success: true, User: user, Message: "Profile updated successfully"})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	p, err := web.PrincipalFromContext(r.Context())
	if err != nil || p.UserID != id {
		web.Error(w, http.StatusForbidden, "you can only change your own password")
		return
	}

	var req ChangePasswordRequest
	if err := web.DecodeValid(r, h.validate, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Please enter both current and new passwords.")
		return
	}

	if err := h.service.ChangePassword(id, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			web.Error(w, http.StatusNotFound, "User not found.")
		case errors.Is(err, ErrWrongPassword):
			web.Error(w, http.StatusBadRequest, "Current password is incorrect.")
		case errors.Is(err, ErrPasswordReused):
			web.Error(w, http.StatusBadRequest, "New password cannot be the same as any previously used password.")
		case errors.Is(err, ErrWeakPassword):
			web.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("failed to change password", zap.Error(err))
			web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	web.OK(w, "Password changed successfully.")
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers()
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	web.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Users   []User `json:"users"`
		Message string `json:"message"`
	}{Success: true, Users: users, Message: "All Users Fetched Successfully"})
}

func (h *Handler) pathUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.Error(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) selfOrAdmin(w http.ResponseWriter, r *http.Request, id uint) bool {
	p, err := web.PrincipalFromContext(r.Context())
	if err != nil || (p.UserID != id && !p.Admin) {
		web.Error(w, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

// requestInfo builds the redacted transport context stored with login
// activity records. Credentials never make it into the log.
func (h *Handler) requestInfo(r *http.Request, email string) RequestInfo {
	details, _ := json.Marshal(map[string]string{
		"email":     email,
		"ip":        r.RemoteAddr,
		"userAgent": r.UserAgent(),
	})
	return RequestInfo{
		Endpoint: r.URL.Path,
		Details:  string(details),
	}
}
