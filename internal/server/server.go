package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/swiftcart/swiftcart/internal/activity"
	"github.com/swiftcart/swiftcart/internal/auth"
	"github.com/swiftcart/swiftcart/internal/cart"
	"github.com/swiftcart/swiftcart/internal/config"
	"github.com/swiftcart/swiftcart/internal/product"
	"github.com/swiftcart/swiftcart/internal/upload"
	"github.com/swiftcart/swiftcart/internal/web"
)

type Server struct {
	config     *config.AppConfig
	log        *zap.Logger
	httpServer *http.Server
}

type Params struct {
	fx.In

	Config          *config.AppConfig
	Logger          *zap.Logger
	AuthHandler     *auth.Handler
	AuthMiddleware  *auth.Middleware
	ProductHandler  *product.Handler
	CartHandler     *cart.Handler
	ActivityHandler *activity.Handler
	UploadHandler   *upload.Handler
	Recorder        activity.Recorder
}

func NewServer(p Params) *Server {
	r := mux.NewRouter()
	r.StrictSlash(true)
	r.Use(requestLogging(p.Logger))
	r.Use(corsMiddleware(p.Config.HTTP.AllowedOrigin))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		web.OK(w, "Hello from the server")
	}).Methods("GET")

	// Authenticated mutations additionally land in the audit log.
	audit := activity.Audit(p.Recorder)
	requireAuth := func(h http.HandlerFunc) http.HandlerFunc {
		return p.AuthMiddleware.RequireAuth(audit(h))
	}
	requireAdmin := func(h http.HandlerFunc) http.HandlerFunc {
		return p.AuthMiddleware.RequireAdmin(audit(h))
	}

	p.AuthHandler.RegisterRoutes(r.PathPrefix("/api/user").Subrouter(), p.AuthMiddleware)
	p.ProductHandler.RegisterRoutes(r.PathPrefix("/api/product").Subrouter(), requireAdmin)
	p.CartHandler.RegisterRoutes(r.PathPrefix("/api/cart").Subrouter(), requireAuth)
	p.ActivityHandler.RegisterRoutes(r.PathPrefix("/api/audit").Subrouter(), requireAuth, requireAdmin)
	p.UploadHandler.RegisterRoutes(r.PathPrefix("/api/upload").Subrouter(), requireAuth)

	addr := fmt.Sprintf("%s:%s", p.Config.Server.Host, p.Config.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  p.Config.HTTP.ReadTimeout,
		WriteTimeout: p.Config.HTTP.WriteTimeout,
	}

	return &Server{
		config:     p.Config,
		log:        p.Logger,
		httpServer: httpServer,
	}
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func (s *Server) Stop() {
	s.log.Info("shutting down HTTP server")

	timeout := s.config.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddString("allowed_origin", config.HTTP.AllowedOrigin)
		enc.AddDuration("read_timeout", config.HTTP.ReadTimeout)
		enc.AddDuration("write_timeout", config.HTTP.WriteTimeout)
		return nil
	})
}
