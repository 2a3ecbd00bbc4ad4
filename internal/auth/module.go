package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/swiftcart/swiftcart/internal/activity"
	"github.com/swiftcart/swiftcart/internal/config"
	"github.com/swiftcart/swiftcart/internal/mail"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger, repo Repository, recorder activity.Recorder, mailer mail.Sender) *Service {
					return NewService(&config.Auth, log, repo, recorder, mailer)
				},
			),
			fx.Annotate(
				func(svc *Service, log *zap.Logger, config *config.AppConfig) *Handler {
					return NewHandler(svc, log, config.HTTP.LoginRatePerSec)
				},
			),
			fx.Annotate(
				func(config *config.AppConfig) *Middleware {
					return NewMiddleware(&config.Auth)
				},
			),
		),
	)
}
