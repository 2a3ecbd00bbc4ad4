package upload

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/config"
)

func NewModule() fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(cfg *config.AppConfig) (Store, error) {
				return NewDiskStore(cfg.Upload.Dir, cfg.Upload.PublicURL)
			},
		),
		fx.Annotate(
			func(store Store, log *zap.Logger, cfg *config.AppConfig) *Handler {
				return NewHandler(store, log, cfg.HTTP.MaxUploadBytes)
			},
		),
	)
}
