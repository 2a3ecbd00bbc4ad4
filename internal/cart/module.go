package cart

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/swiftcart/swiftcart/internal/config"
)

// NewModule returns the cart module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig) (*Codec, error) {
					return NewCodec(config.Cart.ItemSecret)
				},
			),
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			fx.Annotate(
				func(log *zap.Logger, codec *Codec, repo Repository, products ProductFinder) *Service {
					return NewService(log, codec, repo, products)
				},
			),
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Handler {
					return NewHandler(svc, log)
				},
			),
		),
	)
}
