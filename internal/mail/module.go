package mail

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/config"
)

func NewModule() fx.Option {
	return fx.Provide(
		fx.Annotate(
			func(cfg *config.AppConfig, log *zap.Logger) Sender {
				return NewSender(&cfg.Mail, log)
			},
		),
	)
}
