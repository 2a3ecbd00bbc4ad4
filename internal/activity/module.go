package activity

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewModule returns the activity module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			fx.Annotate(
				func(repo Repository, log *zap.Logger) *AsyncRecorder {
					return NewAsyncRecorder(repo, log)
				},
			),
			fx.Annotate(
				func(recorder *AsyncRecorder) Recorder {
					return recorder
				},
			),
			fx.Annotate(
				func(repo Repository, log *zap.Logger) *Handler {
					return NewHandler(repo, log)
				},
			),
		),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	recorder *AsyncRecorder,
	logger *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			recorder.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("draining activity recorder")
			recorder.Stop()
			return nil
		},
	})
}
