package impl

import (
	"context"
	"log/slog"

	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/domain/repository"
	"dealership/internal/usecase"

	"github.com/pkg/errors"
)

type systemService struct {
	schema repository.SchemaManager
	logger *slog.Logger
}

// NewSystemService is the constructor for systemService.
func NewSystemService(schema repository.SchemaManager, logger *slog.Logger) usecase.SystemUsecase {
	return &systemService{schema: schema, logger: logger}
}

func (srv *systemService) HealthCheck(ctx context.Context) error {
	if err := srv.schema.Ping(ctx); err != nil {
		return errors.Wrap(domainerrors.ErrInternalError.WithDetails("database unreachable"), err.Error())
	}

	return nil
}

func (srv *systemService) InitSchema(ctx context.Context) (int, error) {
	applied, err := srv.schema.Migrate(ctx)
	if err != nil {
		return 0, errors.Wrap(domainerrors.ErrInternalError.WithDetails("schema migration failed"), err.Error())
	}

	srv.logger.InfoContext(ctx, "Schema initialized", slog.Int("applied", applied))

	return applied, nil
}
