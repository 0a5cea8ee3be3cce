package usecase

import "context"

// SystemUsecase covers operational endpoints.
type SystemUsecase interface {
	// HealthCheck reports whether the database is reachable.
	HealthCheck(ctx context.Context) error

	// InitSchema applies pending migrations and returns how many ran.
	InitSchema(ctx context.Context) (int, error)
}
