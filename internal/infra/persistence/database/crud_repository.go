package database

import (
	"context"

	domainerrors "dealership/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// crudRepository implements repository.Repository[E] on top of a GORM model M.
// Entity specific repositories embed it and add their own finders.
type crudRepository[E any, M any] struct {
	db         *gorm.DB
	resource   string
	notFound   error
	toDomain   func(*M) *E
	fromDomain func(*E) *M
	// mapWriteErr translates constraint violations into domain errors; nil means none apply.
	mapWriteErr func(err error) error
}

func (r *crudRepository[E, M]) FindAll(ctx context.Context) ([]*E, error) {
	var rows []*M
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list "+r.resource)
	}

	items := make([]*E, 0, len(rows))
	for _, row := range rows {
		items = append(items, r.toDomain(row))
	}

	return items, nil
}

func (r *crudRepository[E, M]) FindByID(ctx context.Context, id uuid.UUID) (*E, error) {
	var row M
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, r.notFound
		}

		return nil, errors.Wrapf(err, "failed to find %s by id", r.resource)
	}

	return r.toDomain(&row), nil
}

func (r *crudRepository[E, M]) Create(ctx context.Context, item *E) error {
	row := r.fromDomain(item)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return r.writeError(err, "failed to create "+r.resource)
	}

	*item = *r.toDomain(row)

	return nil
}

// Update writes every column except the primary key and creation time.
func (r *crudRepository[E, M]) Update(ctx context.Context, item *E) error {
	row := r.fromDomain(item)
	result := r.db.WithContext(ctx).Model(row).Select("*").Omit("id", "created_at").Updates(row)
	if result.Error != nil {
		return r.writeError(result.Error, "failed to update "+r.resource)
	}
	if result.RowsAffected == 0 {
		return r.notFound
	}

	updated := r.toDomain(row)
	if err := r.db.WithContext(ctx).First(row).Error; err == nil {
		updated = r.toDomain(row)
	}
	*item = *updated

	return nil
}

func (r *crudRepository[E, M]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete "+r.resource)
	}
	if result.RowsAffected == 0 {
		return r.notFound
	}

	return nil
}

func (r *crudRepository[E, M]) writeError(err error, details string) error {
	if r.mapWriteErr != nil {
		if mapped := r.mapWriteErr(err); mapped != nil {
			return mapped
		}
	}
	if isNotNullConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WrapMessage(details + ": missing required field")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}
