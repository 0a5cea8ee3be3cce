package database

import (
	"context"

	"dealership/internal/domain/entity"
	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/domain/repository"
	"dealership/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// carRepository implements the domain.CarRepository interface using GORM.
type carRepository struct {
	crudRepository[entity.Car, model.CarModel]
}

// NewCarRepository is the constructor for carRepository.
func NewCarRepository(db *gorm.DB) repository.CarRepository {
	return &carRepository{
		crudRepository: crudRepository[entity.Car, model.CarModel]{
			db:         db,
			resource:   "car",
			notFound:   repository.ErrCarNotFound,
			toDomain:   toCarDomain,
			fromDomain: fromCarDomain,
		},
	}
}

// Count returns the number of stored cars.
func (repo *carRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.CarModel{}).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count cars")
	}

	return count, nil
}

func toCarDomain(data *model.CarModel) *entity.Car {
	if data == nil {
		return nil
	}

	return &entity.Car{
		ID:        data.ID,
		Name:      data.Name,
		Brand:     data.Brand,
		Year:      data.Year,
		Price:     data.Price,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromCarDomain(data *entity.Car) *model.CarModel {
	if data == nil {
		return nil
	}

	id := data.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &model.CarModel{
		ID:        id,
		Name:      data.Name,
		Brand:     data.Brand,
		Year:      data.Year,
		Price:     data.Price,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
