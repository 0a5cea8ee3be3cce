package database

import (
	"context"

	"dealership/internal/domain/entity"
	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/domain/repository"
	"dealership/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// imageRepository implements the domain.ImageRepository interface using GORM.
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository is the constructor for imageRepository.
func NewImageRepository(db *gorm.DB) repository.ImageRepository {
	return &imageRepository{db: db}
}

// Create inserts a single image row.
func (repo *imageRepository) Create(ctx context.Context, image *entity.CarImage) error {
	row := fromImageDomain(image)
	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to insert car image")
	}

	image.ID = row.ID
	image.CreatedAt = row.CreatedAt

	return nil
}

// ListByCar returns metadata of a car's images without loading the blobs.
func (repo *imageRepository) ListByCar(ctx context.Context, carID uuid.UUID) ([]*entity.CarImageInfo, error) {
	var rows []model.CarImageInfoRow
	err := repo.db.WithContext(ctx).
		Model(&model.CarImageModel{}).
		Select("id, car_id, length(image_data) AS size, created_at").
		Where("car_id = ?", carID).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list car images")
	}

	infos := make([]*entity.CarImageInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, &entity.CarImageInfo{
			ID:        row.ID,
			CarID:     row.CarID,
			Size:      row.Size,
			CreatedAt: row.CreatedAt,
		})
	}

	return infos, nil
}

// FindByIDAndCar returns one image with its data, scoped to the parent car.
func (repo *imageRepository) FindByIDAndCar(ctx context.Context, id, carID uuid.UUID) (*entity.CarImage, error) {
	var row model.CarImageModel
	err := repo.db.WithContext(ctx).Where("id = ? AND car_id = ?", id, carID).First(&row).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrImageNotFound
		}

		return nil, errors.Wrap(err, "failed to find car image")
	}

	return toImageDomain(&row), nil
}

// DeleteByIDAndCar deletes an image only when both ids match.
func (repo *imageRepository) DeleteByIDAndCar(ctx context.Context, id, carID uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ? AND car_id = ?", id, carID).Delete(&model.CarImageModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete car image")
	}
	if result.RowsAffected == 0 {
		return repository.ErrImageNotFound
	}

	return nil
}

// DeleteByCar removes all images of a car.
func (repo *imageRepository) DeleteByCar(ctx context.Context, carID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).Where("car_id = ?", carID).Delete(&model.CarImageModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete car images")
	}

	return result.RowsAffected, nil
}

func toImageDomain(data *model.CarImageModel) *entity.CarImage {
	return &entity.CarImage{
		ID:        data.ID,
		CarID:     data.CarID,
		Data:      data.ImageData,
		CreatedAt: data.CreatedAt,
	}
}

func fromImageDomain(data *entity.CarImage) *model.CarImageModel {
	id := data.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &model.CarImageModel{
		ID:        id,
		CarID:     data.CarID,
		ImageData: data.Data,
		CreatedAt: data.CreatedAt,
	}
}
