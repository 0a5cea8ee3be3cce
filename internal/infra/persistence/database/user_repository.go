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

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	crudRepository[entity.User, model.UserModel]
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		crudRepository: crudRepository[entity.User, model.UserModel]{
			db:         db,
			resource:   "user",
			notFound:   repository.ErrUserNotFound,
			toDomain:   toUserDomain,
			fromDomain: fromUserDomain,
			mapWriteErr: func(err error) error {
				if isUniqueConstraintViolation(err) {
					return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
				}

				return nil
			},
		},
	}
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var row model.UserModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&row), nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	id := data.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &model.UserModel{
		ID:           id,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
