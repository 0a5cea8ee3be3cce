package database

import (
	"context"
	"testing"

	"dealership/internal/domain/entity"
	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &entity.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	found.Name = "Alice Cooper"
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", reloaded.Name)
	assert.Equal(t, "hash", reloaded.PasswordHash)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &entity.User{Name: "A", Email: "dup@example.com", PasswordHash: "h"}))
	err := repo.Create(ctx, &entity.User{Name: "B", Email: "dup@example.com", PasswordHash: "h"})

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = repo.Update(ctx, &entity.User{ID: uuid.New(), Name: "Ghost", Email: "ghost@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCarRepository_CRUDAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewCarRepository(newTestDB(t))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	car := &entity.Car{Name: "Car 1", Brand: "Brand A", Year: 2020, Price: 15000}
	require.NoError(t, repo.Create(ctx, car))

	car.Price = 14000
	require.NoError(t, repo.Update(ctx, car))

	found, err := repo.FindByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, 14000.0, found.Price)
	assert.Equal(t, 2020, found.Year)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, car.ID))
	assert.ErrorIs(t, repo.Delete(ctx, car.ID), repository.ErrCarNotFound)
}

func TestImageRepository_ScopedToParent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cars := NewCarRepository(db)
	images := NewImageRepository(db)

	carA := &entity.Car{Name: "A", Brand: "X", Year: 2020}
	carB := &entity.Car{Name: "B", Brand: "Y", Year: 2021}
	require.NoError(t, cars.Create(ctx, carA))
	require.NoError(t, cars.Create(ctx, carB))

	image := &entity.CarImage{CarID: carA.ID, Data: []byte{1, 2, 3}}
	require.NoError(t, images.Create(ctx, image))

	// Deleting through the wrong parent reports not found and keeps the row.
	err := images.DeleteByIDAndCar(ctx, image.ID, carB.ID)
	assert.ErrorIs(t, err, repository.ErrImageNotFound)

	found, err := images.FindByIDAndCar(ctx, image.ID, carA.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, found.Data)

	_, err = images.FindByIDAndCar(ctx, image.ID, carB.ID)
	assert.ErrorIs(t, err, repository.ErrImageNotFound)

	infos, err := images.ListByCar(ctx, carA.ID)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 3, infos[0].Size)
	assert.Equal(t, carA.ID, infos[0].CarID)

	require.NoError(t, images.DeleteByIDAndCar(ctx, image.ID, carA.ID))
	assert.ErrorIs(t, images.DeleteByIDAndCar(ctx, image.ID, carA.ID), repository.ErrImageNotFound)
}

func TestImageRepository_DeleteByCar(t *testing.T) {
	ctx := context.Background()
	images := NewImageRepository(newTestDB(t))
	carID := uuid.New()

	for range 3 {
		require.NoError(t, images.Create(ctx, &entity.CarImage{CarID: carID, Data: []byte("img")}))
	}

	deleted, err := images.DeleteByCar(ctx, carID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	infos, err := images.ListByCar(ctx, carID)
	require.NoError(t, err)
	assert.Empty(t, infos)
}
