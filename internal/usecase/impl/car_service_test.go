package impl

import (
	"context"
	"log/slog"
	"testing"

	"dealership/config"
	"dealership/internal/domain/entity"
	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/domain/repository"
	"dealership/internal/domain/service"
	"dealership/internal/infra/persistence/database"
	"dealership/internal/infra/qrcode"
	mockSvc "dealership/internal/mocks/service"
	"dealership/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type carServiceFixtures struct {
	service   usecase.CarUsecase
	db        *gorm.DB
	publisher *mockSvc.MockEventPublisher
}

// createTestCarService wires the car service to a private in-memory SQLite database.
func createTestCarService(t *testing.T) carServiceFixtures {
	t.Helper()

	db, err := database.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", gormlogger.Discard)
	require.NoError(t, err)
	_, err = database.Migrate(context.Background(), db, config.DriverSQLite)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	publisher := mockSvc.NewMockEventPublisher(t)
	svc := NewCarService(CarServiceParams{
		TxManager: database.NewTransactionManager(db),
		CarRepo:   database.NewCarRepository(db),
		ImageRepo: database.NewImageRepository(db),
		QRService: qrcode.NewQRCodeService(128, "M", "http://localhost:3000"),
		Publisher: publisher,
		Logger:    slog.New(slog.DiscardHandler),
	})

	return carServiceFixtures{service: svc, db: db, publisher: publisher}
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e *service.InventoryEvent) bool { return e.Type == eventType })
}

func TestCarService_UploadImages_StoresInOrder(t *testing.T) {
	fx := createTestCarService(t)
	ctx := context.Background()

	fx.publisher.On("PublishInventoryEvent", mock.Anything, eventOfType(service.EventCarCreated)).Return(nil).Once()
	created, err := fx.service.CreateCar(ctx, &usecase.CreateCarInput{Name: "Car", Brand: "Brand", Year: 2021})
	require.NoError(t, err)

	var published *service.InventoryEvent
	fx.publisher.On("PublishInventoryEvent", mock.Anything, eventOfType(service.EventCarImagesUploaded)).
		Run(func(args mock.Arguments) { published = args.Get(1).(*service.InventoryEvent) }).
		Return(nil).Once()

	blobs := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}
	images, err := fx.service.UploadImages(ctx, &usecase.UploadImagesInput{CarID: created.Car.ID, Images: blobs})
	require.NoError(t, err)
	require.Len(t, images, 3)
	for i, image := range images {
		assert.Equal(t, len(blobs[i]), image.Size)
		assert.Equal(t, created.Car.ID, image.CarID)
	}

	require.NotNil(t, published)
	assert.Equal(t, created.Car.ID.String(), published.CarID)
	assert.Equal(t, []string{images[0].ID.String(), images[1].ID.String(), images[2].ID.String()}, published.ImageIDs)

	stored, err := fx.service.ListImages(ctx, created.Car.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	image, err := fx.service.GetImage(ctx, created.Car.ID, images[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("bb"), image.Data)
}

func TestCarService_UploadImages_UnknownCar(t *testing.T) {
	fx := createTestCarService(t)

	_, err := fx.service.UploadImages(context.Background(), &usecase.UploadImagesInput{
		CarID:  uuid.New(),
		Images: [][]byte{[]byte("a")},
	})
	assert.ErrorIs(t, err, domainerrors.ErrCarNotFound)
	assert.NotErrorIs(t, err, domainerrors.ErrTransactionFailed)
}

func TestCarService_CreateCar_FailingImageLeavesNoCar(t *testing.T) {
	fx := createTestCarService(t)
	ctx := context.Background()

	attempts := 0
	require.NoError(t, fx.db.Callback().Create().Before("gorm:create").Register("test:fail_second_image", func(tx *gorm.DB) {
		if tx.Statement.Table == "car_images" {
			attempts++
			if attempts == 2 {
				tx.AddError(errors.New("disk full"))
			}
		}
	}))

	_, err := fx.service.CreateCar(ctx, &usecase.CreateCarInput{
		Name: "Car", Brand: "Brand", Year: 2021,
		Images: [][]byte{[]byte("1"), []byte("2"), []byte("3")},
	})
	require.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
	assert.Contains(t, err.Error(), "disk full")

	cars, err := fx.service.ListCars(ctx)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestCarService_DeleteCar_RemovesImages(t *testing.T) {
	fx := createTestCarService(t)
	ctx := context.Background()

	fx.publisher.On("PublishInventoryEvent", mock.Anything, mock.Anything).Return(nil)
	created, err := fx.service.CreateCar(ctx, &usecase.CreateCarInput{
		Name: "Car", Brand: "Brand", Year: 2021,
		Images: [][]byte{[]byte("1"), []byte("2")},
	})
	require.NoError(t, err)
	require.Len(t, created.Images, 2)

	require.NoError(t, fx.service.DeleteCar(ctx, created.Car.ID))

	_, err = fx.service.GetImage(ctx, created.Car.ID, created.Images[0].ID)
	assert.ErrorIs(t, err, domainerrors.ErrImageNotFound)

	err = fx.service.DeleteCar(ctx, created.Car.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCarNotFound)
}

func TestCarService_DeleteImage_ScopedToCar(t *testing.T) {
	fx := createTestCarService(t)
	ctx := context.Background()

	fx.publisher.On("PublishInventoryEvent", mock.Anything, mock.Anything).Return(nil)
	carA, err := fx.service.CreateCar(ctx, &usecase.CreateCarInput{Name: "A", Brand: "X", Year: 2020, Images: [][]byte{[]byte("img")}})
	require.NoError(t, err)
	carB, err := fx.service.CreateCar(ctx, &usecase.CreateCarInput{Name: "B", Brand: "Y", Year: 2020})
	require.NoError(t, err)

	imageID := carA.Images[0].ID

	err = fx.service.DeleteImage(ctx, carB.Car.ID, imageID)
	assert.ErrorIs(t, err, domainerrors.ErrImageNotFound)

	_, err = fx.service.GetImage(ctx, carA.Car.ID, imageID)
	require.NoError(t, err, "image survives a delete through the wrong car")

	require.NoError(t, fx.service.DeleteImage(ctx, carA.Car.ID, imageID))
}

func TestCarService_FillCars(t *testing.T) {
	fx := createTestCarService(t)
	ctx := context.Background()

	first, err := fx.service.FillCars(ctx)
	require.NoError(t, err)
	assert.True(t, first.Filled)
	require.Len(t, first.Cars, 3)
	assert.Equal(t, "Car 1", first.Cars[0].Name)

	second, err := fx.service.FillCars(ctx)
	require.NoError(t, err)
	assert.False(t, second.Filled)
	assert.Len(t, second.Cars, 3)
}

func TestCarService_UpdateCar(t *testing.T) {
	fx := createTestCarService(t)
	ctx := context.Background()

	fx.publisher.On("PublishInventoryEvent", mock.Anything, mock.Anything).Return(nil)
	created, err := fx.service.CreateCar(ctx, &usecase.CreateCarInput{Name: "Car", Brand: "Brand", Year: 2021, Price: 100})
	require.NoError(t, err)

	updated, err := fx.service.UpdateCar(ctx, &usecase.UpdateCarInput{ID: created.Car.ID, Name: "Car", Brand: "Brand", Year: 2022, Price: 90})
	require.NoError(t, err)
	assert.Equal(t, 2022, updated.Year)

	_, err = fx.service.UpdateCar(ctx, &usecase.UpdateCarInput{ID: uuid.New(), Name: "X", Brand: "Y", Year: 2000})
	assert.ErrorIs(t, err, domainerrors.ErrCarNotFound)
}

func TestCarService_ListingQR(t *testing.T) {
	fx := createTestCarService(t)
	ctx := context.Background()

	fx.publisher.On("PublishInventoryEvent", mock.Anything, mock.Anything).Return(nil)
	created, err := fx.service.CreateCar(ctx, &usecase.CreateCarInput{Name: "Car", Brand: "Brand", Year: 2021})
	require.NoError(t, err)

	png, err := fx.service.ListingQR(ctx, created.Car.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

	_, err = fx.service.ListingQR(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrCarNotFound)
}

func TestCarService_PublishFailureDoesNotFailRequest(t *testing.T) {
	fx := createTestCarService(t)

	fx.publisher.On("PublishInventoryEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	out, err := fx.service.CreateCar(context.Background(), &usecase.CreateCarInput{Name: "Car", Brand: "Brand", Year: 2021})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, out.Car.ID)
}

// --- Hand-written fakes for transaction edge cases ---

type fakeCarRepository struct {
	repository.CarRepository
	cars map[uuid.UUID]*entity.Car
}

func (r *fakeCarRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Car, error) {
	if car, ok := r.cars[id]; ok {
		return car, nil
	}

	return nil, repository.ErrCarNotFound
}

// scriptedImageRepository fails the failAt-th Create call.
type scriptedImageRepository struct {
	repository.ImageRepository
	failAt   int
	calls    int
	inserted [][]byte
}

func (r *scriptedImageRepository) Create(_ context.Context, image *entity.CarImage) error {
	r.calls++
	if r.calls == r.failAt {
		return errors.New("constraint violated")
	}
	image.ID = uuid.New()
	r.inserted = append(r.inserted, image.Data)

	return nil
}

type fakeRepositoryFactory struct {
	cars   repository.CarRepository
	images repository.ImageRepository
}

func (f *fakeRepositoryFactory) NewUserRepository() repository.UserRepository   { return nil }
func (f *fakeRepositoryFactory) NewCarRepository() repository.CarRepository     { return f.cars }
func (f *fakeRepositoryFactory) NewImageRepository() repository.ImageRepository { return f.images }

type fakeTxManager struct {
	factory    repository.RepositoryFactory
	commitErr  error
	executions int
	rolledBack bool
	committed  bool
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	m.executions++
	if err := fn(m.factory); err != nil {
		m.rolledBack = true

		return err
	}
	if m.commitErr != nil {
		return errors.Wrap(m.commitErr, "failed to commit transaction")
	}
	m.committed = true

	return nil
}

func newFakeCarService(t *testing.T, tm *fakeTxManager) usecase.CarUsecase {
	t.Helper()

	return NewCarService(CarServiceParams{
		TxManager: tm,
		Publisher: mockSvc.NewMockEventPublisher(t),
		Logger:    slog.New(slog.DiscardHandler),
	})
}

func TestCarService_UploadImages_EmptyBatchSkipsTransaction(t *testing.T) {
	tm := &fakeTxManager{}
	svc := newFakeCarService(t, tm)

	images, err := svc.UploadImages(context.Background(), &usecase.UploadImagesInput{CarID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Zero(t, tm.executions)
}

func TestCarService_UploadImages_InsertFailureRollsBack(t *testing.T) {
	carID := uuid.New()
	images := &scriptedImageRepository{failAt: 3}
	tm := &fakeTxManager{factory: &fakeRepositoryFactory{
		cars:   &fakeCarRepository{cars: map[uuid.UUID]*entity.Car{carID: {ID: carID}}},
		images: images,
	}}
	svc := newFakeCarService(t, tm)

	_, err := svc.UploadImages(context.Background(), &usecase.UploadImagesInput{
		CarID:  carID,
		Images: [][]byte{[]byte("1"), []byte("2"), []byte("3"), []byte("4"), []byte("5")},
	})
	require.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
	assert.Contains(t, err.Error(), "image 3 of 5")
	assert.True(t, tm.rolledBack)
	assert.False(t, tm.committed)
	assert.Equal(t, 3, images.calls, "inserts stop at the first failure")
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, images.inserted, "inserts happen in input order")
}

func TestCarService_UploadImages_CommitFailure(t *testing.T) {
	carID := uuid.New()
	commitErr := errors.New("database is locked")
	tm := &fakeTxManager{
		factory: &fakeRepositoryFactory{
			cars:   &fakeCarRepository{cars: map[uuid.UUID]*entity.Car{carID: {ID: carID}}},
			images: &scriptedImageRepository{},
		},
		commitErr: commitErr,
	}
	svc := newFakeCarService(t, tm)

	_, err := svc.UploadImages(context.Background(), &usecase.UploadImagesInput{CarID: carID, Images: [][]byte{[]byte("1")}})
	require.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, 1, tm.executions, "commit failures are not retried")
}
