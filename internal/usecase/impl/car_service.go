package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "dealership/internal/delivery/context"
	"dealership/internal/domain/entity"
	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/domain/repository"
	"dealership/internal/domain/service"
	apperrors "dealership/internal/errors"
	"dealership/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const eventPublishTimeout = 5 * time.Second

// demoCars are inserted by FillCars into an empty inventory.
var demoCars = []entity.Car{
	{Name: "Car 1", Brand: "Brand A", Year: 2020},
	{Name: "Car 2", Brand: "Brand B", Year: 2021},
	{Name: "Car 3", Brand: "Brand C", Year: 2022},
}

// carService implements the CarUsecase interface.
type carService struct {
	txManager repository.TransactionManager
	carRepo   repository.CarRepository
	imageRepo repository.ImageRepository
	qrService service.QRCodeService
	publisher service.EventPublisher
	logger    *slog.Logger
}

// CarServiceParams holds dependencies for CarService, injected by Fx.
type CarServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CarRepo   repository.CarRepository
	ImageRepo repository.ImageRepository
	QRService service.QRCodeService
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewCarService is the constructor for carService.
func NewCarService(params CarServiceParams) usecase.CarUsecase {
	return &carService{
		txManager: params.TxManager,
		carRepo:   params.CarRepo,
		imageRepo: params.ImageRepo,
		qrService: params.QRService,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (srv *carService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.Logger(ctx, srv.logger)
}

func (srv *carService) ListCars(ctx context.Context) ([]*entity.Car, error) {
	cars, err := srv.carRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cars")
	}

	return cars, nil
}

func (srv *carService) GetCar(ctx context.Context, id uuid.UUID) (*entity.Car, error) {
	car, err := srv.carRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapCarError(err, "failed to get car")
	}

	return car, nil
}

// CreateCar writes the car and its initial images in one transaction.
func (srv *carService) CreateCar(ctx context.Context, input *usecase.CreateCarInput) (*usecase.CarOutput, error) {
	car := &entity.Car{
		Name:  input.Name,
		Brand: input.Brand,
		Year:  input.Year,
		Price: input.Price,
	}

	var images []*entity.CarImageInfo
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewCarRepository().Create(ctx, car); err != nil {
			return errors.Wrap(err, "failed to create car")
		}

		var err error
		images, err = insertImages(ctx, repoFactory.NewImageRepository(), car.ID, input.Images)

		return err
	})
	if err != nil {
		srv.log(ctx).Error("Create car transaction failed", slog.Int("images", len(input.Images)), slog.Any("error", err))

		return nil, transactionFailure(err, "create car")
	}

	srv.log(ctx).Info("Car created", slog.Any("carID", car.ID), slog.Int("images", len(images)))
	srv.publish(ctx, service.EventCarCreated, car.ID, images)

	return &usecase.CarOutput{Car: car, Images: images}, nil
}

func (srv *carService) UpdateCar(ctx context.Context, input *usecase.UpdateCarInput) (*entity.Car, error) {
	car := &entity.Car{
		ID:    input.ID,
		Name:  input.Name,
		Brand: input.Brand,
		Year:  input.Year,
		Price: input.Price,
	}
	if err := srv.carRepo.Update(ctx, car); err != nil {
		return nil, mapCarError(err, "failed to update car")
	}

	return car, nil
}

// DeleteCar removes the car together with all of its images.
func (srv *carService) DeleteCar(ctx context.Context, id uuid.UUID) error {
	var removedImages int64
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		removedImages, err = repoFactory.NewImageRepository().DeleteByCar(ctx, id)
		if err != nil {
			return err
		}

		return repoFactory.NewCarRepository().Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return mapCarError(err, "failed to delete car")
		}

		return transactionFailure(err, "delete car")
	}

	srv.log(ctx).Info("Car deleted", slog.Any("carID", id), slog.Int64("images", removedImages))
	srv.publish(ctx, service.EventCarDeleted, id, nil)

	return nil
}

// FillCars seeds the demo inventory when no car exists yet.
func (srv *carService) FillCars(ctx context.Context) (*usecase.FillOutput, error) {
	filled := false
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		carRepo := repoFactory.NewCarRepository()

		count, err := carRepo.Count(ctx)
		if err != nil || count > 0 {
			return err
		}

		for _, demo := range demoCars {
			car := demo
			if err := carRepo.Create(ctx, &car); err != nil {
				return errors.Wrapf(err, "failed to create demo car %s", demo.Name)
			}
		}
		filled = true

		return nil
	})
	if err != nil {
		return nil, transactionFailure(err, "fill cars")
	}

	cars, err := srv.carRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cars after fill")
	}

	return &usecase.FillOutput{Filled: filled, Cars: cars}, nil
}

// UploadImages appends the images to an existing car, strictly in input order.
// Either every image is stored or none is. An empty batch is a no-op.
func (srv *carService) UploadImages(ctx context.Context, input *usecase.UploadImagesInput) ([]*entity.CarImageInfo, error) {
	if len(input.Images) == 0 {
		return []*entity.CarImageInfo{}, nil
	}

	var images []*entity.CarImageInfo
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.NewCarRepository().FindByID(ctx, input.CarID); err != nil {
			return err
		}

		var err error
		images, err = insertImages(ctx, repoFactory.NewImageRepository(), input.CarID, input.Images)

		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return nil, mapCarError(err, "failed to upload images")
		}

		srv.log(ctx).Error("Image upload rolled back",
			slog.Any("carID", input.CarID),
			slog.Int("images", len(input.Images)),
			slog.Any("error", err),
		)

		return nil, transactionFailure(err, "upload images")
	}

	srv.log(ctx).Info("Images uploaded", slog.Any("carID", input.CarID), slog.Int("images", len(images)))
	srv.publish(ctx, service.EventCarImagesUploaded, input.CarID, images)

	return images, nil
}

func (srv *carService) ListImages(ctx context.Context, carID uuid.UUID) ([]*entity.CarImageInfo, error) {
	if _, err := srv.carRepo.FindByID(ctx, carID); err != nil {
		return nil, mapCarError(err, "failed to list images")
	}

	images, err := srv.imageRepo.ListByCar(ctx, carID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list images")
	}

	return images, nil
}

func (srv *carService) GetImage(ctx context.Context, carID, imageID uuid.UUID) (*entity.CarImage, error) {
	image, err := srv.imageRepo.FindByIDAndCar(ctx, imageID, carID)
	if err != nil {
		return nil, mapCarError(err, "failed to get image")
	}

	return image, nil
}

// DeleteImage removes one image; it must belong to carID.
func (srv *carService) DeleteImage(ctx context.Context, carID, imageID uuid.UUID) error {
	if err := srv.imageRepo.DeleteByIDAndCar(ctx, imageID, carID); err != nil {
		return mapCarError(err, "failed to delete image")
	}

	srv.log(ctx).Info("Image deleted", slog.Any("carID", carID), slog.Any("imageID", imageID))
	srv.publish(ctx, service.EventCarImageDeleted, carID, []*entity.CarImageInfo{{ID: imageID, CarID: carID}})

	return nil
}

func (srv *carService) ListingQR(ctx context.Context, carID uuid.UUID) ([]byte, error) {
	if _, err := srv.carRepo.FindByID(ctx, carID); err != nil {
		return nil, mapCarError(err, "failed to render listing QR")
	}

	png, err := srv.qrService.GenerateCarListingQR(carID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	return png, nil
}

// publish emits an inventory event after a commit. Failures are logged only.
func (srv *carService) publish(ctx context.Context, eventType string, carID uuid.UUID, images []*entity.CarImageInfo) {
	if srv.publisher == nil {
		return
	}

	event := &service.InventoryEvent{
		RequestID: deliverycontext.RequestIDFrom(ctx),
		Type:      eventType,
		CarID:     carID.String(),
	}
	for _, image := range images {
		event.ImageIDs = append(event.ImageIDs, image.ID.String())
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := srv.publisher.PublishInventoryEvent(publishCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish inventory event",
			slog.String("type", eventType),
			slog.Any("carID", carID),
			slog.Any("error", err),
		)
	}
}

// insertImages stores blobs one row each, in order, stopping at the first failure.
func insertImages(ctx context.Context, imageRepo repository.ImageRepository, carID uuid.UUID, blobs [][]byte) ([]*entity.CarImageInfo, error) {
	infos := make([]*entity.CarImageInfo, 0, len(blobs))
	for i, blob := range blobs {
		image := &entity.CarImage{CarID: carID, Data: blob}
		if err := imageRepo.Create(ctx, image); err != nil {
			return nil, errors.Wrapf(err, "failed to insert image %d of %d", i+1, len(blobs))
		}

		infos = append(infos, &entity.CarImageInfo{
			ID:        image.ID,
			CarID:     carID,
			Size:      len(blob),
			CreatedAt: image.CreatedAt,
		})
	}

	return infos, nil
}

func transactionFailure(err error, operation string) error {
	return errors.Wrap(apperrors.Mark(err, domainerrors.ErrTransactionFailed), operation)
}

func mapCarError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrCarNotFound):
		return errors.Wrap(domainerrors.ErrCarNotFound, message)
	case errors.Is(err, repository.ErrImageNotFound):
		return errors.Wrap(domainerrors.ErrImageNotFound, message)
	default:
		return errors.Wrap(err, message)
	}
}
