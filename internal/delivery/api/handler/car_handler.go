package handler

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"dealership/internal/delivery/api/response"
	deliverycontext "dealership/internal/delivery/context"
	domainerrors "dealership/internal/domain/errors"
	"dealership/internal/usecase"
	"dealership/internal/util"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// imagesField is the multipart field carrying image files.
const imagesField = "images"

// CarHandler serves cars and their images.
type CarHandler struct {
	uc     usecase.CarUsecase
	logger *slog.Logger
}

func NewCarHandler(uc usecase.CarUsecase, logger *slog.Logger) *CarHandler {
	return &CarHandler{
		uc:     uc,
		logger: logger,
	}
}

func (h *CarHandler) ListCars(c echo.Context) error {
	cars, err := h.uc.ListCars(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCarResponses(cars))
}

func (h *CarHandler) GetCar(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	car, err := h.uc.GetCar(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCarResponse(car))
}

// CreateCar accepts JSON, or a multipart form whose optional "images" files
// are stored in the same transaction as the car.
func (h *CarHandler) CreateCar(c echo.Context) error {
	var req carRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := &usecase.CreateCarInput{
		Name:  req.Name,
		Brand: req.Brand,
		Year:  req.Year,
		Price: req.Price,
	}
	if isMultipart(c) {
		images, err := h.readImages(c)
		if err != nil {
			return err
		}
		input.Images = images
	}

	output, err := h.uc.CreateCar(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, &carWithImagesResponse{
		carResponse: toCarResponse(output.Car),
		Images:      output.Images,
	})
}

func (h *CarHandler) UpdateCar(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req carRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	car, err := h.uc.UpdateCar(c.Request().Context(), &usecase.UpdateCarInput{
		ID:    id,
		Name:  req.Name,
		Brand: req.Brand,
		Year:  req.Year,
		Price: req.Price,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCarResponse(car))
}

func (h *CarHandler) DeleteCar(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteCar(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// FillCars answers 201 when demo cars were inserted and 200 when the table already had rows.
func (h *CarHandler) FillCars(c echo.Context) error {
	output, err := h.uc.FillCars(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if output.Filled {
		status = http.StatusCreated
	}

	return response.Success(c, status, toCarResponses(output.Cars))
}

// UploadImages handles POST /cars/:id/images.
func (h *CarHandler) UploadImages(c echo.Context) error {
	carID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	images, err := h.readImages(c)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return errors.WithStack(domainerrors.ErrNoImages)
	}

	infos, err := h.uc.UploadImages(c.Request().Context(), &usecase.UploadImagesInput{
		CarID:  carID,
		Images: images,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, infos)
}

func (h *CarHandler) ListImages(c echo.Context) error {
	carID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	infos, err := h.uc.ListImages(c.Request().Context(), carID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, infos)
}

// GetImage streams the stored bytes with a sniffed content type.
func (h *CarHandler) GetImage(c echo.Context) error {
	carID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	imageID, err := uuidParam(c, "imageId")
	if err != nil {
		return err
	}

	image, err := h.uc.GetImage(c.Request().Context(), carID, imageID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, http.DetectContentType(image.Data), image.Data)
}

func (h *CarHandler) DeleteImage(c echo.Context) error {
	carID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	imageID, err := uuidParam(c, "imageId")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteImage(c.Request().Context(), carID, imageID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListingQR renders a PNG QR code pointing at the car listing.
func (h *CarHandler) ListingQR(c echo.Context) error {
	carID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	png, err := h.uc.ListingQR(c.Request().Context(), carID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// readImages loads every "images" file of a multipart request, in form order.
func (h *CarHandler) readImages(c echo.Context) ([][]byte, error) {
	if !isMultipart(c) {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("expected multipart/form-data"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("malformed multipart body"))
	}

	files := form.File[imagesField]
	images := make([][]byte, 0, len(files))
	var total int64
	for _, file := range files {
		data, err := readFormFile(file)
		if err != nil {
			return nil, err
		}
		total += int64(len(data))
		images = append(images, data)
	}

	deliverycontext.Logger(c.Request().Context(), h.logger).Debug("Read multipart images",
		slog.Int("files", len(images)),
		slog.String("total", util.FormatBytes(total)),
	)

	return images, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open upload %q", header.Filename)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read upload %q", header.Filename)
	}

	return data, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
