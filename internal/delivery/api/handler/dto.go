package handler

import (
	"time"

	"dealership/internal/domain/entity"

	"github.com/google/uuid"
)

// Request bodies. Only the fields listed here are bound.

type registerUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

type carRequest struct {
	Name  string  `json:"name" form:"name" validate:"required,max=100"`
	Brand string  `json:"brand" form:"brand" validate:"required,max=100"`
	Year  int     `json:"year" form:"year" validate:"required,gte=1886,lte=2100"`
	Price float64 `json:"price" form:"price" validate:"gte=0"`
}

// Response bodies.

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(user *entity.User) *userResponse {
	return &userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type carResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Year      int       `json:"year"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCarResponse(car *entity.Car) *carResponse {
	return &carResponse{
		ID:        car.ID,
		Name:      car.Name,
		Brand:     car.Brand,
		Year:      car.Year,
		Price:     car.Price,
		CreatedAt: car.CreatedAt,
		UpdatedAt: car.UpdatedAt,
	}
}

func toCarResponses(cars []*entity.Car) []*carResponse {
	out := make([]*carResponse, 0, len(cars))
	for _, car := range cars {
		out = append(out, toCarResponse(car))
	}

	return out
}

type carWithImagesResponse struct {
	*carResponse
	Images []*entity.CarImageInfo `json:"images"`
}
