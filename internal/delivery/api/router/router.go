// Package router registers the API routes on echo.
package router

import (
	"dealership/internal/delivery/api/handler"
	"dealership/internal/delivery/api/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	CarHandler     *handler.CarHandler
	SystemHandler  *handler.SystemHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	carHandler     *handler.CarHandler
	systemHandler  *handler.SystemHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		carHandler:     params.CarHandler,
		systemHandler:  params.SystemHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health-check", r.systemHandler.HealthCheck)
	e.POST("/init", r.systemHandler.InitSchema)

	// Public auth routes
	e.POST("/users", r.userHandler.Register)
	e.POST("/users/login", r.userHandler.Login)
	e.POST("/users/refresh", r.userHandler.RefreshToken)

	usersGroup := e.Group("/users", r.authMiddleware.Authenticate)
	{
		usersGroup.GET("", r.userHandler.ListUsers)
		usersGroup.GET("/:id", r.userHandler.GetUser)
		usersGroup.PUT("/:id", r.userHandler.UpdateUser)
		usersGroup.DELETE("/:id", r.userHandler.DeleteUser)
	}

	carsGroup := e.Group("/cars", r.authMiddleware.Authenticate)
	{
		carsGroup.GET("", r.carHandler.ListCars)
		carsGroup.POST("", r.carHandler.CreateCar)
		carsGroup.POST("/fill", r.carHandler.FillCars)
		carsGroup.GET("/:id", r.carHandler.GetCar)
		carsGroup.PUT("/:id", r.carHandler.UpdateCar)
		carsGroup.DELETE("/:id", r.carHandler.DeleteCar)
		carsGroup.GET("/:id/qr", r.carHandler.ListingQR)

		carsGroup.GET("/:id/images", r.carHandler.ListImages)
		carsGroup.POST("/:id/images", r.carHandler.UploadImages)
		carsGroup.GET("/:id/images/:imageId", r.carHandler.GetImage)
		carsGroup.DELETE("/:id/images/:imageId", r.carHandler.DeleteImage)
	}
}
