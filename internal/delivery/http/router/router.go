// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pinbook/internal/delivery/http/middleware"
	"pinbook/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProfileHandler *handler.ProfileHandler
	AddressHandler *handler.AddressHandler
	SessionHandler *handler.SessionHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	profileHandler *handler.ProfileHandler
	addressHandler *handler.AddressHandler
	sessionHandler *handler.SessionHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		profileHandler: params.ProfileHandler,
		addressHandler: params.AddressHandler,
		sessionHandler: params.SessionHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
		authGroup.GET("/session", r.userHandler.DescribeSession, r.authMiddleware.Authenticate)
	}

	// Address book routes, all scoped to the authenticated user
	addressGroup := e.Group("/addresses")
	addressGroup.Use(r.authMiddleware.Authenticate)
	{
		addressGroup.GET("", r.addressHandler.ListAddresses)
		addressGroup.POST("", r.addressHandler.CreateAddress)
		addressGroup.PATCH("/:id", r.addressHandler.UpdateAddress)
		addressGroup.DELETE("/:id", r.addressHandler.DeleteAddress)
		addressGroup.POST("/:id/favorite", r.addressHandler.ToggleFavorite)
		addressGroup.GET("/:id/qr", r.addressHandler.GetAddressQR)
	}

	// Profile routes
	profileGroup := e.Group("/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("", r.profileHandler.GetProfile)
		profileGroup.PATCH("", r.profileHandler.UpdateProfile)
		profileGroup.PUT("/password", r.profileHandler.ChangePassword)
	}

	// Active-sessions screen routes
	sessionGroup := e.Group("/sessions")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.GET("", r.sessionHandler.ListSessions)
		sessionGroup.DELETE("/:id", r.sessionHandler.RevokeSession)
		sessionGroup.DELETE("", r.sessionHandler.RevokeAllSessions)
	}
}
