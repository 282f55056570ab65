package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"incubator/internal/config"
	"incubator/internal/handler"
	"incubator/internal/logging"
	guard "incubator/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	sessionGuard *guard.Guard,
	authHandler *handler.AuthHandler,
	eventHandler *handler.EventHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hey!")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// Public routes
	v1.POST("/register", authHandler.Register)
	v1.PUT("/activate", authHandler.Activate)
	v1.GET("/login", authHandler.Login)
	v1.POST("/login", authHandler.Login)

	// Session routes (require a bearer session token)
	v1.GET("/cookie", sessionGuard.Wrap(authHandler.Cookie))
	v1.GET("/dashboard", sessionGuard.Wrap(authHandler.Dashboard))
	v1.GET("/todo", sessionGuard.Wrap(eventHandler.ListTodos))
	v1.POST("/todo", sessionGuard.Wrap(eventHandler.CreateTodo))

	var eventMiddleware []echo.MiddlewareFunc
	if cfg.EventsRequireAuth {
		eventMiddleware = append(eventMiddleware, sessionGuard.Middleware())
	}
	events := e.Group("/events", eventMiddleware...)
	events.GET("", eventHandler.List)
	events.POST("", eventHandler.Create)
	events.GET("/:id", eventHandler.Get)
	events.PUT("/:id", eventHandler.Update)
	events.DELETE("/:id", eventHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator shared by the API and the web front-end.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
