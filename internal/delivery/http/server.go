package http

import (
	"context"
	stderrors "errors"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/route-planner/internal/config"
	"github.com/route-planner/internal/delivery/http/handler"
	"github.com/route-planner/internal/delivery/http/middleware"
	"github.com/route-planner/internal/pkg/errors"
	"github.com/route-planner/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	routeHandler    *handler.RouteHandler
	providerHandler *handler.ProviderHandler
	healthHandler   *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	routeHandler *handler.RouteHandler,
	providerHandler *handler.ProviderHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Route Planner",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		routeHandler:    routeHandler,
		providerHandler: providerHandler,
		healthHandler:   healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSAllowedOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	s.app.Get("/health", s.healthHandler.Health)

	api := s.app.Group("/api/v1")
	api.Get("/health", s.healthHandler.Health)

	// Saved routes
	routes := api.Group("/routes")
	routes.Get("/", s.routeHandler.List)
	routes.Post("/", s.routeHandler.Create)
	routes.Get("/:id", s.routeHandler.Get)
	routes.Delete("/:id", s.routeHandler.Delete)

	// OpenRouteService proxy
	ors := api.Group("/ors")
	ors.Get("/autocomplete", s.providerHandler.Autocomplete)
	ors.Get("/geocode", s.providerHandler.Geocode)
	ors.Post("/directions", s.providerHandler.Directions)
}

// App - экземпляр fiber.App (для тестов через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404 на неизвестный путь, 405 и т.д.)
// отдаются в том же формате, что и ошибки use case
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return utils.SendError(c, appErr)
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
			return utils.SendError(c, errors.ErrInternalServer)
		}

		return utils.SendError(c, errors.New(
			errorCode(code),
			err.Error(),
			code,
		))
	}
}

// errorCode - "Not Found" -> "NOT_FOUND"
func errorCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(nethttp.StatusText(status), " ", "_"))
}
