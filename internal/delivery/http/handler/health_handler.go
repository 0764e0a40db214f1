package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/route-planner/internal/usecase"
	"go.uber.org/zap"
)

// HealthHandler - проверка состояния сервиса
type HealthHandler struct {
	healthUC *usecase.HealthUseCase
	logger   *zap.Logger
}

// NewHealthHandler - создание нового HealthHandler
func NewHealthHandler(healthUC *usecase.HealthUseCase, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		healthUC: healthUC,
		logger:   logger,
	}
}

// Health godoc
// @Summary Состояние сервиса
// @Description Доступность хранилища, наличие ключа ORS, состояние кеша и текущее время UTC
// @Tags Health
// @Produce json
// @Success 200 {object} domain.HealthStatus
// @Failure 503 {object} domain.HealthStatus
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := h.healthUC.Check(c.Context())

	code := fiber.StatusOK
	if !status.Healthy() {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(status)
}
