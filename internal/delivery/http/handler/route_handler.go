package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/route-planner/internal/pkg/errors"
	"github.com/route-planner/internal/pkg/utils"
	"github.com/route-planner/internal/usecase"
	"github.com/route-planner/internal/usecase/dto"
	"go.uber.org/zap"
)

// RouteHandler - обработчик для сохранённых маршрутов
type RouteHandler struct {
	routeUC *usecase.RouteUseCase
	logger  *zap.Logger
}

// NewRouteHandler - создание нового RouteHandler
func NewRouteHandler(routeUC *usecase.RouteUseCase, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		routeUC: routeUC,
		logger:  logger,
	}
}

// Create godoc
// @Summary Сохранение маршрута
// @Description Сохраняет маршрут (тексты, координаты, дистанция, длительность, геометрия). Идентификатор и время создания назначает сервер.
// @Tags Routes
// @Accept json
// @Produce json
// @Param request body dto.CreateRouteRequest true "Маршрут"
// @Success 201 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/routes [post]
func (h *RouteHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithCause(err))
	}

	result, err := h.routeUC.Create(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, result)
}

// List godoc
// @Summary Список маршрутов
// @Description Возвращает все сохранённые маршруты, новые первыми
// @Tags Routes
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteListResponse}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/routes [get]
func (h *RouteHandler) List(c *fiber.Ctx) error {
	result, err := h.routeUC.List(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// Get godoc
// @Summary Маршрут по идентификатору
// @Tags Routes
// @Produce json
// @Param id path string true "Идентификатор маршрута"
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/routes/{id} [get]
func (h *RouteHandler) Get(c *fiber.Ctx) error {
	result, err := h.routeUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Delete godoc
// @Summary Удаление маршрута
// @Description Удаление необратимо, повторный запрос вернёт 404
// @Tags Routes
// @Param id path string true "Идентификатор маршрута"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/routes/{id} [delete]
func (h *RouteHandler) Delete(c *fiber.Ctx) error {
	if err := h.routeUC.Delete(c.Context(), c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendNoContent(c)
}
