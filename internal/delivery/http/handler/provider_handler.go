package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/route-planner/internal/pkg/errors"
	"github.com/route-planner/internal/pkg/utils"
	"github.com/route-planner/internal/usecase"
	"github.com/route-planner/internal/usecase/dto"
	"go.uber.org/zap"
)

// ProviderHandler - прокси к OpenRouteService
type ProviderHandler struct {
	providerUC *usecase.ProviderUseCase
	logger     *zap.Logger
}

// NewProviderHandler - создание нового ProviderHandler
func NewProviderHandler(providerUC *usecase.ProviderUseCase, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		providerUC: providerUC,
		logger:     logger,
	}
}

// Autocomplete godoc
// @Summary Подсказки адресов
// @Description Проксирует ORS /geocode/autocomplete, ответ провайдера возвращается без изменений
// @Tags ORS
// @Produce json
// @Param text query string true "Вводимый текст"
// @Param size query int false "Количество подсказок" default(5)
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection от ORS"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/ors/autocomplete [get]
func (h *ProviderHandler) Autocomplete(c *fiber.Ctx) error {
	req := dto.AutocompleteRequest{
		Text: c.Query("text"),
		Size: c.QueryInt("size", 0),
	}

	result, err := h.providerUC.Autocomplete(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendRaw(c, result)
}

// Geocode godoc
// @Summary Геокодирование
// @Description Проксирует ORS /geocode/search
// @Tags ORS
// @Produce json
// @Param text query string true "Адрес или название места"
// @Param size query int false "Количество результатов" default(1)
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection от ORS"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/ors/geocode [get]
func (h *ProviderHandler) Geocode(c *fiber.Ctx) error {
	req := dto.GeocodeRequest{
		Text: c.Query("text"),
		Size: c.QueryInt("size", 0),
	}

	result, err := h.providerUC.Geocode(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendRaw(c, result)
}

// Directions godoc
// @Summary Построение маршрута
// @Description Проксирует ORS POST /v2/directions/{profile}. Точки в формате [lon, lat].
// @Tags ORS
// @Accept json
// @Produce json
// @Param request body dto.DirectionsRequest true "Начальная и конечная точки"
// @Success 200 {object} map[string]interface{} "Ответ ORS directions"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/ors/directions [post]
func (h *ProviderHandler) Directions(c *fiber.Ctx) error {
	var req dto.DirectionsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithCause(err))
	}

	result, err := h.providerUC.Directions(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendRaw(c, result)
}
