package dto

import "github.com/route-planner/internal/domain"

// CreateRouteRequest - запрос на сохранение маршрута.
// Идентификатор и created_at назначает сервис, клиентские значения не принимаются.
type CreateRouteRequest struct {
	StartText        string           `json:"start_text" validate:"required,max=512"`
	EndText          string           `json:"end_text" validate:"required,max=512"`
	StartCoordinates *CoordinatesDTO  `json:"start_coordinates" validate:"required"`
	EndCoordinates   *CoordinatesDTO  `json:"end_coordinates" validate:"required"`
	DistanceMeters   *float64         `json:"distance_meters" validate:"required,min=0"`
	DurationSeconds  *float64         `json:"duration_seconds" validate:"required,min=0"`
	Profile          string           `json:"profile,omitempty" validate:"omitempty,max=64"`
	Geometry         *domain.Geometry `json:"geometry,omitempty"`
}

// CoordinatesDTO - точка (longitude, latitude)
type CoordinatesDTO struct {
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
}

// ToDomain - преобразование в domain.Coordinates (после валидации)
func (c *CoordinatesDTO) ToDomain() domain.Coordinates {
	return domain.Coordinates{Longitude: *c.Longitude, Latitude: *c.Latitude}
}

// AutocompleteRequest - подсказки по вводимому тексту
type AutocompleteRequest struct {
	Text string `json:"text" query:"text" validate:"required"`
	Size int    `json:"size" query:"size" validate:"omitempty,min=1,max=40"`
}

// GeocodeRequest - поиск места по тексту
type GeocodeRequest struct {
	Text string `json:"text" query:"text" validate:"required"`
	Size int    `json:"size" query:"size" validate:"omitempty,min=1,max=40"`
}

// DirectionsRequest - построение маршрута между двумя точками [lon, lat]
type DirectionsRequest struct {
	Start   []float64 `json:"start" validate:"required,len=2"`
	End     []float64 `json:"end" validate:"required,len=2"`
	Profile string    `json:"profile,omitempty" validate:"omitempty,oneof=driving-car driving-hgv cycling-regular cycling-road cycling-mountain cycling-electric foot-walking foot-hiking wheelchair"`
}
