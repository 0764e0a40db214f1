package dto

import (
	"time"

	"github.com/route-planner/internal/domain"
)

// RouteResponse - сохранённый маршрут
type RouteResponse struct {
	Identifier       string             `json:"identifier"`
	StartText        string             `json:"start_text"`
	EndText          string             `json:"end_text"`
	StartCoordinates domain.Coordinates `json:"start_coordinates"`
	EndCoordinates   domain.Coordinates `json:"end_coordinates"`
	DistanceMeters   float64            `json:"distance_meters"`
	DurationSeconds  float64            `json:"duration_seconds"`
	Profile          string             `json:"profile,omitempty"`
	Geometry         *domain.Geometry   `json:"geometry,omitempty" swaggertype:"object"`
	CreatedAt        time.Time          `json:"created_at"`
}

// RouteListResponse - все маршруты, новые первыми
type RouteListResponse struct {
	Routes []RouteResponse `json:"routes"`
	Total  int             `json:"total"`
}

// NewRouteResponse - преобразование domain.Route в ответ
func NewRouteResponse(r *domain.Route) RouteResponse {
	return RouteResponse{
		Identifier:       r.Identifier,
		StartText:        r.StartText,
		EndText:          r.EndText,
		StartCoordinates: r.StartCoordinates,
		EndCoordinates:   r.EndCoordinates,
		DistanceMeters:   r.DistanceMeters,
		DurationSeconds:  r.DurationSeconds,
		Profile:          r.Profile,
		Geometry:         r.Geometry,
		CreatedAt:        r.CreatedAt,
	}
}
