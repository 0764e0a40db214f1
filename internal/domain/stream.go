package domain

import "time"

// Типы событий жизненного цикла маршрута
const (
	RouteEventCreated = "route.created"
	RouteEventDeleted = "route.deleted"
)

// RouteEvent - уведомление о создании или удалении маршрута,
// публикуется в Redis Stream
type RouteEvent struct {
	Type       string    `json:"type"`
	RouteID    string    `json:"route_id"`
	StartText  string    `json:"start_text,omitempty"`
	EndText    string    `json:"end_text,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRouteCreatedEvent формирует событие по созданному маршруту
func NewRouteCreatedEvent(r *Route) RouteEvent {
	return RouteEvent{
		Type:       RouteEventCreated,
		RouteID:    r.Identifier,
		StartText:  r.StartText,
		EndText:    r.EndText,
		OccurredAt: r.CreatedAt,
	}
}

// NewRouteDeletedEvent формирует событие удаления
func NewRouteDeletedEvent(id string, at time.Time) RouteEvent {
	return RouteEvent{
		Type:       RouteEventDeleted,
		RouteID:    id,
		OccurredAt: at,
	}
}
