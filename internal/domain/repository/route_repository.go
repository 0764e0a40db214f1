package repository

import (
	"context"
	"errors"

	"github.com/route-planner/internal/domain"
)

// ErrCorruptRecord - сохранённая запись не читается (битый created_at,
// невалидный JSON геометрии). Повтор запроса не поможет.
var ErrCorruptRecord = errors.New("corrupt route record")

// RouteRepository - долговременное хранилище маршрутов по идентификатору
type RouteRepository interface {
	// Put атомарно вставляет или перезаписывает маршрут под identifier.
	// Запись зафиксирована на диске к моменту возврата без ошибки.
	Put(ctx context.Context, identifier string, route *domain.Route) error

	// Get возвращает маршрут или nil, если его нет
	Get(ctx context.Context, identifier string) (*domain.Route, error)

	// List возвращает все маршруты в стабильном порядке (по идентификатору)
	List(ctx context.Context) ([]*domain.Route, error)

	// Delete удаляет маршрут и сообщает, существовал ли он
	Delete(ctx context.Context, identifier string) (bool, error)
}

// HealthChecker - компонент, доступность которого проверяет /health
type HealthChecker interface {
	Health(ctx context.Context) error
}
