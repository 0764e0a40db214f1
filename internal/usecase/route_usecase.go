package usecase

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/pkg/errors"
	"github.com/route-planner/internal/pkg/validator"
	"github.com/route-planner/internal/usecase/dto"
)

// RouteUseCase - use case для сохранённых маршрутов
type RouteUseCase struct {
	routeRepo  repository.RouteRepository
	streamRepo repository.StreamRepository
	stream     string
	logger     *zap.Logger

	newID func() string
	now   func() time.Time
}

// RouteUseCaseOption - настройка RouteUseCase
type RouteUseCaseOption func(*RouteUseCase)

// WithRouteEvents включает публикацию событий маршрутов в Redis Stream
func WithRouteEvents(streamRepo repository.StreamRepository, stream string) RouteUseCaseOption {
	return func(uc *RouteUseCase) {
		uc.streamRepo = streamRepo
		uc.stream = stream
	}
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(gen func() string) RouteUseCaseOption {
	return func(uc *RouteUseCase) {
		uc.newID = gen
	}
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) RouteUseCaseOption {
	return func(uc *RouteUseCase) {
		uc.now = now
	}
}

// NewRouteUseCase - создание нового RouteUseCase
func NewRouteUseCase(
	routeRepo repository.RouteRepository,
	logger *zap.Logger,
	opts ...RouteUseCaseOption,
) *RouteUseCase {
	uc := &RouteUseCase{
		routeRepo: routeRepo,
		logger:    logger,
		newID:     uuid.NewString,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Create - валидация и сохранение нового маршрута
func (uc *RouteUseCase) Create(ctx context.Context, req dto.CreateRouteRequest) (*dto.RouteResponse, error) {
	req.StartText = strings.TrimSpace(req.StartText)
	req.EndText = strings.TrimSpace(req.EndText)

	if err := validator.Validate(req); err != nil {
		uc.logger.Debug("Route validation failed", zap.Error(err))
		return nil, err
	}

	route := &domain.Route{
		Identifier:       uc.newID(),
		StartText:        req.StartText,
		EndText:          req.EndText,
		StartCoordinates: req.StartCoordinates.ToDomain(),
		EndCoordinates:   req.EndCoordinates.ToDomain(),
		DistanceMeters:   *req.DistanceMeters,
		DurationSeconds:  *req.DurationSeconds,
		Profile:          req.Profile,
		Geometry:         req.Geometry,
		CreatedAt:        uc.now(),
	}

	if err := uc.routeRepo.Put(ctx, route.Identifier, route); err != nil {
		uc.logger.Error("Failed to store route",
			zap.String("route_id", route.Identifier),
			zap.Error(err))
		return nil, storageError(err)
	}

	uc.logger.Info("Route created",
		zap.String("route_id", route.Identifier),
		zap.String("start", route.StartText),
		zap.String("end", route.EndText))

	uc.publish(ctx, domain.NewRouteCreatedEvent(route))

	resp := dto.NewRouteResponse(route)
	return &resp, nil
}

// List - все маршруты, новые первыми.
// Пагинации нет, весь список читается за один запрос.
func (uc *RouteUseCase) List(ctx context.Context) (*dto.RouteListResponse, error) {
	routes, err := uc.routeRepo.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list routes", zap.Error(err))
		return nil, storageError(err)
	}

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].CreatedAt.Equal(routes[j].CreatedAt) {
			return routes[i].Identifier < routes[j].Identifier
		}
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})

	result := make([]dto.RouteResponse, 0, len(routes))
	for _, r := range routes {
		result = append(result, dto.NewRouteResponse(r))
	}

	return &dto.RouteListResponse{
		Routes: result,
		Total:  len(result),
	}, nil
}

// Get - маршрут по идентификатору
func (uc *RouteUseCase) Get(ctx context.Context, id string) (*dto.RouteResponse, error) {
	route, err := uc.routeRepo.Get(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to get route",
			zap.String("route_id", id),
			zap.Error(err))
		return nil, storageError(err)
	}
	if route == nil {
		return nil, errors.ErrRouteNotFound
	}

	resp := dto.NewRouteResponse(route)
	return &resp, nil
}

// Delete - удаление маршрута. Повторное удаление возвращает ErrRouteNotFound.
func (uc *RouteUseCase) Delete(ctx context.Context, id string) error {
	existed, err := uc.routeRepo.Delete(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to delete route",
			zap.String("route_id", id),
			zap.Error(err))
		return storageError(err)
	}
	if !existed {
		return errors.ErrRouteNotFound
	}

	uc.logger.Info("Route deleted", zap.String("route_id", id))

	uc.publish(ctx, domain.NewRouteDeletedEvent(id, uc.now()))
	return nil
}

// publish отправляет событие, ошибка публикации не отменяет операцию
// storageError отделяет нечитаемые записи от недоступного хранилища
func storageError(err error) *errors.AppError {
	if stderrors.Is(err, repository.ErrCorruptRecord) {
		return errors.ErrInternalServer.WithCause(err)
	}
	return errors.ErrStorageUnavailable.WithCause(err)
}

func (uc *RouteUseCase) publish(ctx context.Context, event domain.RouteEvent) {
	if uc.streamRepo == nil {
		return
	}

	if err := uc.streamRepo.PublishToStream(ctx, uc.stream, event); err != nil {
		uc.logger.Warn("Failed to publish route event",
			zap.String("type", event.Type),
			zap.String("route_id", event.RouteID),
			zap.Error(err))
	}
}
