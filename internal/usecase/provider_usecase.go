package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/infrastructure/ors"
	"github.com/route-planner/internal/pkg/errors"
	"github.com/route-planner/internal/pkg/utils"
	"github.com/route-planner/internal/pkg/validator"
	"github.com/route-planner/internal/usecase/dto"
)

// ProviderUseCase - проксирование запросов геокодирования и маршрутов в ORS
type ProviderUseCase struct {
	provider  repository.ProviderRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewProviderUseCase - создание нового ProviderUseCase.
// cacheRepo может быть nil, тогда ответы не кешируются.
func NewProviderUseCase(
	provider repository.ProviderRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *ProviderUseCase {
	return &ProviderUseCase{
		provider:  provider,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Autocomplete - подсказки по вводимому тексту
func (uc *ProviderUseCase) Autocomplete(ctx context.Context, req dto.AutocompleteRequest) (json.RawMessage, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Size == 0 {
		req.Size = ors.DefaultAutocompleteSize
	}

	key := cacheKey("autocomplete", fmt.Sprintf("%d:%s", req.Size, req.Text))
	return uc.cached(ctx, key, func() (json.RawMessage, error) {
		return uc.provider.Autocomplete(ctx, req.Text, req.Size)
	})
}

// Geocode - поиск места по тексту
func (uc *ProviderUseCase) Geocode(ctx context.Context, req dto.GeocodeRequest) (json.RawMessage, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Size == 0 {
		req.Size = ors.DefaultGeocodeSize
	}

	key := cacheKey("geocode", fmt.Sprintf("%d:%s", req.Size, req.Text))
	return uc.cached(ctx, key, func() (json.RawMessage, error) {
		return uc.provider.Geocode(ctx, req.Text, req.Size)
	})
}

// Directions - маршрут между двумя точками
func (uc *ProviderUseCase) Directions(ctx context.Context, req dto.DirectionsRequest) (json.RawMessage, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if !utils.ValidateLonLat(req.Start) || !utils.ValidateLonLat(req.End) {
		return nil, errors.ErrInvalidCoordinates
	}
	if req.Profile == "" {
		req.Profile = ors.DefaultProfile
	}

	key := cacheKey("directions", fmt.Sprintf("%s:%v:%v", req.Profile, req.Start, req.End))
	return uc.cached(ctx, key, func() (json.RawMessage, error) {
		return uc.provider.Directions(ctx, req.Start, req.End, req.Profile)
	})
}

// Configured сообщает, задан ли ключ провайдера
func (uc *ProviderUseCase) Configured() bool {
	return uc.provider.Configured()
}

// cached - read-through кеш поверх вызова провайдера.
// Ошибки кеша не прерывают запрос, ошибки провайдера не кешируются.
func (uc *ProviderUseCase) cached(ctx context.Context, key string, fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	if uc.cacheRepo != nil {
		data, err := uc.cacheRepo.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("Failed to read provider cache", zap.String("key", key), zap.Error(err))
		} else if data != nil {
			uc.logger.Debug("Provider cache hit", zap.String("key", key))
			return data, nil
		}
	}

	result, err := fetch()
	if err != nil {
		return nil, uc.mapProviderError(err)
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.Set(ctx, key, result, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to write provider cache", zap.String("key", key), zap.Error(err))
		}
	}

	return result, nil
}

func (uc *ProviderUseCase) mapProviderError(err error) error {
	if stderrors.Is(err, ors.ErrNotConfigured) {
		return errors.ErrProviderNotConfigured
	}

	var upstream *ors.UpstreamError
	if stderrors.As(err, &upstream) {
		uc.logger.Warn("Routing provider request failed",
			zap.Int("status_code", upstream.StatusCode),
			zap.Error(err))

		appErr := errors.ErrUpstreamProvider.WithStatus(upstream.StatusCode).WithCause(err)
		if upstream.Body != "" {
			appErr = appErr.WithDetails(map[string]interface{}{"body": upstream.Body})
		}
		return appErr
	}

	uc.logger.Error("Routing provider call failed", zap.Error(err))
	return errors.ErrUpstreamProvider.WithCause(err)
}

func cacheKey(kind, raw string) string {
	sum := sha1.Sum([]byte(raw))
	return "ors:" + kind + ":" + hex.EncodeToString(sum[:])
}
