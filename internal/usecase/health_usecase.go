package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
)

// HealthUseCase - проверка состояния хранилища, провайдера и кеша
type HealthUseCase struct {
	store    repository.HealthChecker
	provider repository.ProviderRepository
	cache    repository.HealthChecker
	logger   *zap.Logger
	now      func() time.Time
}

// NewHealthUseCase - создание нового HealthUseCase. cache может быть nil.
func NewHealthUseCase(
	store repository.HealthChecker,
	provider repository.ProviderRepository,
	cache repository.HealthChecker,
	logger *zap.Logger,
) *HealthUseCase {
	return &HealthUseCase{
		store:    store,
		provider: provider,
		cache:    cache,
		logger:   logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Check - каждая проверка выполняется независимо, итог "ok" только без проблем
func (uc *HealthUseCase) Check(ctx context.Context) *domain.HealthStatus {
	status := &domain.HealthStatus{
		Problems: []string{},
		NowUTC:   uc.now(),
	}

	if err := uc.store.Health(ctx); err != nil {
		uc.logger.Error("Route store health check failed", zap.Error(err))
		status.Problems = append(status.Problems, "database: "+err.Error())
	} else {
		status.DatabaseOpen = true
	}

	status.ProviderConfigured = uc.provider.Configured()
	if !status.ProviderConfigured {
		status.Problems = append(status.Problems, "ORS_API_KEY not configured")
	}

	if uc.cache != nil {
		cacheOpen := true
		if err := uc.cache.Health(ctx); err != nil {
			uc.logger.Warn("Cache health check failed", zap.Error(err))
			status.Problems = append(status.Problems, "cache: "+err.Error())
			cacheOpen = false
		}
		status.CacheOpen = &cacheOpen
	}

	status.Status = domain.HealthStatusOK
	if !status.Healthy() {
		status.Status = domain.HealthStatusUnhealthy
	}
	return status
}
