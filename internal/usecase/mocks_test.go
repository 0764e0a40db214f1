package usecase_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/route-planner/internal/domain"
)

// MockRouteRepository is a mock of RouteRepository
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) Put(ctx context.Context, identifier string, route *domain.Route) error {
	args := m.Called(ctx, identifier, route)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, identifier string) (*domain.Route, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

func (m *MockRouteRepository) List(ctx context.Context) ([]*domain.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Route), args.Error(1)
}

func (m *MockRouteRepository) Delete(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockProviderRepository is a mock of ProviderRepository
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Autocomplete(ctx context.Context, text string, size int) (json.RawMessage, error) {
	args := m.Called(ctx, text, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockProviderRepository) Geocode(ctx context.Context, text string, size int) (json.RawMessage, error) {
	args := m.Called(ctx, text, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockProviderRepository) Directions(ctx context.Context, start, end []float64, profile string) (json.RawMessage, error) {
	args := m.Called(ctx, start, end, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockProviderRepository) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockHealthChecker is a mock of HealthChecker
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func ptrFloat64(v float64) *float64 {
	return &v
}
