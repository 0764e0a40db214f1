package repository

import (
	"context"
	"encoding/json"
)

// ProviderRepository определяет методы внешнего провайдера геокодирования и маршрутов
// (OpenRouteService). Ответы передаются вызывающему без изменений.
type ProviderRepository interface {
	// Autocomplete - подсказки по вводимому тексту
	Autocomplete(ctx context.Context, text string, size int) (json.RawMessage, error)

	// Geocode - поиск места по тексту
	Geocode(ctx context.Context, text string, size int) (json.RawMessage, error)

	// Directions - маршрут между двумя точками [lon, lat]
	Directions(ctx context.Context, start, end []float64, profile string) (json.RawMessage, error)

	// Configured сообщает, задан ли ключ API
	Configured() bool
}
