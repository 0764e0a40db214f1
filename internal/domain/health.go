package domain

import "time"

// HealthStatus - итог проверки состояния сервиса
type HealthStatus struct {
	Status             string    `json:"status"`
	Problems           []string  `json:"problems"`
	DatabaseOpen       bool      `json:"database_open"`
	ProviderConfigured bool      `json:"provider_configured"`
	CacheOpen          *bool     `json:"cache_open,omitempty"`
	NowUTC             time.Time `json:"now_utc"`
}

const (
	HealthStatusOK        = "ok"
	HealthStatusUnhealthy = "unhealthy"
)

// Healthy сообщает, что проблем не обнаружено
func (h *HealthStatus) Healthy() bool {
	return len(h.Problems) == 0
}
