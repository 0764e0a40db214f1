package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/route-planner/internal/config"
	"github.com/route-planner/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	DefaultAutocompleteSize = 5
	DefaultGeocodeSize      = 1
	DefaultProfile          = "driving-car"

	// maxResponseSize ограничивает размер ответа провайдера
	maxResponseSize = 10 << 20
)

// ErrNotConfigured возвращается, если ORS_API_KEY не задан
var ErrNotConfigured = errors.New("ors: api key not configured")

// UpstreamError - провайдер ответил ошибкой или недоступен.
// StatusCode и Body передаются клиенту без изменений.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ors API error: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ors API error: status %d, body: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewORSClient создает новый клиент для OpenRouteService API
func NewORSClient(cfg *config.ORSConfig, logger *zap.Logger) repository.ProviderRepository {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

func (c *client) Configured() bool {
	return c.apiKey != ""
}

// Autocomplete возвращает подсказки для вводимого текста
func (c *client) Autocomplete(ctx context.Context, text string, size int) (json.RawMessage, error) {
	if size <= 0 {
		size = DefaultAutocompleteSize
	}
	return c.geocodeRequest(ctx, "/geocode/autocomplete", text, size)
}

// Geocode ищет место по тексту
func (c *client) Geocode(ctx context.Context, text string, size int) (json.RawMessage, error) {
	if size <= 0 {
		size = DefaultGeocodeSize
	}
	return c.geocodeRequest(ctx, "/geocode/search", text, size)
}

// Directions строит маршрут между двумя точками [lon, lat]
func (c *client) Directions(ctx context.Context, start, end []float64, profile string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if len(start) != 2 || len(end) != 2 {
		return nil, fmt.Errorf("start and end must be [lon, lat] pairs")
	}
	if profile == "" {
		profile = DefaultProfile
	}

	payload, err := json.Marshal(map[string]interface{}{
		"coordinates": [][]float64{start, end},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, url.PathEscape(profile))

	c.logger.Debug("Calling ORS Directions API",
		zap.String("profile", profile),
		zap.Float64s("start", start),
		zap.Float64s("end", end))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/geo+json")

	return c.do(req)
}

func (c *client) geocodeRequest(ctx context.Context, path, text string, size int) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("text", text)
	query.Set("size", strconv.Itoa(size))

	endpoint := c.baseURL + path + "?" + query.Encode()

	c.logger.Debug("Calling ORS Geocode API",
		zap.String("path", path),
		zap.String("text", text),
		zap.Int("size", size))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request",
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.logger.Error("Failed to read response", zap.Error(err))
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("ORS API returned error",
			zap.String("path", req.URL.Path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !json.Valid(body) {
		c.logger.Error("ORS API returned invalid JSON", zap.String("path", req.URL.Path))
		return nil, &UpstreamError{
			StatusCode: http.StatusBadGateway,
			Err:        fmt.Errorf("invalid JSON in provider response"),
		}
	}

	c.logger.Debug("ORS API call successful",
		zap.String("path", req.URL.Path),
		zap.Int("bytes", len(body)))

	return body, nil
}
