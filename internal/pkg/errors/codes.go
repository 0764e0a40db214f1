package errors

import "net/http"

var (
	ErrRouteNotFound = New(
		"ROUTE_NOT_FOUND",
		"Route not found",
		http.StatusNotFound,
	)

	ErrValidation = New(
		"VALIDATION_ERROR",
		"Request validation failed",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrStorageUnavailable = New(
		"STORAGE_UNAVAILABLE",
		"Route storage is unavailable, retry later",
		http.StatusServiceUnavailable,
	)

	ErrUpstreamProvider = New(
		"UPSTREAM_PROVIDER_ERROR",
		"Routing provider request failed",
		http.StatusBadGateway,
	)

	ErrProviderNotConfigured = New(
		"PROVIDER_NOT_CONFIGURED",
		"ORS_API_KEY not configured",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
