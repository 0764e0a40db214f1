// Package docs Route Planner API.
//
// Сервис сохранённых маршрутов и прокси к OpenRouteService.
//
// Основные возможности:
// - Сохранение, просмотр и удаление маршрутов
// - Подсказки адресов и геокодирование через ORS
// - Построение маршрута между двумя точками через ORS
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
