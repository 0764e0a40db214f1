package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
)

// timeLayout - RFC3339 с фиксированными наносекундами
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const routeColumns = `identifier, start_text, end_text,
	start_longitude, start_latitude, end_longitude, end_latitude,
	distance_meters, duration_seconds, profile, geometry, created_at`

type routeRow struct {
	Identifier      string         `db:"identifier"`
	StartText       string         `db:"start_text"`
	EndText         string         `db:"end_text"`
	StartLongitude  float64        `db:"start_longitude"`
	StartLatitude   float64        `db:"start_latitude"`
	EndLongitude    float64        `db:"end_longitude"`
	EndLatitude     float64        `db:"end_latitude"`
	DistanceMeters  float64        `db:"distance_meters"`
	DurationSeconds float64        `db:"duration_seconds"`
	Profile         string         `db:"profile"`
	Geometry        sql.NullString `db:"geometry"`
	CreatedAt       string         `db:"created_at"`
}

type routeRepository struct {
	db *DB
}

// NewRouteRepository создает репозиторий маршрутов поверх открытого хранилища
func NewRouteRepository(db *DB) repository.RouteRepository {
	return &routeRepository{db: db}
}

// Put выполняет upsert одной командой, которая фиксируется атомарно
func (r *routeRepository) Put(ctx context.Context, identifier string, route *domain.Route) error {
	if identifier == "" {
		return fmt.Errorf("put route: empty identifier")
	}

	row, err := toRow(identifier, route)
	if err != nil {
		return fmt.Errorf("put route %s: %w", identifier, err)
	}

	query := `
		INSERT INTO routes (` + routeColumns + `)
		VALUES (
			:identifier, :start_text, :end_text,
			:start_longitude, :start_latitude, :end_longitude, :end_latitude,
			:distance_meters, :duration_seconds, :profile, :geometry, :created_at
		)
		ON CONFLICT (identifier) DO UPDATE SET
			start_text = excluded.start_text,
			end_text = excluded.end_text,
			start_longitude = excluded.start_longitude,
			start_latitude = excluded.start_latitude,
			end_longitude = excluded.end_longitude,
			end_latitude = excluded.end_latitude,
			distance_meters = excluded.distance_meters,
			duration_seconds = excluded.duration_seconds,
			profile = excluded.profile,
			geometry = excluded.geometry,
			created_at = excluded.created_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("put route %s: %w", identifier, err)
	}
	return nil
}

func (r *routeRepository) Get(ctx context.Context, identifier string) (*domain.Route, error) {
	query := r.db.Rebind(`SELECT ` + routeColumns + ` FROM routes WHERE identifier = ?`)

	var row routeRow
	if err := r.db.GetContext(ctx, &row, query, identifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route %s: %w", identifier, err)
	}

	return row.toDomain()
}

// List читает все маршруты одним запросом (согласованный снимок)
func (r *routeRepository) List(ctx context.Context) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY identifier`

	var rows []routeRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	routes := make([]*domain.Route, 0, len(rows))
	for i := range rows {
		route, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func (r *routeRepository) Delete(ctx context.Context, identifier string) (bool, error) {
	query := r.db.Rebind(`DELETE FROM routes WHERE identifier = ?`)

	res, err := r.db.ExecContext(ctx, query, identifier)
	if err != nil {
		return false, fmt.Errorf("delete route %s: %w", identifier, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete route %s: %w", identifier, err)
	}
	return affected > 0, nil
}

func toRow(identifier string, route *domain.Route) (*routeRow, error) {
	row := &routeRow{
		Identifier:      identifier,
		StartText:       route.StartText,
		EndText:         route.EndText,
		StartLongitude:  route.StartCoordinates.Longitude,
		StartLatitude:   route.StartCoordinates.Latitude,
		EndLongitude:    route.EndCoordinates.Longitude,
		EndLatitude:     route.EndCoordinates.Latitude,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Profile:         route.Profile,
		CreatedAt:       route.CreatedAt.UTC().Format(timeLayout),
	}

	if route.Geometry != nil {
		data, err := json.Marshal(route.Geometry)
		if err != nil {
			return nil, fmt.Errorf("encode geometry: %w", err)
		}
		row.Geometry = sql.NullString{String: string(data), Valid: true}
	}

	return row, nil
}

func (row *routeRow) toDomain() (*domain.Route, error) {
	createdAt, err := time.Parse(timeLayout, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("route %s: parse created_at: %w: %w", row.Identifier, repository.ErrCorruptRecord, err)
	}

	route := &domain.Route{
		Identifier: row.Identifier,
		StartText:  row.StartText,
		EndText:    row.EndText,
		StartCoordinates: domain.Coordinates{
			Longitude: row.StartLongitude,
			Latitude:  row.StartLatitude,
		},
		EndCoordinates: domain.Coordinates{
			Longitude: row.EndLongitude,
			Latitude:  row.EndLatitude,
		},
		DistanceMeters:  row.DistanceMeters,
		DurationSeconds: row.DurationSeconds,
		Profile:         row.Profile,
		CreatedAt:       createdAt,
	}

	if row.Geometry.Valid {
		var g domain.Geometry
		if err := json.Unmarshal([]byte(row.Geometry.String), &g); err != nil {
			return nil, fmt.Errorf("route %s: decode geometry: %w: %w", row.Identifier, repository.ErrCorruptRecord, err)
		}
		route.Geometry = &g
	}

	return route, nil
}
