package sqlstore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-planner/internal/config"
	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/repository/sqlstore"
)

func openTestStore(t *testing.T, path string) *sqlstore.DB {
	t.Helper()

	db, err := sqlstore.OpenSQLite(&config.StoreConfig{DatabaseFile: path}, zap.NewNop())
	require.NoError(t, err)
	return db
}

func newTestRoute(id string, createdAt time.Time) *domain.Route {
	return &domain.Route{
		Identifier:       id,
		StartText:        "Zürich HB, Schweiz",
		EndText:          "Bern Bahnhof, Schweiz",
		StartCoordinates: domain.Coordinates{Longitude: 8.537087, Latitude: 47.378177},
		EndCoordinates:   domain.Coordinates{Longitude: 7.439136, Latitude: 46.94809},
		DistanceMeters:   124543.6,
		DurationSeconds:  5535.9,
		Profile:          "driving-car",
		Geometry:         domain.NewEncodedGeometry("_p~iF~ps|U_ulLnnqC_mqNvxq`@"),
		CreatedAt:        createdAt,
	}
}

func TestRouteRepository_PutGet(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)
	ctx := context.Background()
	created := time.Date(2025, 5, 4, 12, 30, 15, 123456789, time.UTC)

	route := newTestRoute("route-1", created)
	require.NoError(t, repo.Put(ctx, "route-1", route))

	got, err := repo.Get(ctx, "route-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, route, got)
}

func TestRouteRepository_GetMissing(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)

	got, err := repo.Get(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRouteRepository_PutOverwrites(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)
	ctx := context.Background()

	route := newTestRoute("route-1", time.Now().UTC())
	require.NoError(t, repo.Put(ctx, "route-1", route))

	updated := newTestRoute("route-1", route.CreatedAt)
	updated.EndText = "Basel SBB"
	updated.Geometry = nil
	require.NoError(t, repo.Put(ctx, "route-1", updated))

	got, err := repo.Get(ctx, "route-1")
	require.NoError(t, err)
	assert.Equal(t, "Basel SBB", got.EndText)
	assert.Nil(t, got.Geometry)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRouteRepository_PutUsesKeyAsIdentifier(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)
	ctx := context.Background()

	route := newTestRoute("", time.Now().UTC())
	require.NoError(t, repo.Put(ctx, "key-1", route))

	got, err := repo.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "key-1", got.Identifier)

	assert.Error(t, repo.Put(ctx, "", route))
}

func TestRouteRepository_Delete(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "route-1", newTestRoute("route-1", time.Now().UTC())))

	existed, err := repo.Delete(ctx, "route-1")
	require.NoError(t, err)
	assert.True(t, existed)

	got, err := repo.Get(ctx, "route-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// повторное удаление не является ошибкой
	existed, err = repo.Delete(ctx, "route-1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestRouteRepository_ListStableAndComplete(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	ids := []string{"c", "a", "e", "b", "d"}
	for i, id := range ids {
		require.NoError(t, repo.Put(ctx, id, newTestRoute(id, time.Unix(int64(i), 0).UTC())))
	}

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	require.Len(t, first, len(ids))
	assert.Equal(t, first, second)

	got := make([]string, 0, len(first))
	for _, r := range first {
		got = append(got, r.Identifier)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestRouteRepository_GeometryPassthrough(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)
	ctx := context.Background()

	geometries := map[string]*domain.Geometry{
		"encoded":    domain.NewEncodedGeometry("_p~iF~ps|U_ulLnnqC_mqNvxq`@"),
		"decoded":    {Decoded: json.RawMessage(`{"type":"LineString","coordinates":[[8.537087,47.378177],[8.0,47.1],[7.439136,46.94809]]}`)},
		"extra keys": {Decoded: json.RawMessage(`{"type":"LineString","bbox":[7.4,46.9,8.5,47.3],"coordinates":[[8.5,47.3],[7.4,46.9]],"properties":{"way_points":[0,1]}}`)},
		"bare array": {Decoded: json.RawMessage(`[[8.5,47.3],[7.4,46.9]]`)},
		"none":       nil,
	}

	for id, g := range geometries {
		route := newTestRoute(id, time.Now().UTC())
		route.Geometry = g
		require.NoError(t, repo.Put(ctx, id, route))

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, g, got.Geometry, id)
	}
}

func TestRouteRepository_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "routes.db")
	ctx := context.Background()

	db := openTestStore(t, path)
	repo := sqlstore.NewRouteRepository(db)

	created := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)
	routes := []*domain.Route{
		newTestRoute("route-1", created),
		newTestRoute("route-2", created.Add(time.Minute)),
	}
	for _, r := range routes {
		require.NoError(t, repo.Put(ctx, r.Identifier, r))
	}
	_, err := repo.Delete(ctx, "route-2")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Процесс "перезапущен"
	reopened := openTestStore(t, path)
	defer reopened.Close()
	repo = sqlstore.NewRouteRepository(reopened)

	got, err := repo.Get(ctx, "route-1")
	require.NoError(t, err)
	assert.Equal(t, routes[0], got)

	gone, err := repo.Get(ctx, "route-2")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRouteRepository_ConcurrentWriters(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
	defer db.Close()

	repo := sqlstore.NewRouteRepository(db)
	ctx := context.Background()

	const writers = 40
	var wg sync.WaitGroup
	errs := make(chan error, writers*2)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("route-%02d", i)
			if err := repo.Put(ctx, id, newTestRoute(id, time.Now().UTC())); err != nil {
				errs <- err
				return
			}
			// каждый второй удаляет свою запись
			if i%2 == 0 {
				if _, err := repo.Delete(ctx, id); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers/2)
	for _, r := range all {
		var n int
		_, err := fmt.Sscanf(r.Identifier, "route-%d", &n)
		require.NoError(t, err)
		assert.Equal(t, 1, n%2, r.Identifier)
	}
}

func TestOpenSQLite_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.db")
	garbage := make([]byte, 8192)
	for i := range garbage {
		garbage[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(path, garbage, 0o600))

	db, err := sqlstore.OpenSQLite(&config.StoreConfig{DatabaseFile: path}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestOpenSQLite_SpecialCharactersInPath(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"my#routes.db", "a?b.db", "100%.db"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)

			db := openTestStore(t, path)
			route := newTestRoute("route-1", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
			require.NoError(t, sqlstore.NewRouteRepository(db).Put(ctx, route.Identifier, route))
			require.NoError(t, db.Close())

			_, err := os.Stat(path)
			require.NoError(t, err, "database file must keep its exact name")

			reopened := openTestStore(t, path)
			defer reopened.Close()

			got, err := sqlstore.NewRouteRepository(reopened).Get(ctx, "route-1")
			require.NoError(t, err)
			assert.Equal(t, route, got)
		})
	}
}

func TestRouteRepository_CorruptRows(t *testing.T) {
	ctx := context.Background()

	rows := map[string]string{
		"bad-created-at": `INSERT INTO routes (identifier, start_text, end_text,
			start_longitude, start_latitude, end_longitude, end_latitude,
			distance_meters, duration_seconds, created_at)
			VALUES ('bad-created-at', 'A', 'B', 8.5, 47.3, 7.4, 46.9, 1, 1, 'yesterday')`,
		"bad-geometry": `INSERT INTO routes (identifier, start_text, end_text,
			start_longitude, start_latitude, end_longitude, end_latitude,
			distance_meters, duration_seconds, geometry, created_at)
			VALUES ('bad-geometry', 'A', 'B', 8.5, 47.3, 7.4, 46.9, 1, 1, '{"type":', '2025-01-02T03:04:05.000000000Z')`,
	}

	for id, insert := range rows {
		t.Run(id, func(t *testing.T) {
			db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))
			defer db.Close()

			_, err := db.ExecContext(ctx, insert)
			require.NoError(t, err)

			repo := sqlstore.NewRouteRepository(db)

			_, err = repo.Get(ctx, id)
			assert.ErrorIs(t, err, repository.ErrCorruptRecord)

			_, err = repo.List(ctx)
			assert.ErrorIs(t, err, repository.ErrCorruptRecord)
		})
	}
}

func TestDB_Health(t *testing.T) {
	db := openTestStore(t, filepath.Join(t.TempDir(), "routes.db"))

	assert.NoError(t, db.Health(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, db.Health(context.Background()))
}
