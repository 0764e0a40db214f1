package sqlstore

// Схема одинакова для SQLite и PostgreSQL. created_at хранится текстом
// фиксированной ширины (timeLayout), поэтому сортируется лексикографически.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS routes (
		identifier       TEXT PRIMARY KEY,
		start_text       TEXT NOT NULL,
		end_text         TEXT NOT NULL,
		start_longitude  DOUBLE PRECISION NOT NULL,
		start_latitude   DOUBLE PRECISION NOT NULL,
		end_longitude    DOUBLE PRECISION NOT NULL,
		end_latitude     DOUBLE PRECISION NOT NULL,
		distance_meters  DOUBLE PRECISION NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		profile          TEXT NOT NULL DEFAULT '',
		geometry         TEXT,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS routes_created_at_idx ON routes (created_at)`,
}
