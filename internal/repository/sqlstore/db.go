package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/route-planner/internal/config"
	"go.uber.org/zap"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "pgx"
)

// DB - подключение к хранилищу маршрутов (SQLite файл или PostgreSQL).
// Один экземпляр живёт всё время работы процесса и безопасен для
// конкурентного использования.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// Open открывает хранилище согласно STORE_DRIVER и создаёт схему
func Open(cfg *config.Config, logger *zap.Logger) (*DB, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return OpenPostgres(&cfg.Database, logger)
	default:
		return OpenSQLite(&cfg.Store, logger)
	}
}

// OpenSQLite открывает (или создаёт) файл базы данных.
// WAL + synchronous=FULL: зафиксированная транзакция переживает падение процесса.
func OpenSQLite(cfg *config.StoreConfig, logger *zap.Logger) (*DB, error) {
	if dir := filepath.Dir(cfg.DatabaseFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	params.Add("_pragma", "journal_mode(wal)")
	params.Add("_pragma", "synchronous(full)")
	params.Add("_txlock", "immediate")
	db, err := sqlx.Connect(driverSQLite, sqliteURI(cfg.DatabaseFile, params))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.DatabaseFile, err)
	}

	// SQLite сериализует запись, держим одно соединение на процесс
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &DB{DB: db, logger: logger}
	if err := store.prepare(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("SQLite route store opened",
		zap.String("file", cfg.DatabaseFile),
	)

	return store, nil
}

var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// sqliteURI собирает file: URI. '?', '#' и '%' в пути экранируются,
// иначе драйвер и SQLite отрезают их как query или fragment.
func sqliteURI(path string, params url.Values) string {
	escaped := uriPathEscaper.Replace(filepath.ToSlash(path))
	if strings.HasPrefix(escaped, "/") {
		// пустой authority, путь может начинаться с "//"
		escaped = "//" + escaped
	}
	return "file:" + escaped + "?" + params.Encode()
}

// OpenPostgres подключается к PostgreSQL через pgx
func OpenPostgres(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Connect(driverPostgres, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	store := &DB{DB: db, logger: logger}
	if err := store.prepare(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL route store connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
	)

	return store, nil
}

func (db *DB) prepare() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	return db.checkIntegrity(ctx)
}

// Migrate создаёт таблицу маршрутов, если её ещё нет
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// checkIntegrity не даёт запуститься на повреждённом файле SQLite
func (db *DB) checkIntegrity(ctx context.Context) error {
	if db.DriverName() != driverSQLite {
		return nil
	}

	var result string
	if err := db.GetContext(ctx, &result, "PRAGMA quick_check"); err != nil {
		return fmt.Errorf("failed to check database integrity: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database integrity check failed: %s", result)
	}
	return nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing route store", zap.String("driver", db.DriverName()))
	return db.DB.Close()
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// NewDBForTest creates a DB instance for testing with provided database and logger
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		logger: logger,
	}
}
