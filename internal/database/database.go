// Пакет database - подключение к реляционному хранилищу (PostgreSQL через
// pgxpool или локальный SQLite), инициализация схемы (golang-migrate)
// и проверка готовности.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // драйвер "sqlite" для database/sql

	"github.com/sd-unl/license-server-admin/internal/config"
)

// sqlitePragmas - параметры подключения SQLite: ожидание блокировки
// вместо немедленного SQLITE_BUSY и WAL для параллельного чтения.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// DB - дескриптор хранилища. Создаётся один раз при старте процесса
// и передаётся в репозитории; закрывается при остановке.
type DB struct {
	*sqlx.DB

	dialect config.Dialect
	// pool - пул pgx, nil для SQLite.
	pool *pgxpool.Pool
}

// Open открывает хранилище согласно конфигурации и проверяет его доступность.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}

	switch dialect {
	case config.DialectPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return openSQLite(ctx, cfg, logger)
	}
}

// openPostgres создаёт pgxpool и оборачивает его в *sql.DB через stdlib-адаптер,
// чтобы репозитории работали одинаково для обоих диалектов.
func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DATABASE_URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула подключений: %w", err)
	}

	// Проверяем подключение
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}

	logger.Info("Подключение к PostgreSQL установлено",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.Int("port", int(poolCfg.ConnConfig.Port)),
		slog.String("database", poolCfg.ConnConfig.Database),
	)

	sqlDB := stdlib.OpenDBFromPool(pool)
	return &DB{
		DB:      sqlx.NewDb(sqlDB, "pgx"),
		dialect: config.DialectPostgres,
		pool:    pool,
	}, nil
}

// openSQLite открывает файловый SQLite.
func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	path := cfg.SQLiteFile()

	db, err := sqlx.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}

	// SQLite допускает одного писателя; запись сериализуется пулом.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка подключения к SQLite: %w", err)
	}

	logger.Info("Используется локальное хранилище SQLite (DATABASE_URL не задан)",
		slog.String("path", path),
	)

	return &DB{
		DB:      db,
		dialect: config.DialectSQLite,
	}, nil
}

// Dialect возвращает тип хранилища.
func (d *DB) Dialect() config.Dialect {
	return d.dialect
}

// SQL возвращает *sql.DB (для topologymetrics pgcheck).
func (d *DB) SQL() *sql.DB {
	return d.DB.DB
}

// Close закрывает *sql.DB и, для PostgreSQL, пул pgx.
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// ReadinessChecker - проверка готовности хранилища для health endpoint.
// Реализует интерфейс handlers.ReadinessChecker.
type ReadinessChecker struct {
	db *DB
}

// NewReadinessChecker создаёт проверку готовности хранилища.
func NewReadinessChecker(db *DB) *ReadinessChecker {
	return &ReadinessChecker{db: db}
}

// CheckReady проверяет подключение через ping.
// Возвращает статус ("ok", "fail") и сообщение.
func (c *ReadinessChecker) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return "fail", fmt.Sprintf("хранилище %s недоступно: %v", c.db.dialect, err)
	}
	return "ok", "подключение активно"
}
