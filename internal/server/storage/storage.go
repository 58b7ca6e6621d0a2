// Package storage открывает хранилище учётных данных, выбранное в конфиге.
//
// Пакет выполняет:
//   - открытие соединения с PostgreSQL (драйвер pgx), SQLite (modernc) или MongoDB;
//   - проверку доступности базы (Ping);
//   - применение встроенных миграций (golang-migrate) для SQL-драйверов
//     и создание уникального индекса по email для MongoDB.
//
// Хранилище — явный объект с Close, глобального соединения нет.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "modernc.org/sqlite"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/repository"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/storage/migrations"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/logger"
)

// Storage — открытое хранилище пользователей.
type Storage struct {
	Driver string
	Users  service.UsersRepo
	Health service.HealthRepo

	closeFn func(ctx context.Context) error
}

// Repositories возвращает набор репозиториев для сервисного слоя.
func (s *Storage) Repositories() service.Repositories {
	return service.Repositories{Users: s.Users, Health: s.Health}
}

// Close закрывает соединение. Повторный вызов безопасен.
func (s *Storage) Close(ctx context.Context) error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	fn := s.closeFn
	s.closeFn = nil
	return fn(ctx)
}

// Open открывает хранилище по cfg.Driver.
//
// withMigrations управляет применением схемы при старте.
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func Open(ctx context.Context, cfg config.DBConfig, withMigrations bool, log *logger.HTTPLogger) (*Storage, error) {
	if log == nil {
		log = logger.NewHTTPLogger()
	}
	customLog := log.Logger.Sugar()

	switch cfg.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := openSQL(ctx, cfg)
		if err != nil {
			customLog.Errorf("error to connect db: %v", err)
			return nil, err
		}
		if withMigrations {
			if err := Migrate(db, cfg.Driver); err != nil {
				customLog.Errorf("error applying migrations: %v", err)
				_ = db.Close()
				return nil, err
			}
			customLog.Info("migrations applied successfully")
		}
		users := repository.NewUsersRepository(db)
		return &Storage{
			Driver:  cfg.Driver,
			Users:   users,
			Health:  users,
			closeFn: func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DSN))
		if err != nil {
			customLog.Errorf("error to connect mongodb: %v", err)
			return nil, err
		}
		users := repository.NewMongoUsersRepository(client.Database(cfg.Database))
		if err := users.Ping(ctx); err != nil {
			customLog.Errorf("error check mongodb connection: %v", err)
			_ = client.Disconnect(ctx)
			return nil, err
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			customLog.Errorf("error creating mongodb indexes: %v", err)
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Storage{
			Driver:  cfg.Driver,
			Users:   users,
			Health:  users,
			closeFn: client.Disconnect,
		}, nil
	}

	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
}

func openSQL(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	driverName, dsn := "pgx", cfg.DSN
	if cfg.Driver == config.DriverSQLite {
		driverName, dsn = "sqlite", sqliteDSN(cfg.DSN)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite пишет в один поток; остальные ждут по busy_timeout
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDSN добавляет к пути прагмы, если их не задали явно.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

// Migrate применяет встроенные миграции для postgres или sqlite.
func Migrate(db *sql.DB, driver string) error {
	src, err := iofs.New(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}

	var target database.Driver
	switch driver {
	case config.DriverPostgres:
		target, err = postgres.WithInstance(db, &postgres.Config{})
	case config.DriverSQLite:
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		return fmt.Errorf("migrations: unsupported driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	// создаём миграции с выбранным драйвером
	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("create migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
