package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/models"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/storage"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/logger"
)

func testLogger(t *testing.T) *logger.HTTPLogger {
	t.Helper()
	return logger.New(logger.Options{Dir: t.TempDir()})
}

func openSQLite(t *testing.T, path string) *storage.Storage {
	t.Helper()

	st, err := storage.Open(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    path,
	}, true, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

// sqlite: миграции применяются и хранилище работает
func TestOpen_SQLite(t *testing.T) {
	st := openSQLite(t, filepath.Join(t.TempDir(), "users.db"))

	require.Equal(t, config.DriverSQLite, st.Driver)
	require.NoError(t, st.Health.Ping(context.Background()))

	u, err := st.Users.Create(context.Background(), models.User{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	got, err := st.Users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

// повторное открытие той же базы: ErrNoChange не ошибка, данные на месте
func TestOpen_SQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")

	first, err := storage.Open(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    path,
	}, true, testLogger(t))
	require.NoError(t, err)

	_, err = first.Users.Create(context.Background(), models.User{
		Username: "bob", Email: "b@x.com", PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NoError(t, first.Close(context.Background()))
	// второй Close ничего не делает
	require.NoError(t, first.Close(context.Background()))

	second := openSQLite(t, path)
	_, err = second.Users.GetByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
}

// без миграций таблицы нет
func TestOpen_SQLite_WithoutMigrations(t *testing.T) {
	st, err := storage.Open(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "empty.db"),
	}, false, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	_, err = st.Users.GetByEmail(context.Background(), "a@x.com")
	require.ErrorIs(t, err, serr.ErrInternal)
}

func TestOpen_UnknownDriver(t *testing.T) {
	st, err := storage.Open(context.Background(), config.DBConfig{Driver: "oracle"}, true, testLogger(t))
	require.Error(t, err)
	require.Nil(t, st)
}

func TestRepositories(t *testing.T) {
	st := openSQLite(t, filepath.Join(t.TempDir(), "users.db"))

	repos := st.Repositories()
	require.NotNil(t, repos.Users)
	require.NotNil(t, repos.Health)
}

// Интеграционный тест с настоящим PostgreSQL
func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping integration test")
	}

	st, err := storage.Open(context.Background(), config.DBConfig{
		Driver: config.DriverPostgres,
		DSN:    dsn,
	}, true, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	email := "pg-" + time.Now().Format("150405.000000") + "@x.com"
	u, err := st.Users.Create(context.Background(), models.User{
		Username: "pg", Email: email, PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, err = st.Users.Create(context.Background(), models.User{
		Username: "pg", Email: email, PasswordHash: "hash",
	})
	require.ErrorIs(t, err, serr.ErrAlreadyExists)

	got, err := st.Users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, email, got.Email)
}

// Интеграционный тест с настоящей MongoDB
func TestOpen_Mongo(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := storage.Open(ctx, config.DBConfig{
		Driver:   config.DriverMongo,
		DSN:      uri,
		Database: "animetracker_test",
	}, true, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	email := "mongo-" + time.Now().Format("150405.000000") + "@x.com"
	u, err := st.Users.Create(ctx, models.User{
		Username: "m", Email: email, PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, err = st.Users.Create(ctx, models.User{
		Username: "m", Email: email, PasswordHash: "hash",
	})
	require.ErrorIs(t, err, serr.ErrAlreadyExists)

	got, err := st.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, email, got.Email)

	_, err = st.Users.GetByEmail(ctx, "missing-"+email)
	require.ErrorIs(t, err, serr.ErrNotFound)
}
