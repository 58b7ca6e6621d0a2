// Package repository содержит реализации хранилища учётных данных:
// SQL (PostgreSQL через pgx, SQLite через modernc) и документное (MongoDB).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
)

// UsersRepository хранит пользователей в SQL-таблице users.
//
// Запросы написаны так, чтобы работать и в PostgreSQL, и в SQLite:
// id генерируется на стороне приложения, плейсхолдеры $N понимают оба.
// Уникальность email гарантирует индекс users_email_key.
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create добавляет пользователя и возвращает запись с назначенным id.
// Нарушение уникального индекса по email — ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = uuid.NewString()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE email=$1`,
		email,
	)
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	// битый id в postgres даст ошибку приведения к uuid, а не "не найдено"
	if _, err := uuid.Parse(id); err != nil {
		return models.User{}, serr.ErrNotFound
	}
	return r.getOne(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE id=$1`,
		id,
	)
}

// Ping проверяет соединение с базой.
func (r *UsersRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UsersRepository) getOne(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}

// isUniqueViolation распознаёт нарушение уникального индекса в обоих диалектах.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
