// Серверная модель пользователя
package models

import (
	"time"

	shared "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// User — запись хранилища учётных данных.
//
// ID назначается хранилищем при создании, Email уникален.
// PasswordHash хранит bcrypt/argon2id строку и не покидает сервер.
type User struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// Public возвращает публичное подмножество полей пользователя.
func (u User) Public() shared.PublicUser {
	return shared.PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
