// В этом файле описаны методы клиента для работы с эндпоинтами аутентификации:
// регистрация, вход и получение профиля текущего пользователя.
package api

import (
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Register регистрирует пользователя и сразу получает токен.
//
// POST /api/auth/register. Сервер отвечает 201 с токеном и публичными полями пользователя.
func (c *Client) Register(username, email, password string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.PostJSON("/api/auth/register", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp, "")
	return resp, err
}

// Login выполняет вход и получает токен.
//
// POST /api/auth/login.
func (c *Client) Login(email, password string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.PostJSON("/api/auth/login", models.LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Me запрашивает профиль пользователя, которому выдан token.
//
// GET /api/auth/me.
func (c *Client) Me(token string) (models.MeResponse, error) {
	var resp models.MeResponse
	err := c.GetJSON("/api/auth/me", &resp, token)
	return resp, err
}
