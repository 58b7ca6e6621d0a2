// HTTP-хендлеры регистрации, логина и профиля
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/middleware"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Register обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 201 Created: регистрация успешна, в теле токен и пользователь;
//   - 400 Bad Request: неверный JSON, невалидные данные или email уже занят;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Регистрация
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "username, email, password"
// @Success      201   {object}  models.AuthResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, "register", err, http.StatusBadRequest, serr.MsgUserNotFound)
		return
	}

	res, err := h.Svc.Auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, "register", err, http.StatusBadRequest, serr.MsgUserNotFound)
		return
	}

	WriteJSON(w, http.StatusCreated, models.AuthResponse{Token: res.Token, User: res.User})
}

// Login обрабатывает вход пользователя и выдачу токена.
//
// Ответы:
//   - 200 OK: успешный вход;
//   - 400 Bad Request: неверный JSON, пустые поля, пользователь не найден или пароль не совпал;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Вход
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "email, password"
// @Success      200   {object}  models.AuthResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, "login", err, http.StatusBadRequest, serr.MsgUserNotFound)
		return
	}

	res, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "login", err, http.StatusBadRequest, serr.MsgUserNotFound)
		return
	}

	WriteJSON(w, http.StatusOK, models.AuthResponse{Token: res.Token, User: res.User})
}

// Me возвращает профиль владельца токена.
//
// @Summary      Текущий пользователь
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.MeResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.MsgUnauthorized)
		return
	}

	user, err := h.Svc.Auth.Me(r.Context(), userID)
	if err != nil {
		h.fail(w, "me", err, http.StatusNotFound, serr.MsgUserNotFound)
		return
	}

	WriteJSON(w, http.StatusOK, models.MeResponse{User: user})
}
