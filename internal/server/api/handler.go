// Package api реализует HTTP-слой сервера.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения {"msg": ...};
//   - описание эндпоинтов для swagger (аннотации swag).
//
// Регистрация маршрутов живёт в internal/server/net/http.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/logger"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// defaultMaxBodyBytes — лимит тела запроса, если в конфиге не задан.
const defaultMaxBodyBytes int64 = 1 << 20

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации;
//   - MaxBodyBytes: лимит размера JSON тела.
//
// Методы Handler используются роутером для обработки HTTP-запросов.
type Handler struct {
	Svc          *service.Services
	Log          *logger.HTTPLogger
	Verifier     *middleware.JWTVerifier
	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// svc — набор сервисов приложения,
// log — логгер,
// verifier — JWT-проверка и middleware авторизации.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier) *Handler {
	if log == nil {
		log = logger.NewHTTPLogger()
	}
	return &Handler{
		Svc:          svc,
		Log:          log,
		Verifier:     verifier,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

// WriteJSON пишет v как JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError пишет тело {"msg": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, models.ErrorResponse{Msg: msg})
}

// decodeJSON читает тело запроса в dst с ограничением по размеру.
// Любая ошибка разбора — ErrBadJSON.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return serr.ErrBadJSON
	}
	return nil
}

// StatusClientClosedRequest — клиент закрыл соединение до ответа (как в nginx).
const StatusClientClosedRequest = 499

// fail маппит доменную ошибку в статус и сообщение.
//
// notFoundMsg — текст для ErrNotFound: у auth это "User not found",
// у каталога — "Not found". notFoundStatus — статус для ErrNotFound.
func (h *Handler) fail(w http.ResponseWriter, op string, err error, notFoundStatus int, notFoundMsg string) {
	switch {
	case errors.Is(err, serr.ErrBadJSON):
		WriteError(w, http.StatusBadRequest, serr.MsgBadJSON)
	case errors.Is(err, serr.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, serr.MsgInvalidInput)
	case errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, http.StatusBadRequest, serr.MsgUserExists)
	case errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusBadRequest, serr.MsgInvalidCredentials)
	case errors.Is(err, serr.ErrNotFound):
		WriteError(w, notFoundStatus, notFoundMsg)
	case errors.Is(err, serr.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, serr.MsgUnauthorized)
	case errors.Is(err, context.Canceled):
		// клиент ушёл, отвечать уже некому
		h.Log.Info(op+" canceled", zap.Error(err))
		WriteError(w, StatusClientClosedRequest, serr.MsgCanceled)
	case errors.Is(err, serr.ErrUpstream):
		h.Log.Warn(op+" failed", zap.Error(err))
		WriteError(w, http.StatusBadGateway, serr.MsgUpstream)
	default:
		// детали только в лог
		h.Log.Error(op+" failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, serr.MsgServerError)
	}
}
