// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userIDKey — ключ контекста, под которым хранится ID аутентифицированного пользователя.
const userIDKey ctxKey = "user_id"

// MsgTokenExpired — ответ на просроченный токен.
const MsgTokenExpired = "Token expired"

// JWTVerifier проверяет bearer токены, выпущенные сервером.
//
// Используется в HTTP middleware для:
//   - проверки подписи (только HS256) и срока действия
//   - валидации issuer и audience, если они заданы
//   - извлечения userID из claim id (или sub)
type JWTVerifier struct {
	cfg crypto.JWTConfig
}

// NewJWTVerifier создаёт новый JWTVerifier с заданными параметрами.
func NewJWTVerifier(signingKey, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{cfg: crypto.JWTConfig{
		SigningKey: signingKey,
		Issuer:     issuer,
		Audience:   audience,
	}}
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	s, ok := v.(string)
	return s, ok && s != ""
}

// WithUserID кладёт userID в контекст так же, как это делает AuthMiddleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// AuthMiddleware возвращает HTTP middleware для проверки bearer токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - валидирует подпись и claims токена
//   - сохраняет userID в context.Context
//
// В случае ошибки отвечает 401 с телом {"msg": ...}.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				unauthorized(w, serr.MsgUnauthorized)
				return
			}

			claims, err := crypto.ParseAccessToken(tokenStr, v.cfg)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, MsgTokenExpired)
					return
				}
				unauthorized(w, serr.MsgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Msg: msg})
}
