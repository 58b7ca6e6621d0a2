// Package crypto содержит криптографические примитивы сервера.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и проверку JWT bearer-токенов;
//   - хэширование и проверку паролей (bcrypt, argon2id).
package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig описывает параметры генерации JWT токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен), пустое не пишется.
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен), пустое не пишется.
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	SigningKey string
	// TTL — срок жизни токена.
	TTL time.Duration
}

// Claims — полезная нагрузка токена.
//
// UserID дублирует sub: клиенты старого API читают именно поле id.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// ErrInvalidToken — токен не прошёл проверку (подпись, формат, claims).
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken создаёт и подписывает JWT для пользователя.
//
// Токен содержит:
//   - id и sub (userID)
//   - iat (IssuedAt)
//   - exp (IssuedAt + TTL)
//   - iss/aud, если заданы
//
// Используется алгоритм подписи HS256.
func NewAccessToken(userID string, cfg JWTConfig) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ParseAccessToken проверяет подпись и claims токена и возвращает их.
//
// Просроченный токен возвращает ошибку, совместимую с jwt.ErrTokenExpired.
// Токен без exp или без идентификатора пользователя считается невалидным.
func ParseAccessToken(tokenStr string, cfg JWTConfig) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &Claims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.UserID == "" {
		claims.UserID = strings.TrimSpace(claims.Subject)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
