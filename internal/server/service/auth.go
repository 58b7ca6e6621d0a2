package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService реализует бизнес-логику аутентификации.
//
// Ответственность:
//   - регистрация пользователей
//   - аутентификация (логин)
//   - выпуск bearer токенов
//   - выдача публичного профиля по id из токена
//
// Сервис без состояния: всё общее состояние живёт в хранилище.
type AuthService struct {
	users UsersRepo

	hasher crypto.Hasher
	jwt    crypto.JWTConfig

	queryTimeout time.Duration
}

// AuthResult — токен и публичные поля пользователя.
type AuthResult struct {
	Token string
	User  shared.PublicUser
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, cfg *config.Config) *AuthService {
	ttl := cfg.Auth.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &AuthService{
		users:  users,
		hasher: crypto.NewHasher(cfg.Password),
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			TTL:        ttl,
		},
		queryTimeout: cfg.DB.QueryTimeout,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится: без пробелов, в нижнем регистре.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register регистрирует нового пользователя и сразу выдаёт токен.
//
// Валидация:
//   - username, email и пароль обязательны
//   - email должен быть похож на адрес
//   - для bcrypt пароль не длиннее 72 байт
//
// Возвращает:
//   - токен и публичные поля пользователя
//   - ErrInvalidInput при некорректных данных, ErrAlreadyExists если email уже зарегистрирован,
//     ErrInternal при сбое хранилища/хэширования/подписи
func (s *AuthService) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	if username == "" || email == "" || password == "" || !emailRe.MatchString(email) {
		return AuthResult{}, serr.ErrInvalidInput
	}

	// быстрый отказ; настоящую гарантию даёт уникальный индекс в Create
	_, err := s.getByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, serr.ErrAlreadyExists
	case !errors.Is(err, serr.ErrNotFound):
		return AuthResult{}, internal("lookup user", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return AuthResult{}, serr.ErrInvalidInput
		}
		return AuthResult{}, internal("hash password", err)
	}

	user, err := s.create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return AuthResult{}, serr.ErrAlreadyExists
		}
		return AuthResult{}, internal("create user", err)
	}

	return s.issue(user)
}

// Login аутентифицирует пользователя и выдаёт токен.
//
// Ошибки:
//   - ErrInvalidInput — пустой email или пароль
//   - ErrNotFound — пользователя с таким email нет
//   - ErrInvalidCredentials — пароль не совпал
//   - ErrInternal — всё остальное
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, serr.ErrInvalidInput
	}
	// получаем юзера по email
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return AuthResult{}, serr.ErrNotFound
		}
		return AuthResult{}, internal("lookup user", err)
	}
	// проверяем пароль средствами самого алгоритма
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, internal("verify password", err)
	}
	if !ok {
		return AuthResult{}, serr.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me возвращает публичный профиль пользователя по id из проверенного токена.
func (s *AuthService) Me(ctx context.Context, userID string) (shared.PublicUser, error) {
	if strings.TrimSpace(userID) == "" {
		return shared.PublicUser{}, serr.ErrInvalidInput
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return shared.PublicUser{}, serr.ErrNotFound
		}
		return shared.PublicUser{}, internal("get user", err)
	}
	return user.Public(), nil
}

// issue подписывает токен для пользователя.
func (s *AuthService) issue(user models.User) (AuthResult, error) {
	token, err := crypto.NewAccessToken(user.ID, s.jwt)
	if err != nil {
		return AuthResult{}, internal("sign token", err)
	}
	return AuthResult{Token: token, User: user.Public()}, nil
}

func (s *AuthService) getByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.users.GetByEmail(ctx, email)
}

func (s *AuthService) create(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.users.Create(ctx, u)
}

func (s *AuthService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// internal оборачивает непредвиденную ошибку в ErrInternal.
// Причина остаётся в тексте для логов, наружу уходит только "Server error".
func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", serr.ErrInternal, op, err)
}
