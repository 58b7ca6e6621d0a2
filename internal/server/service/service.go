// Package service содержит бизнес-логику приложения.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository)
// и внешним каталогом аниме (anilist/cache).
package service

//go:generate mockgen -source=service.go -destination=mocks/mock_repos.go -package=mocks

import (
	"context"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/models"
	shared "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Health HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth   *AuthService
	Anime  *AnimeService
	Health *HealthService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (хэширование, токены) и AnimeService (пагинация).
func NewServices(repos Repositories, catalog AnimeCatalog, cfg *config.Config) *Services {
	return &Services{
		Auth:   NewAuthService(repos.Users, cfg),
		Anime:  NewAnimeService(catalog, cfg.Anime),
		Health: NewHealthService(repos.Health, cfg.DB.QueryTimeout),
	}
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — хранилище учётных данных (нужно для register/login/me).
//
// Create обязан сам гарантировать уникальность email (уникальный индекс)
// и возвращать errors.ErrAlreadyExists при нарушении.
// GetByEmail и GetByID возвращают errors.ErrNotFound, если записи нет.
type UsersRepo interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// AnimeCatalog — источник метаданных аниме (AniList напрямую или через кэш).
type AnimeCatalog interface {
	Search(ctx context.Context, term string, page, perPage int) (shared.AnimePage, error)
	Trending(ctx context.Context, page, perPage int) (shared.AnimePage, error)
	Popular(ctx context.Context, page, perPage int) (shared.AnimePage, error)
	ByID(ctx context.Context, id int) (shared.AnimeDetails, error)
}
