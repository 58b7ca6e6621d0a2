// Package http реализует маршрутизацию HTTP-слоя сервера.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - проверку bearer токенов на защищённых маршрутах.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/api"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/middleware"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - публичные эндпоинты /api/auth/register, /api/auth/login и /api/health;
//   - защищённые токеном /api/auth/me и /api/anime/*;
//   - swagger UI на /swagger/*;
//   - middleware логирования и восстановления после паники для всех запросов.
func NewRouter(h *api.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound, serr.MsgNotFound)
	})

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			// Публичные пути
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			// профиль только с токеном
			r.With(h.Verifier.AuthMiddleware()).Get("/me", h.Me)
		})

		// защищены пути
		r.Route("/anime", func(r chi.Router) {
			r.Use(h.Verifier.AuthMiddleware())
			r.Get("/trending", h.Trending)
			r.Get("/popular", h.Popular)
			r.Get("/search", h.Search)
			r.Get("/{id}", h.AnimeByID)
		})
	})

	return r
}
