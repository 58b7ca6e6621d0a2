// Package models содержит модели HTTP API, общие для сервера и CLI-клиента.
package models

// PublicUser — публичная часть записи пользователя.
//
// Хэш пароля в эту структуру не входит и наружу не уходит никогда.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterRequest — тело запроса регистрации.
//
// Используется в:
//
//	POST /api/auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest — тело запроса входа.
//
// Используется в:
//
//	POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse — ответ регистрации и входа: bearer токен и публичные поля пользователя.
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// MeResponse — ответ GET /api/auth/me.
type MeResponse struct {
	User PublicUser `json:"user"`
}

// ErrorResponse — тело любого ошибочного ответа.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// HealthResponse — ответ GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Anime — плоская карточка аниме, в которую сворачивается ответ AniList.
//
// Title берётся по приоритету english → romaji → native,
// Image по приоритету large → medium.
type Anime struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	BannerImage string   `json:"bannerImage,omitempty"`
	Description string   `json:"description,omitempty"`
	Episodes    *int     `json:"episodes"`
	Status      string   `json:"status"`
	Score       *int     `json:"score"`
	Genres      []string `json:"genres"`
	Year        *int     `json:"year"`
}

// AnimeRelation — связанный тайтл (сиквел, приквел и т.п.).
type AnimeRelation struct {
	RelationType string `json:"relationType"`
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Image        string `json:"image"`
}

// AnimeDetails — карточка аниме со студиями и связями, ответ GET /api/anime/{id}.
type AnimeDetails struct {
	Anime
	Studios   []string        `json:"studios"`
	Relations []AnimeRelation `json:"relations"`
}

// PageInfo — пагинация AniList.
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// AnimePage — ответ списочных эндпоинтов каталога.
type AnimePage struct {
	PageInfo PageInfo `json:"pageInfo"`
	Media    []Anime  `json:"media"`
}
