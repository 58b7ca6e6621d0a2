package api

import (
	"net/url"
	"strconv"

	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Trending — GET /api/anime/trending.
func (c *Client) Trending(token string, page, perPage int) (models.AnimePage, error) {
	var resp models.AnimePage
	err := c.GetJSON("/api/anime/trending"+pagingQuery(nil, page, perPage), &resp, token)
	return resp, err
}

// Popular — GET /api/anime/popular.
func (c *Client) Popular(token string, page, perPage int) (models.AnimePage, error) {
	var resp models.AnimePage
	err := c.GetJSON("/api/anime/popular"+pagingQuery(nil, page, perPage), &resp, token)
	return resp, err
}

// Search — GET /api/anime/search?q=...
func (c *Client) Search(token, term string, page, perPage int) (models.AnimePage, error) {
	var resp models.AnimePage
	q := url.Values{"q": []string{term}}
	err := c.GetJSON("/api/anime/search"+pagingQuery(q, page, perPage), &resp, token)
	return resp, err
}

// ByID — GET /api/anime/{id}.
func (c *Client) ByID(token string, id int) (models.AnimeDetails, error) {
	var resp models.AnimeDetails
	err := c.GetJSON("/api/anime/"+strconv.Itoa(id), &resp, token)
	return resp, err
}

// pagingQuery собирает query-строку; нулевые page/perPage не передаются,
// сервер подставит свои значения по умолчанию.
func pagingQuery(q url.Values, page, perPage int) string {
	if q == nil {
		q = url.Values{}
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
