// Package anilist содержит клиент публичного GraphQL API AniList.
//
// Клиент отправляет POST с {query, variables} и разбирает ответ:
//   - непустой errors — ошибка с текстом первого сообщения;
//   - статус 404 в errors — serr.ErrNotFound;
//   - сетевые ошибки и не-2xx без тела — serr.ErrUpstream.
//
// Ответы приводятся к плоским моделям shared/models.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/logger"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// DefaultEndpoint — адрес публичного API AniList.
const DefaultEndpoint = "https://graphql.anilist.co"

// ограничение на размер ответа AniList
const maxResponseBytes = 4 << 20

// Client — клиент AniList. Безопасен для конкурентного использования.
type Client struct {
	endpoint string
	http     *http.Client
	log      *logger.HTTPLogger
}

// NewClient создаёт клиента. Пустой endpoint — DefaultEndpoint,
// нулевой timeout — 10 секунд.
func NewClient(endpoint string, timeout time.Duration, log *logger.HTTPLogger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Search ищет аниме по названию, сортировка по популярности.
func (c *Client) Search(ctx context.Context, term string, page, perPage int) (models.AnimePage, error) {
	var data pageData
	err := c.do(ctx, searchQuery, map[string]any{
		"search":  term,
		"page":    page,
		"perPage": perPage,
	}, &data)
	if err != nil {
		return models.AnimePage{}, err
	}
	return formatPage(data), nil
}

// Trending — сортировка TRENDING_DESC.
func (c *Client) Trending(ctx context.Context, page, perPage int) (models.AnimePage, error) {
	var data pageData
	if err := c.do(ctx, trendingQuery, map[string]any{"page": page, "perPage": perPage}, &data); err != nil {
		return models.AnimePage{}, err
	}
	return formatPage(data), nil
}

// Popular — сортировка POPULARITY_DESC.
func (c *Client) Popular(ctx context.Context, page, perPage int) (models.AnimePage, error) {
	var data pageData
	if err := c.do(ctx, popularQuery, map[string]any{"page": page, "perPage": perPage}, &data); err != nil {
		return models.AnimePage{}, err
	}
	return formatPage(data), nil
}

// ByID возвращает карточку тайтла со студиями и связями.
func (c *Client) ByID(ctx context.Context, id int) (models.AnimeDetails, error) {
	var data mediaData
	if err := c.do(ctx, byIDQuery, map[string]any{"id": id}, &data); err != nil {
		return models.AnimeDetails{}, err
	}
	if data.Media == nil {
		return models.AnimeDetails{}, serr.ErrNotFound
	}
	return formatDetails(*data.Media), nil
}

// do выполняет GraphQL запрос и декодирует data в out.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.warn("anilist request failed", err)
		return fmt.Errorf("%w: %v", serr.ErrUpstream, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", serr.ErrUpstream, err)
	}

	var gql gqlResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		c.warn("anilist bad response", err, zap.Int("status", res.StatusCode))
		return fmt.Errorf("%w: status %d", serr.ErrUpstream, res.StatusCode)
	}

	if len(gql.Errors) > 0 {
		for _, e := range gql.Errors {
			if e.Status == http.StatusNotFound {
				return serr.ErrNotFound
			}
		}
		c.warn("anilist api error", nil, zap.String("message", gql.Errors[0].Message))
		return fmt.Errorf("%w: %s", serr.ErrUpstream, gql.Errors[0].Message)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", serr.ErrUpstream, res.StatusCode)
	}

	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return fmt.Errorf("%w: empty data", serr.ErrUpstream)
	}

	return json.Unmarshal(gql.Data, out)
}

func (c *Client) warn(msg string, err error, fields ...zap.Field) {
	if c.log == nil {
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	c.log.Warn(msg, fields...)
}
