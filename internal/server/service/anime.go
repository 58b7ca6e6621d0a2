package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// AnimeService — чтение каталога аниме с проверкой пагинации.
type AnimeService struct {
	catalog AnimeCatalog

	defaultPerPage int
	maxPerPage     int
}

// NewAnimeService создаёт сервис каталога.
func NewAnimeService(catalog AnimeCatalog, cfg config.AnimeConfig) *AnimeService {
	s := &AnimeService{
		catalog:        catalog,
		defaultPerPage: cfg.DefaultPerPage,
		maxPerPage:     cfg.MaxPerPage,
	}
	if s.defaultPerPage <= 0 {
		s.defaultPerPage = 10
	}
	if s.maxPerPage <= 0 {
		s.maxPerPage = 50
	}
	return s
}

// Paging нормализует параметры страницы: 0 означает "по умолчанию".
//
// page < 0, perPage < 0 или perPage > max — ErrInvalidInput.
func (s *AnimeService) Paging(page, perPage int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = s.defaultPerPage
	}
	if page < 1 || perPage < 1 || perPage > s.maxPerPage {
		return 0, 0, serr.ErrInvalidInput
	}
	return page, perPage, nil
}

// Search ищет аниме по названию. Пустой запрос отдаёт trending.
func (s *AnimeService) Search(ctx context.Context, term string, page, perPage int) (shared.AnimePage, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.Trending(ctx, page, perPage)
	}
	page, perPage, err := s.Paging(page, perPage)
	if err != nil {
		return shared.AnimePage{}, err
	}
	res, err := s.catalog.Search(ctx, term, page, perPage)
	return res, upstream("search", err)
}

// Trending — популярное сейчас.
func (s *AnimeService) Trending(ctx context.Context, page, perPage int) (shared.AnimePage, error) {
	page, perPage, err := s.Paging(page, perPage)
	if err != nil {
		return shared.AnimePage{}, err
	}
	res, err := s.catalog.Trending(ctx, page, perPage)
	return res, upstream("trending", err)
}

// Popular — популярное за всё время.
func (s *AnimeService) Popular(ctx context.Context, page, perPage int) (shared.AnimePage, error) {
	page, perPage, err := s.Paging(page, perPage)
	if err != nil {
		return shared.AnimePage{}, err
	}
	res, err := s.catalog.Popular(ctx, page, perPage)
	return res, upstream("popular", err)
}

// ByID возвращает карточку аниме со студиями и связями.
func (s *AnimeService) ByID(ctx context.Context, id int) (shared.AnimeDetails, error) {
	if id <= 0 {
		return shared.AnimeDetails{}, serr.ErrInvalidInput
	}
	res, err := s.catalog.ByID(ctx, id)
	return res, upstream("by id", err)
}

// upstream приводит ошибки каталога к ErrNotFound/ErrUpstream.
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, serr.ErrNotFound) || errors.Is(err, serr.ErrUpstream) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", serr.ErrUpstream, op, err)
}
