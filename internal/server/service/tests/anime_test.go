package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

func newAnimeService(t *testing.T) (*service.AnimeService, *mocks.MockAnimeCatalog) {
	t.Helper()

	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockAnimeCatalog(ctrl)

	return service.NewAnimeService(catalog, config.AnimeConfig{DefaultPerPage: 10, MaxPerPage: 50}), catalog
}

func TestAnimeService_Paging(t *testing.T) {
	svc, _ := newAnimeService(t)

	tests := []struct {
		name            string
		page, perPage   int
		wantPage, wantN int
		wantErr         bool
	}{
		{"defaults", 0, 0, 1, 10, false},
		{"explicit", 3, 25, 3, 25, false},
		{"max", 1, 50, 1, 50, false},
		{"negative page", -1, 10, 0, 0, true},
		{"negative per page", 1, -5, 0, 0, true},
		{"too large", 1, 51, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, n, err := svc.Paging(tt.page, tt.perPage)
			if tt.wantErr {
				require.ErrorIs(t, err, serr.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantPage, p)
			require.Equal(t, tt.wantN, n)
		})
	}
}

func TestAnimeService_Search(t *testing.T) {
	svc, catalog := newAnimeService(t)

	catalog.EXPECT().Search(gomock.Any(), "frieren", 1, 10).Return(models.AnimePage{}, nil)

	_, err := svc.Search(context.Background(), "  frieren ", 0, 0)
	require.NoError(t, err)
}

// пустой запрос — trending
func TestAnimeService_Search_EmptyFallsBackToTrending(t *testing.T) {
	svc, catalog := newAnimeService(t)

	catalog.EXPECT().Trending(gomock.Any(), 2, 5).Return(models.AnimePage{}, nil)
	catalog.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Search(context.Background(), "   ", 2, 5)
	require.NoError(t, err)
}

func TestAnimeService_Popular(t *testing.T) {
	svc, catalog := newAnimeService(t)

	want := models.AnimePage{Media: []models.Anime{{ID: 1, Title: "Naruto"}}}
	catalog.EXPECT().Popular(gomock.Any(), 1, 10).Return(want, nil)

	got, err := svc.Popular(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestAnimeService_ByID(t *testing.T) {
	svc, catalog := newAnimeService(t)

	_, err := svc.ByID(context.Background(), 0)
	require.ErrorIs(t, err, serr.ErrInvalidInput)

	catalog.EXPECT().ByID(gomock.Any(), 99).Return(models.AnimeDetails{}, serr.ErrNotFound)
	_, err = svc.ByID(context.Background(), 99)
	require.ErrorIs(t, err, serr.ErrNotFound)
}

// посторонние ошибки каталога приводятся к ErrUpstream
func TestAnimeService_UpstreamErrors(t *testing.T) {
	svc, catalog := newAnimeService(t)

	catalog.EXPECT().Trending(gomock.Any(), 1, 10).Return(models.AnimePage{}, errors.New("boom"))
	_, err := svc.Trending(context.Background(), 0, 0)
	require.ErrorIs(t, err, serr.ErrUpstream)

	catalog.EXPECT().Trending(gomock.Any(), 1, 10).Return(models.AnimePage{}, context.Canceled)
	_, err = svc.Trending(context.Background(), 0, 0)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, serr.ErrUpstream)
}
