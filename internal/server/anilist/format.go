package anilist

import (
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/utils"
)

// Сырые структуры ответа AniList.

type title struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

type coverImage struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
}

type media struct {
	ID           int        `json:"id"`
	Title        title      `json:"title"`
	CoverImage   coverImage `json:"coverImage"`
	BannerImage  string     `json:"bannerImage"`
	Description  string     `json:"description"`
	Episodes     *int       `json:"episodes"`
	Status       string     `json:"status"`
	AverageScore *int       `json:"averageScore"`
	Genres       []string   `json:"genres"`
	SeasonYear   *int       `json:"seasonYear"`

	Studios *struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios,omitempty"`

	Relations *struct {
		Edges []struct {
			RelationType string `json:"relationType"`
			Node         struct {
				ID         int        `json:"id"`
				Title      title      `json:"title"`
				CoverImage coverImage `json:"coverImage"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"relations,omitempty"`
}

type pageData struct {
	Page struct {
		PageInfo models.PageInfo `json:"pageInfo"`
		Media    []media         `json:"media"`
	} `json:"Page"`
}

type mediaData struct {
	Media *media `json:"Media"`
}

// format приводит тайтл AniList к плоскому виду приложения.
//
// Название: english, затем romaji, затем native.
// Картинка: large, затем medium.
func format(m media) models.Anime {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return models.Anime{
		ID:          m.ID,
		Title:       utils.FirstNonEmpty(m.Title.English, m.Title.Romaji, m.Title.Native),
		Image:       utils.FirstNonEmpty(m.CoverImage.Large, m.CoverImage.Medium),
		BannerImage: m.BannerImage,
		Description: m.Description,
		Episodes:    m.Episodes,
		Status:      m.Status,
		Score:       m.AverageScore,
		Genres:      genres,
		Year:        m.SeasonYear,
	}
}

func formatDetails(m media) models.AnimeDetails {
	d := models.AnimeDetails{
		Anime:     format(m),
		Studios:   []string{},
		Relations: []models.AnimeRelation{},
	}
	if m.Studios != nil {
		for _, s := range m.Studios.Nodes {
			d.Studios = append(d.Studios, s.Name)
		}
	}
	if m.Relations != nil {
		for _, e := range m.Relations.Edges {
			d.Relations = append(d.Relations, models.AnimeRelation{
				RelationType: e.RelationType,
				ID:           e.Node.ID,
				Title:        utils.FirstNonEmpty(e.Node.Title.English, e.Node.Title.Romaji, e.Node.Title.Native),
				Image:        utils.FirstNonEmpty(e.Node.CoverImage.Large, e.Node.CoverImage.Medium),
			})
		}
	}
	return d
}

func formatPage(p pageData) models.AnimePage {
	out := models.AnimePage{
		PageInfo: p.Page.PageInfo,
		Media:    make([]models.Anime, 0, len(p.Page.Media)),
	}
	for _, m := range p.Page.Media {
		out.Media = append(out.Media, format(m))
	}
	return out
}
