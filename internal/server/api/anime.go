// HTTP-хендлеры каталога аниме
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
)

// Trending — популярное сейчас.
//
// @Summary      Trending
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "страница, с 1"
// @Param        per_page  query     int  false  "размер страницы"
// @Success      200  {object}  models.AnimePage
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /api/anime/trending [get]
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pagingFromQuery(r)
	if err != nil {
		h.fail(w, "trending", err, http.StatusNotFound, serr.MsgNotFound)
		return
	}
	res, err := h.Svc.Anime.Trending(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, "trending", err, http.StatusNotFound, serr.MsgNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Popular — популярное за всё время.
//
// @Summary      Popular
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "страница, с 1"
// @Param        per_page  query     int  false  "размер страницы"
// @Success      200  {object}  models.AnimePage
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /api/anime/popular [get]
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pagingFromQuery(r)
	if err != nil {
		h.fail(w, "popular", err, http.StatusNotFound, serr.MsgNotFound)
		return
	}
	res, err := h.Svc.Anime.Popular(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, "popular", err, http.StatusNotFound, serr.MsgNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Search — поиск по названию. Пустой q отдаёт trending.
//
// @Summary      Поиск аниме
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "название"
// @Param        page      query     int     false  "страница, с 1"
// @Param        per_page  query     int     false  "размер страницы"
// @Success      200  {object}  models.AnimePage
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /api/anime/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pagingFromQuery(r)
	if err != nil {
		h.fail(w, "search", err, http.StatusNotFound, serr.MsgNotFound)
		return
	}
	res, err := h.Svc.Anime.Search(r.Context(), r.URL.Query().Get("q"), page, perPage)
	if err != nil {
		h.fail(w, "search", err, http.StatusNotFound, serr.MsgNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// AnimeByID — карточка тайтла со студиями и связями.
//
// @Summary      Аниме по id
// @Tags         anime
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "AniList id"
// @Success      200  {object}  models.AnimeDetails
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /api/anime/{id} [get]
func (h *Handler) AnimeByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.MsgInvalidInput)
		return
	}
	res, err := h.Svc.Anime.ByID(r.Context(), id)
	if err != nil {
		h.fail(w, "anime by id", err, http.StatusNotFound, serr.MsgNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// pagingFromQuery читает page и per_page. Отсутствующий параметр — 0 (значение по умолчанию).
func pagingFromQuery(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"))
	if err != nil {
		return 0, 0, err
	}
	perPage, err := intParam(q.Get("per_page"))
	if err != nil {
		return 0, 0, err
	}
	return page, perPage, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, serr.ErrInvalidInput
	}
	return n, nil
}
