package api

import (
	"net/http"

	"go.uber.org/zap"

	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Health отвечает 200, если хранилище доступно, иначе 503.
//
// @Summary      Health-check
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Failure      503  {object}  models.HealthResponse
// @Router       /api/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Health.Check(r.Context()); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		WriteJSON(w, http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}
