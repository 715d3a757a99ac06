package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/team-directory/internal/activity"
	"github.com/frahmantamala/team-directory/internal/transport"
	"github.com/frahmantamala/team-directory/pkg/logger"
)

type ServiceAPI interface {
	ProjectStats(ctx context.Context) (ProjectStats, error)
	TaskStats(ctx context.Context) (TaskStats, error)
	TeamStats(ctx context.Context) (TeamStats, error)
	Activity(ctx context.Context) ([]*activity.Entry, error)
	GetOverview(ctx context.Context) (*Overview, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.GetOverview(r.Context())
	if err != nil {
		h.Logger.Error("GetOverview: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) GetProjectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.ProjectStats(r.Context())
	if err != nil {
		h.Logger.Error("GetProjectStats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.TaskStats(r.Context())
	if err != nil {
		h.Logger.Error("GetTaskStats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.TeamStats(r.Context())
	if err != nil {
		h.Logger.Error("GetTeamStats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.Activity(r.Context())
	if err != nil {
		h.Logger.Error("GetActivity: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"activity": entries,
		"total":    len(entries),
	})
}
