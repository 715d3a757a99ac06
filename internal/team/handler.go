package team

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/team-directory/internal/transport"
	"github.com/frahmantamala/team-directory/pkg/logger"
)

type ServiceAPI interface {
	GetTeams(ctx context.Context) ([]*Team, error)
	GetTeam(ctx context.Context, id string) (*Team, error)
	CreateTeam(ctx context.Context, dto CreateTeamDTO) (*Team, error)
	UpdateTeam(ctx context.Context, id string, dto UpdateTeamDTO) (*Team, error)
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

func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Service.GetTeams(r.Context())
	if err != nil {
		h.Logger.Error("GetTeams: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"total": len(teams),
	})
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "missing team id")
		return
	}

	t, err := h.Service.GetTeam(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetTeam: service error", "error", err, "team_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var dto CreateTeamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTeam: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.CreateTeam(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateTeam: service error", "error", err, "team_name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateTeam: team created",
		"team_id", t.ID,
		"department", t.Department,
		"lead_id", t.LeadID)

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "missing team id")
		return
	}

	var dto UpdateTeamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateTeam: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.UpdateTeam(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateTeam: service error", "error", err, "team_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}
