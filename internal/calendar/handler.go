package calendar

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/team-directory/internal/transport"
	"github.com/frahmantamala/team-directory/pkg/logger"
)

type ServiceAPI interface {
	Events(ctx context.Context) ([]Event, error)
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

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.Events(r.Context())
	if err != nil {
		h.Logger.Error("GetEvents: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  len(events),
	})
}
