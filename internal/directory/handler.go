package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/team-directory/internal/auth"
	"github.com/frahmantamala/team-directory/internal/transport"
	"github.com/frahmantamala/team-directory/pkg/logger"
)

type ServiceAPI interface {
	GetUsers(ctx context.Context, filter UserFilterDTO) ([]*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error)
	UpdateUser(ctx context.Context, id string, dto UpdateUserDTO) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	SetReportsTo(ctx context.Context, userID string, reportsTo *string) error
	BulkReassign(ctx context.Context, dto BulkReassignDTO) (*BulkReassignResult, error)
	SuperiorChain(ctx context.Context, userID string) ([]*User, error)
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

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := UserFilterDTO{
		Search:     q.Get("search"),
		Role:       q.Get("role"),
		Department: q.Get("department"),
	}

	users, err := h.Service.GetUsers(r.Context(), filter)
	if err != nil {
		h.Logger.Error("GetUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": len(users),
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "missing user id")
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

// GetCurrentUser returns the directory record of the authenticated user.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.Logger.Error("GetCurrentUser: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.Service.GetUser(r.Context(), sessionUser.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "error", err, "user_id", sessionUser.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.CreateUser(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateUser: user created",
		"user_id", user.ID,
		"department", user.Department,
		"roles", user.Roles)

	h.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "missing user id")
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.UpdateUser(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "missing user id")
		return
	}

	if err := h.Service.DeleteUser(r.Context(), id); err != nil {
		h.Logger.Error("DeleteUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteUser: user removed", "user_id", id)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SetReportsTo(w http.ResponseWriter, r *http.Request) {
	var dto SetReportsToDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SetReportsTo: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.SetReportsTo(r.Context(), dto.UserID, dto.ReportsTo); err != nil {
		h.Logger.Error("SetReportsTo: service error", "error", err, "user_id", dto.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) BulkReassign(w http.ResponseWriter, r *http.Request) {
	var dto BulkReassignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("BulkReassign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.BulkReassign(r.Context(), dto)
	if err != nil {
		h.Logger.Error("BulkReassign: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("BulkReassign: completed",
		"applied", len(result.Applied),
		"rejected", len(result.Rejected))

	h.WriteJSON(w, http.StatusOK, result)
}

// SuperiorChain returns the reporting chain of a user, nearest first.
func (h *Handler) SuperiorChain(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "missing user id")
		return
	}

	chain, err := h.Service.SuperiorChain(r.Context(), id)
	if err != nil {
		h.Logger.Error("SuperiorChain: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"chain": chain})
}
