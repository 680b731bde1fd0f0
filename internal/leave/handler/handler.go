package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	identitymodels "hrportal/internal/identity/models"
	"hrportal/internal/leave/models"
	"hrportal/internal/leave/service"
	"hrportal/internal/session"
	dErrors "hrportal/pkg/domain-errors"
	"hrportal/pkg/platform/httputil"
)

// dateLayout is the wire format for leave dates. Dates carry no time of day.
const dateLayout = "2006-01-02"

// Handler exposes the leave application lifecycle over HTTP.
type Handler struct {
	leaves *service.Service
	logger *slog.Logger
}

func New(leaves *service.Service, logger *slog.Logger) *Handler {
	return &Handler{leaves: leaves, logger: logger}
}

// Register mounts the leave routes. All of them require a session; the
// manager and admin listings additionally require the matching role.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(h.logger))
		r.Post("/leaves", h.handleApply)
		r.Get("/leaves/mine", h.handleMyLeaves)
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(h.logger), session.RequireRole(identitymodels.RoleManager, h.logger))
		r.Get("/manager/leave-requests", h.handleManagerQueue)
		r.Put("/manager/leave-requests/{id}", h.handleDecide)
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(h.logger), session.RequireRole(identitymodels.RoleAdmin, h.logger))
		r.Get("/admin/leave-requests", h.handleAllLeaves)
		r.Post("/leaves/{id}/status", h.handleDecide)
	})
}

type applyRequest struct {
	Type      string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

type decideRequest struct {
	Decision string `json:"decision"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	leaveType, err := models.ParseType(req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid start date"))
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid end date"))
		return
	}

	leave, err := h.leaves.Apply(r.Context(), userID, service.ApplyInput{
		Type:      leaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, leave)
}

func (h *Handler) handleMyLeaves(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	leaves, err := h.leaves.MyLeaves(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, leaves)
}

func (h *Handler) handleManagerQueue(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())

	leaves, err := h.leaves.ManagerQueue(r.Context(), claims.Email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, leaves)
}

func (h *Handler) handleAllLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.leaves.AllLeaves(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, leaves)
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())

	leaveID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid leave id"))
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	decision, err := models.ParseDecision(req.Decision)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	leave, err := h.leaves.Decide(r.Context(), leaveID, decision, claims.Email, claims.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, leave)
}

func subjectID(r *http.Request) (uuid.UUID, error) {
	claims := session.ClaimsFromContext(r.Context())
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid subject")
	}
	return userID, nil
}
