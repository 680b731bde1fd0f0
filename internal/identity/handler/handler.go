package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hrportal/internal/identity/device"
	identitymetrics "hrportal/internal/identity/metrics"
	"hrportal/internal/identity/models"
	"hrportal/internal/identity/service"
	"hrportal/internal/session"
	"hrportal/internal/session/store/revocation"
	dErrors "hrportal/pkg/domain-errors"
	"hrportal/pkg/platform/httputil"
)

// Handler exposes the account lifecycle over HTTP: registration, login,
// session refresh, onboarding, and the admin/manager views.
type Handler struct {
	users       *service.Service
	issuer      *session.Issuer
	refresher   *session.Refresher
	revocations revocation.Store
	metrics     *identitymetrics.Metrics
	cookieName  string
	logger      *slog.Logger
}

func New(
	users *service.Service,
	issuer *session.Issuer,
	refresher *session.Refresher,
	revocations revocation.Store,
	metrics *identitymetrics.Metrics,
	cookieName string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		users:       users,
		issuer:      issuer,
		refresher:   refresher,
		revocations: revocations,
		metrics:     metrics,
		cookieName:  cookieName,
		logger:      logger,
	}
}

// Register mounts the identity routes. Authenticated routes carry explicit
// middleware here; page-level gating happens elsewhere and never applies to
// the API surface.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(h.logger))
		r.Post("/auth/logout", h.handleLogout)
		r.Post("/auth/refresh", h.handleRefresh)
		r.Get("/me", h.handleMe)
		r.Post("/users/complete-profile", h.handleCompleteProfile)
		r.Put("/users/profile", h.handleUpdateProfile)
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(h.logger), session.RequireRole(models.RoleManager, h.logger))
		r.Get("/manager/assigned-users", h.handleAssignedUsers)
	})

	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(h.logger), session.RequireRole(models.RoleAdmin, h.logger))
		r.Get("/admin/users", h.handleListUsers)
		r.Get("/admin/pending-users", h.handleListPending)
		r.Post("/admin/handle-request", h.handleApproval)
		r.Get("/admin/users/{id}", h.handleGetUser)
		r.Put("/admin/users/{id}", h.handleAdminUpdateUser)
		r.Put("/admin/users/{id}/role", h.handleUpdateRole)
		r.Delete("/admin/users/{id}", h.handleDeleteUser)
		r.Get("/admin/employees/{code}", h.handleGetByEmployeeCode)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session"))
		return
	}

	h.setSessionCookie(w, token)
	h.logger.InfoContext(r.Context(), "login",
		"user_id", user.ID,
		"device", device.ParseUserAgent(r.UserAgent()),
	)
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())

	if h.revocations != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := h.revocations.Revoke(r.Context(), claims.ID, ttl); err != nil {
				h.logger.ErrorContext(r.Context(), "failed to revoke session", "error", err, "jti", claims.ID)
			}
		}
	}

	h.clearSessionCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// handleRefresh re-reads the gating fields from the store and re-issues the
// session token. Clients call this after onboarding or after an admin changed
// their account, instead of logging in again.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())

	var req refreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	token, refreshed, err := h.refresher.Refresh(r.Context(), claims, session.Overrides{
		DisplayName: req.Name,
		Email:       req.Email,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.metrics.IncrementClaimsRefreshes()
	h.setSessionCookie(w, token)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"claims": map[string]any{
			"role":             refreshed.Role,
			"status":           refreshed.Status,
			"profile_complete": refreshed.ProfileComplete,
			"name":             refreshed.DisplayName,
			"email":            refreshed.Email,
			"employee_code":    refreshed.EmployeeCode,
			"manager_email":    refreshed.ManagerEmail,
		},
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := h.subjectID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// handleCompleteProfile records the onboarding form for the caller. The
// subject always comes from the session, never the body, so nobody can
// complete onboarding on another account.
func (h *Handler) handleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := h.subjectID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req completeProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.CompleteProfile(r.Context(), userID, service.CompleteProfileInput{
		Profile:      req.profile(),
		ManagerEmail: req.ManagerEmail,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := h.subjectID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	in := service.UpdateProfileInput{
		Name:         req.Name,
		Phone:        req.Phone,
		ManagerEmail: req.ManagerEmail,
	}
	if req.Profile != nil {
		profile := req.Profile.profile()
		in.Profile = &profile
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// handleAdminUpdateUser is the admin variant of the profile update: the target
// comes from the URL instead of the session subject.
func (h *Handler) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	in := service.UpdateProfileInput{
		Name:         req.Name,
		Phone:        req.Phone,
		ManagerEmail: req.ManagerEmail,
	}
	if req.Profile != nil {
		profile := req.Profile.profile()
		in.Profile = &profile
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleAssignedUsers(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFromContext(r.Context())

	users, err := h.users.ListAssigned(r.Context(), claims.Email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListPending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleApproval(w http.ResponseWriter, r *http.Request) {
	var req handleRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	user, err := h.users.HandleApproval(r.Context(), userID, req.Action)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleGetByEmployeeCode(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByEmployeeCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid role"))
		return
	}

	user, err := h.users.UpdateRole(r.Context(), userID, role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// subjectID parses the session subject. RequireAuth guarantees claims exist.
func (h *Handler) subjectID(r *http.Request) (uuid.UUID, error) {
	claims := session.ClaimsFromContext(r.Context())
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid subject")
	}
	return userID, nil
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.issuer.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
