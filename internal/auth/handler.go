package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/session"
	"github.com/autowerk/garage-management/internal/transport"
	"github.com/autowerk/garage-management/pkg/logger"
)

type ctxKey string

const ContextSessionKey ctxKey = "session"

// SessionFromContext returns the authenticated session placed by RequireLogin.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(ContextSessionKey).(*session.Session)
	return s, ok
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Codec   *session.Codec
}

func NewHandler(svc ServiceAPI, codec *session.Codec) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Codec:       codec,
	}
}

type loginResponse struct {
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	GarageID    int64  `json:"garage_id"`
	CSRFToken   string `json:"csrf_token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// the browser may carry a pre-login session; it gets regenerated on success
	priorSessionID, _ := h.Codec.ReadSessionID(r)

	sess, err := h.Service.Login(r.Context(), dto, sourceAddr(r), priorSessionID)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err, "username", dto.Username)
		h.writeServiceError(w, err)
		return
	}

	if err := h.Codec.WriteSessionID(w, sess.ID); err != nil {
		h.Logger.Error("failed to write session cookie", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.Service.GenerateCSRFToken(r.Context(), sess.ID)
	if err != nil {
		h.Logger.Error("failed to issue csrf token", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, loginResponse{
		Role:        sess.Role,
		DisplayName: sess.DisplayName,
		GarageID:    sess.GarageID,
		CSRFToken:   token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := h.Codec.ReadSessionID(r)

	if err := h.Service.Logout(r.Context(), sessionID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.Codec.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.Service.CurrentUser(r.Context(), sess.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	token, err := h.Service.GenerateCSRFToken(r.Context(), sess.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

// RequireLogin resolves the session cookie and rejects the request when no
// live session backs it. The session lands in the request context for
// downstream gates and handlers.
func (h *Handler) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := h.Codec.ReadSessionID(r)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		sess, ok := h.Service.IsLoggedIn(r.Context(), sessionID)
		if !ok {
			h.Codec.ClearSession(w)
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ContextSessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole layers an exact role match on top of RequireLogin.
func (h *Handler) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return h.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				h.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if Role(sess.Role) != role {
				h.Logger.Warn("access denied: role gate",
					"required_role", role,
					"session_role", sess.Role)
				h.WriteError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	if _, ok := err.(ValidationError); ok {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

func sourceAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
