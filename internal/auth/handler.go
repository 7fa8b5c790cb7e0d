package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"holidays-app/internal/contextutil"
	"holidays-app/internal/storage"
)

const (
	// SessionCookieName holds the session id after a successful login.
	SessionCookieName = "HOLIDAYS_SESSION"
	stateCookieName   = "oauth_state"
	stateTTL          = 10 * time.Minute
)

// Handler serves the login, callback, logout and current-user endpoints.
type Handler struct {
	github   *GitHub
	users    storage.UserStore
	sessions *SessionStore
}

// NewHandler creates a new auth Handler.
func NewHandler(gh *GitHub, users storage.UserStore, sessions *SessionStore) *Handler {
	return &Handler{
		github:   gh,
		users:    users,
		sessions: sessions,
	}
}

// UserResponse is returned by GET /api/me.
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login redirects the browser to GitHub with a fresh state value.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.github.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the authorization code flow and starts a session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		logger.WarnContext(ctx, "oauth state mismatch")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid OAuth state"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		logger.WarnContext(ctx, "oauth authorization denied", "error", errParam)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authorization denied"})
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing authorization code"})
		return
	}

	token, err := h.github.Exchange(ctx, code)
	if err != nil {
		logger.ErrorContext(ctx, "oauth code exchange failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Login with GitHub failed"})
		return
	}
	ghUser, err := h.github.FetchUser(ctx, token)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load github profile", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Login with GitHub failed"})
		return
	}

	user, err := h.findOrCreate(ctx, ghUser)
	if err != nil {
		logger.ErrorContext(ctx, "failed to store user", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to store user"})
		return
	}

	sess := h.sessions.Create(user)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "provider", ProviderGitHub)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) findOrCreate(ctx context.Context, ghUser GitHubUser) (*storage.UserRecord, error) {
	user, err := h.users.FindByOAuth(ctx, ghUser.OAuthID(), ProviderGitHub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	user = &storage.UserRecord{
		Name:     ghUser.DisplayName(),
		Email:    ghUser.Email,
		OAuthID:  ghUser.OAuthID(),
		Provider: ProviderGitHub,
	}
	if err := h.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "user registered", "user_id", user.ID, "provider", ProviderGitHub)
	return user, nil
}

// Logout ends the current session and sends the browser home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		h.sessions.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Me returns the logged-in user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{
		ID:       sess.UserID,
		Name:     sess.Name,
		Email:    sess.Email,
		Provider: sess.Provider,
	})
}

// RequireUser rejects requests without a valid session cookie.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookieName)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
			return
		}
		sess, ok := h.sessions.Get(c.Value)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Session expired"})
			return
		}

		ctx := WithSession(r.Context(), sess)
		logger := contextutil.LoggerFromContext(ctx).With("user_id", sess.UserID)
		ctx = contextutil.WithLogger(ctx, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
