package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/photofeed/internal/auth"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
)

// sessionMaxAge matches the JWT lifetime so the cookie and the token expire
// together.
const sessionMaxAge = 7 * 24 * time.Hour

// AuthHandler runs the OAuth login flow and session management.
//
//   - HandleLogin    → redirect the browser to the provider
//   - HandleCallback → verify state, exchange the code, provision the user,
//     issue the session cookie
//   - HandleLogout   → clear the session cookie
type AuthHandler struct {
	github *auth.GitHubProvider
	tokens *auth.TokenService
	users  repository.UserRepository
	logger *slog.Logger
}

func NewAuthHandler(
	github *auth.GitHubProvider,
	tokens *auth.TokenService,
	users repository.UserRepository,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		github: github,
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// HandleLogin redirects to the provider's authorization page.
//
// HTTP: GET /auth/github/login
//
// The random state goes into a short-lived cookie; the callback verifies it
// to stop CSRF-initiated flows.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth login flow: state check, code exchange,
// user provisioning, session cookie.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// This is where implicit provisioning happens — a first-time login creates
// the internal user row; returning users get their profile fields refreshed.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// State is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}
	user := &model.User{
		GitHubID:  ghUser.ID,
		Login:     ghUser.Login,
		Name:      name,
		AvatarURL: ghUser.AvatarURL,
	}
	if err := h.users.Upsert(r.Context(), user); err != nil {
		h.logger.Error("auth callback: provisioning failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("login", user.Login),
	)

	tokenStr, err := h.tokens.Generate(user.GitHubID)
	if err != nil {
		h.logger.Error("auth callback: token generation failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// HttpOnly keeps scripts away from the token; SameSite=Lax keeps it off
	// cross-site POSTs. Secure should be set behind HTTPS.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
