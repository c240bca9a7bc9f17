package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mwhitfield/eightball/internal/database"
	"github.com/mwhitfield/eightball/internal/models"
	"github.com/mwhitfield/eightball/internal/request"
	"github.com/mwhitfield/eightball/internal/services/oidc"
)

const stateCookieName = "oauth_state"

// AuthHandler handles the OAuth2 login flow and the current-user endpoint
type AuthHandler struct {
	users        database.UserRepositoryInterface
	provider     *oidc.Provider
	issuer       *oidc.TokenIssuer
	providerName string
	frontendURL  string
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users database.UserRepositoryInterface, provider *oidc.Provider, issuer *oidc.TokenIssuer, providerName, frontendURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:        users,
		provider:     provider,
		issuer:       issuer,
		providerName: providerName,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// RegisterRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/login", h.Login).Methods("GET")
	r.HandleFunc("/auth/callback", h.Callback).Methods("GET")
	r.HandleFunc("/auth/logout", h.Logout).Methods("POST")
}

// RegisterProtectedRoutes registers routes behind the auth middleware
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods("GET")
}

// client builds an OAuth2 client from the current provider configuration.
// Configuration lives in the database, so it is loaded per request rather
// than cached.
func (h *AuthHandler) client(r *http.Request) (*oidc.Client, error) {
	config, err := h.provider.GetConfig(r.Context(), h.providerName)
	if err != nil {
		return nil, err
	}
	endpoints := h.provider.ResolveEndpoints(r.Context(), config)
	return oidc.NewClient(config, endpoints), nil
}

// Login redirects the browser to the provider's authorization endpoint
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.logger.Error("oidc_config_unavailable", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Login is not configured")
		return
	}

	state, err := newState()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, client.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the OAuth2 flow: it exchanges the code, upserts the
// user, and redirects back to the frontend with a session token.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.redirectWithError(w, r, "login_failed")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || cookie.Value != state {
		h.redirectWithError(w, r, "invalid_state")
		return
	}

	// Clear the state cookie
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "missing_code")
		return
	}

	client, err := h.client(r)
	if err != nil {
		h.logger.Error("oidc_config_unavailable", zap.Error(err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	ctx := r.Context()
	token, err := client.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.Warn("code_exchange_failed", zap.Error(err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	info, err := client.FetchUserInfo(ctx, token)
	if err != nil {
		h.logger.Warn("userinfo_fetch_failed", zap.Error(err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	user, err := h.upsertUser(r, info)
	if err != nil {
		h.logger.Error("user_upsert_failed", zap.Error(err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	sessionToken, err := h.issuer.Issue(user)
	if err != nil {
		h.logger.Error("token_issue_failed", zap.Error(err))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	h.logger.Info("user_logged_in",
		zap.String("user_id", user.ID.String()),
	)

	redirectURL := h.frontendURL + "/?token=" + url.QueryEscape(sessionToken)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (h *AuthHandler) upsertUser(r *http.Request, info *oidc.UserInfo) (*models.User, error) {
	ctx := r.Context()

	user, err := h.users.GetByProviderID(ctx, info.Sub)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		user = &models.User{
			ID:         uuid.New(),
			ProviderID: info.Sub,
			Email:      info.Email,
		}
		if info.Name != "" {
			user.Name = &info.Name
		}
		if info.Picture != "" {
			user.AvatarURL = &info.Picture
		}
		if err := h.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	updateNeeded := false
	if info.Email != "" && user.Email != info.Email {
		user.Email = info.Email
		updateNeeded = true
	}
	if info.Name != "" && (user.Name == nil || *user.Name != info.Name) {
		user.Name = &info.Name
		updateNeeded = true
	}
	if info.Picture != "" && (user.AvatarURL == nil || *user.AvatarURL != info.Picture) {
		user.AvatarURL = &info.Picture
		updateNeeded = true
	}
	if updateNeeded {
		if err := h.users.Update(ctx, user); err != nil {
			h.logger.Warn("user_profile_sync_failed", zap.Error(err))
		}
	}

	if err := h.users.TouchLastLogin(ctx, user.ID); err != nil {
		h.logger.Warn("last_login_update_failed", zap.Error(err))
	}

	return user, nil
}

func (h *AuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, h.frontendURL+"/?error="+url.QueryEscape(reason), http.StatusFound)
}

// Me handles GET /me for the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Logout acknowledges logout. Session tokens are stateless, so the client
// discards its token; nothing is revoked server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func newState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
