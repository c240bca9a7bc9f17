package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mwhitfield/eightball/internal/database"
	"github.com/mwhitfield/eightball/internal/models"
	"github.com/mwhitfield/eightball/internal/request"
	"github.com/mwhitfield/eightball/internal/services/oidc"
)

// Auth validates bearer tokens and attaches the authenticated user to the
// request context. Session tokens carry the internal user ID and fail with
// 404 when the user row no longer exists; provider tokens carry the
// provider subject and create the user on first sight.
func Auth(users database.UserRepositoryInterface, provider *oidc.Provider, verifier *oidc.Verifier, providerName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}
			tokenString := parts[1]

			ctx := r.Context()

			// Provider config is optional. Without it only session tokens
			// verify.
			var jwksURL, providerIssuer string
			if oidcConfig, err := provider.GetConfig(ctx, providerName); err == nil {
				endpoints := provider.ResolveEndpoints(ctx, oidcConfig)
				jwksURL = endpoints.JWKSURL
				providerIssuer = oidcConfig.Issuer
			}

			claims, err := verifier.Verify(ctx, tokenString, jwksURL, providerIssuer)
			if err != nil {
				logger.Debug("token_verification_failed", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			var user *models.User
			if claims.SelfIssued {
				userID, err := uuid.Parse(claims.Sub)
				if err != nil {
					respondError(w, http.StatusUnauthorized, "Invalid token subject")
					return
				}
				user, err = users.GetByID(ctx, userID)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						respondError(w, http.StatusNotFound, "User not found")
						return
					}
					logger.Error("user_lookup_failed", zap.Error(err))
					respondError(w, http.StatusInternalServerError, "Database error")
					return
				}
			} else {
				user, err = users.GetByProviderID(ctx, claims.Sub)
				if err != nil {
					if !errors.Is(err, sql.ErrNoRows) {
						logger.Error("user_lookup_failed", zap.Error(err))
						respondError(w, http.StatusInternalServerError, "Database error")
						return
					}
					user = &models.User{
						ID:         uuid.New(),
						ProviderID: claims.Sub,
						Email:      claims.Email,
					}
					if claims.Name != "" {
						name := claims.Name
						user.Name = &name
					}
					if err := users.Create(ctx, user); err != nil {
						logger.Error("user_create_failed", zap.Error(err))
						respondError(w, http.StatusInternalServerError, "Failed to create user")
						return
					}
				} else {
					syncProfile(ctx, users, user, claims, logger)
				}
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

// syncProfile updates the stored profile when provider claims drift from it.
// A failed update is logged and ignored so the request still proceeds.
func syncProfile(ctx context.Context, users database.UserRepositoryInterface, user *models.User, claims *models.TokenClaims, logger *zap.Logger) {
	updateNeeded := false
	if claims.Email != "" && user.Email != claims.Email {
		user.Email = claims.Email
		updateNeeded = true
	}
	if claims.Name != "" && (user.Name == nil || *user.Name != claims.Name) {
		name := claims.Name
		user.Name = &name
		updateNeeded = true
	}
	if !updateNeeded {
		return
	}
	if err := users.Update(ctx, user); err != nil {
		logger.Warn("user_profile_sync_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
}
