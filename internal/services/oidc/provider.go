package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mwhitfield/eightball/internal/database"
	"github.com/mwhitfield/eightball/internal/models"
)

// Endpoints holds the provider URLs resolved from the OIDC discovery
// document, with issuer-derived fallbacks when discovery is unavailable.
type Endpoints struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserInfoEndpoint      string `json:"userinfo_endpoint"`
	JWKSURL               string `json:"jwks_uri"`
}

// Provider manages OIDC provider configuration
type Provider struct {
	repo *database.OIDCConfigRepository
}

// NewProvider creates a new OIDC provider manager
func NewProvider(repo *database.OIDCConfigRepository) *Provider {
	return &Provider{repo: repo}
}

// GetConfig retrieves OIDC configuration for a provider
func (p *Provider) GetConfig(ctx context.Context, providerName string) (*models.OIDCConfig, error) {
	config, err := p.repo.GetByProvider(ctx, providerName)
	if err != nil {
		return nil, fmt.Errorf("failed to get OIDC config: %w", err)
	}
	return config, nil
}

// ResolveEndpoints discovers the provider's OAuth2 endpoints. It tries the
// discovery document first and falls back to issuer-relative paths, so a
// provider without discovery still gets a usable configuration.
func (p *Provider) ResolveEndpoints(ctx context.Context, config *models.OIDCConfig) *Endpoints {
	endpoints := &Endpoints{}

	discoveryURL := strings.TrimSuffix(config.Issuer, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err == nil {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Do(req)
		if err == nil {
			if resp.StatusCode == http.StatusOK {
				_ = json.NewDecoder(resp.Body).Decode(endpoints)
			}
			_ = resp.Body.Close()
		}
	}

	base := strings.TrimSuffix(config.Issuer, "/")
	if endpoints.AuthorizationEndpoint == "" {
		endpoints.AuthorizationEndpoint = base + "/oauth2/authorize"
	}
	if endpoints.TokenEndpoint == "" {
		endpoints.TokenEndpoint = base + "/oauth2/token"
	}
	if endpoints.UserInfoEndpoint == "" {
		endpoints.UserInfoEndpoint = base + "/oauth2/userInfo"
	}
	if endpoints.JWKSURL == "" {
		if config.JWKSUrl != nil && *config.JWKSUrl != "" {
			endpoints.JWKSURL = *config.JWKSUrl
		} else {
			endpoints.JWKSURL = base + "/.well-known/jwks.json"
		}
	}

	return endpoints
}
