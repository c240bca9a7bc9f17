package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/mwhitfield/eightball/internal/models"
)

func stringPtr(s string) *string {
	return &s
}

func testEndpoints(base string) *Endpoints {
	return &Endpoints{
		AuthorizationEndpoint: base + "/authorize",
		TokenEndpoint:         base + "/token",
		UserInfoEndpoint:      base + "/userinfo",
		JWKSURL:               base + "/jwks",
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		oidcConfig *models.OIDCConfig
		validate   func(*testing.T, *Client)
	}{
		{
			name: "with client secret",
			oidcConfig: &models.OIDCConfig{
				ClientID:     "test-client-id",
				ClientSecret: stringPtr("test-secret"),
				RedirectURI:  "http://localhost:5173/callback",
				Issuer:       "https://accounts.example.com",
			},
			validate: func(t *testing.T, client *Client) {
				if client.config.ClientID != "test-client-id" {
					t.Errorf("ClientID = %q", client.config.ClientID)
				}
				if client.config.ClientSecret != "test-secret" {
					t.Errorf("ClientSecret = %q", client.config.ClientSecret)
				}
				if client.config.RedirectURL != "http://localhost:5173/callback" {
					t.Errorf("RedirectURL = %q", client.config.RedirectURL)
				}
			},
		},
		{
			name: "without client secret (public client)",
			oidcConfig: &models.OIDCConfig{
				ClientID:     "test-client-id",
				ClientSecret: nil,
				RedirectURI:  "http://localhost:5173/callback",
				Issuer:       "https://accounts.example.com",
			},
			validate: func(t *testing.T, client *Client) {
				if client.config.ClientSecret != "" {
					t.Errorf("ClientSecret = %q, want empty for public client", client.config.ClientSecret)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := NewClient(tt.oidcConfig, testEndpoints("https://auth.example.com"))
			if client == nil {
				t.Fatal("NewClient() returned nil")
			}
			tt.validate(t, client)
		})
	}
}

func TestAuthCodeURL(t *testing.T) {
	t.Parallel()

	client := NewClient(&models.OIDCConfig{
		ClientID:    "cid",
		RedirectURI: "http://localhost:5173/callback",
		Issuer:      "https://accounts.example.com",
	}, testEndpoints("https://auth.example.com"))

	url := client.AuthCodeURL("state-123")
	for _, want := range []string{"https://auth.example.com/authorize", "client_id=cid", "state=state-123", "scope=openid+email+profile"} {
		if !strings.Contains(url, want) {
			t.Errorf("AuthCodeURL() missing %q in %s", want, url)
		}
	}
}

func TestFetchUserInfo(t *testing.T) {
	t.Parallel()

	t.Run("decodes profile", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer access-token" {
				t.Errorf("Authorization = %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(UserInfo{
				Sub:     "provider-sub-1",
				Email:   "user@example.com",
				Name:    "Test User",
				Picture: "https://img.example.com/a.png",
			})
		}))
		defer server.Close()

		client := NewClient(&models.OIDCConfig{
			ClientID:    "cid",
			RedirectURI: "http://localhost:5173/callback",
			Issuer:      server.URL,
		}, testEndpoints(server.URL))

		info, err := client.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "access-token"})
		if err != nil {
			t.Fatalf("FetchUserInfo() error = %v", err)
		}
		if info.Sub != "provider-sub-1" || info.Email != "user@example.com" {
			t.Errorf("FetchUserInfo() = %+v", info)
		}
	})

	t.Run("rejects missing sub", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"email":"user@example.com"}`))
		}))
		defer server.Close()

		client := NewClient(&models.OIDCConfig{ClientID: "cid", Issuer: server.URL}, testEndpoints(server.URL))

		if _, err := client.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "t"}); err == nil {
			t.Fatal("FetchUserInfo() expected error for missing sub")
		}
	})

	t.Run("rejects non-200 status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(&models.OIDCConfig{ClientID: "cid", Issuer: server.URL}, testEndpoints(server.URL))

		if _, err := client.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "t"}); err == nil {
			t.Fatal("FetchUserInfo() expected error for 401")
		}
	})
}
