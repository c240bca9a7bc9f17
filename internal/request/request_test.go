package request

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mwhitfield/eightball/internal/models"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "X-Forwarded-For single value",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remote:  "10.0.0.1:4000",
			want:    "203.0.113.7",
		},
		{
			name:    "X-Forwarded-For chain takes first",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2, 10.0.0.3"},
			remote:  "10.0.0.1:4000",
			want:    "203.0.113.7",
		},
		{
			name:    "X-Real-IP fallback",
			headers: map[string]string{"X-Real-IP": " 198.51.100.4 "},
			remote:  "10.0.0.1:4000",
			want:    "198.51.100.4",
		},
		{
			name:   "RemoteAddr fallback",
			remote: "10.0.0.1:4000",
			want:   "10.0.0.1:4000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserFromContext(t *testing.T) {
	t.Parallel()

	t.Run("user present", func(t *testing.T) {
		t.Parallel()

		user := &models.User{ID: uuid.New(), Email: "test@example.com"}
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(WithUser(req.Context(), user))

		got := UserFromContext(req)
		if got == nil {
			t.Fatal("expected user, got nil")
		}
		if got.Email != "test@example.com" {
			t.Errorf("Email = %q, want %q", got.Email, "test@example.com")
		}
	})

	t.Run("no user", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		if got := UserFromContext(req); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("wrong type in context", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		ctx := context.WithValue(req.Context(), userContextKey, "not a user")
		req = req.WithContext(ctx)
		if got := UserFromContext(req); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}
