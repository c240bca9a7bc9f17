package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mwhitfield/eightball/internal/models"
)

// TestHistoryFilter verifies the WHERE clause shared by the page and count
// queries so both always see the same row set.
func TestHistoryFilter(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	crazy := models.ModeCrazy

	tests := []struct {
		name      string
		mode      *models.Mode
		wantWhere string
		wantArgs  int
	}{
		{
			name:      "no mode filter",
			mode:      nil,
			wantWhere: "WHERE user_id = $1",
			wantArgs:  1,
		},
		{
			name:      "mode filter adds second placeholder",
			mode:      &crazy,
			wantWhere: "WHERE user_id = $1 AND mode = $2",
			wantArgs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			where, args := historyFilter(userID, tt.mode)
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if len(args) != tt.wantArgs {
				t.Fatalf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
			if args[0] != userID {
				t.Errorf("args[0] = %v, want user ID %v", args[0], userID)
			}
			if tt.mode != nil && args[1] != string(*tt.mode) {
				t.Errorf("args[1] = %v, want %q", args[1], string(*tt.mode))
			}
		})
	}
}
