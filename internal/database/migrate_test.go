package database

import (
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migration files")
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".up.sql") && !strings.HasSuffix(e.Name(), ".down.sql") {
			t.Errorf("unexpected migration file %q", e.Name())
		}
	}
}

// Deleting a user must remove their decisions with them; that behavior
// lives in the schema, so guard the clause that provides it.
func TestInitSchemaCascadesDecisionDelete(t *testing.T) {
	t.Parallel()

	sql, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	schema := string(sql)

	if !strings.Contains(schema, "user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE") {
		t.Error("decisions.user_id foreign key must declare ON DELETE CASCADE")
	}
	if !strings.Contains(schema, "ON decisions(user_id, created_at DESC, seq DESC)") {
		t.Error("history index must cover (user_id, created_at DESC, seq DESC)")
	}
}
