package ai

import (
	"strings"
	"testing"

	"github.com/mwhitfield/eightball/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		question string
		mode     models.Mode
		contains []string
	}{
		{
			name:     "normal mode uses cosmic oracle instruction",
			question: "Will it rain tomorrow?",
			mode:     models.ModeNormal,
			contains: []string{"mystical cosmic 8-ball oracle", "Question: Will it rain tomorrow?"},
		},
		{
			name:     "crazy mode uses absurdist instruction",
			question: "Should I quit my job?",
			mode:     models.ModeCrazy,
			contains: []string{"chaotic, absurdist 8-ball", "Question: Should I quit my job?"},
		},
		{
			name:     "bombastic mode uses theatrical instruction",
			question: "Is this the end?",
			mode:     models.ModeBombastic,
			contains: []string{"Shakespearean apocalyptic oracle", "Question: Is this the end?"},
		},
		{
			name:     "unknown mode falls back to normal template",
			question: "Anything?",
			mode:     models.Mode("extreme"),
			contains: []string{"mystical cosmic 8-ball oracle", "Question: Anything?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := BuildPrompt(tt.question, tt.mode)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("BuildPrompt() missing %q in:\n%s", want, got)
				}
			}
			if !strings.HasSuffix(got, "Provide only the answer, nothing else.") {
				t.Errorf("BuildPrompt() missing trailing instruction:\n%s", got)
			}
		})
	}
}

func TestBuildPromptDistinctPerMode(t *testing.T) {
	t.Parallel()

	question := "same question"
	normal := BuildPrompt(question, models.ModeNormal)
	crazy := BuildPrompt(question, models.ModeCrazy)
	bombastic := BuildPrompt(question, models.ModeBombastic)

	if normal == crazy || normal == bombastic || crazy == bombastic {
		t.Error("expected distinct prompts per mode")
	}
}
