package ai

import (
	"fmt"

	"github.com/mwhitfield/eightball/internal/models"
)

// modePrompts maps each personality mode to its system instruction.
var modePrompts = map[models.Mode]string{
	models.ModeNormal: "You are a mystical cosmic 8-ball oracle. Respond to questions " +
		"with thoughtful, wise, and cosmic wisdom. Keep your response to 1-3 sentences. " +
		"Be mysterious and spiritual.",
	models.ModeCrazy: "You are a chaotic, absurdist 8-ball with the energy of a pigeon " +
		"and lemon. Respond to questions with hilarious, nonsensical, and absurd wisdom. " +
		"Keep it wild, funny, and unpredictable. 1-2 sentences.",
	models.ModeBombastic: "You are a Shakespearean apocalyptic oracle obsessed with " +
		"theatrical despair and grand drama. Respond with EXTREME CAPS, existential " +
		"dread, and dramatic flair. Quote Shakespeare-style language. 2-3 sentences " +
		"of pure chaos.",
}

// BuildPrompt combines the mode's instruction template with the question.
// Unknown modes fall back to the normal template; mode is validated before
// this point, so the fallback only documents a safe default.
func BuildPrompt(question string, mode models.Mode) string {
	system, ok := modePrompts[mode]
	if !ok {
		system = modePrompts[models.ModeNormal]
	}
	return fmt.Sprintf("%s\n\nQuestion: %s\n\nProvide only the answer, nothing else.", system, question)
}
