package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/mwhitfield/eightball/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("decision_mode", validateDecisionMode); err != nil {
		panic(fmt.Sprintf("failed to register decision_mode validator: %v", err))
	}
}

// validateDecisionMode validates that a string is a valid Mode enum value
func validateDecisionMode(fl validator.FieldLevel) bool {
	return models.Mode(fl.Field().String()).Valid()
}

// ValidateMode validates a mode string value
func ValidateMode(value string) error {
	if !models.Mode(value).Valid() {
		return fmt.Errorf("invalid mode: %s (must be 'normal', 'crazy', or 'bombastic')", value)
	}
	return nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing
// control characters except newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
