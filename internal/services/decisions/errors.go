package decisions

import "errors"

var (
	// ErrQuestionRequired indicates the question was empty after trimming
	ErrQuestionRequired = errors.New("question is required")
	// ErrInvalidMode indicates the mode is not one of the known personalities
	ErrInvalidMode = errors.New("invalid mode")
	// ErrDecisionNotFound indicates no decision exists with the given ID
	ErrDecisionNotFound = errors.New("decision not found")
	// ErrNotDecisionOwner indicates the decision belongs to a different user
	ErrNotDecisionOwner = errors.New("decision belongs to another user")
)

// GenerationError wraps a text-generation failure. No decision record is
// written when generation fails, so callers can rely on the store staying
// untouched for this error.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "answer generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
