package models

import (
	"time"

	"github.com/google/uuid"
)

// Mode selects the personality template used when generating an answer.
type Mode string

const (
	ModeNormal    Mode = "normal"
	ModeCrazy     Mode = "crazy"
	ModeBombastic Mode = "bombastic"
)

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeNormal, ModeCrazy, ModeBombastic:
		return true
	default:
		return false
	}
}

// ParseMode parses a mode string. The second return value is false when the
// value is not in the enumeration.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	return m, m.Valid()
}

// Decision is a persisted question/answer pair. Decisions are immutable once
// created; the only operations are create, read, and delete.
type Decision struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Mode      Mode      `json:"mode"`
	CreatedAt time.Time `json:"created_at"`

	// Seq is a monotonic insertion counter used to break created_at ties so
	// history ordering is deterministic across repeated reads.
	Seq int64 `json:"-"`
}
