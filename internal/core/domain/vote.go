package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID       uuid.UUID `json:"id"`
	PollID   uuid.UUID `json:"poll_id"`
	OptionID uuid.UUID `json:"option_id"`
	UserID   uuid.UUID `json:"user_id"`
	// VoterName is joined from users on ledger reads only.
	VoterName string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
