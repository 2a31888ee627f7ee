package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Options     []PollOption `json:"options"`
	CreatorID   uuid.UUID    `json:"creator_id"`
	IsLocked    bool         `json:"is_locked"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// TotalVotes is filled by the detail view, VotesCount by the list view.
	// The list skips the per-option join and only carries the total.
	TotalVotes int64 `json:"total_votes"`
	VotesCount int64 `json:"votes_count"`
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	// Read-side aggregates, zero on writes.
	Votes  int64   `json:"votes"`
	Voters []Voter `json:"voters,omitempty"`
}

// Voter identifies one user inside an option tally, in vote creation order.
type Voter struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Expired reports whether the poll is past its expiry. Polls without an
// expiry never expire.
func (p *Poll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Option returns the option with the given id, or nil.
func (p *Poll) Option(id uuid.UUID) *PollOption {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i]
		}
	}
	return nil
}

// PollPage is one page of the poll listing.
type PollPage struct {
	Polls    []*Poll `json:"polls"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
