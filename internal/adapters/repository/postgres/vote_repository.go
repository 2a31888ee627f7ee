package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
	"github.com/4UT15T1Ck/pollApp/internal/core/ports"
)

const uniqueViolation = "23505"

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.PollID, vote.OptionID, vote.UserID, vote.CreatedAt)
	if err != nil {
		// The (poll_id, user_id) unique index is the arbiter under concurrent
		// casts; surface it as the same conflict the fast path reports.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *voteRepository) Find(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, poll_id, option_id, user_id, created_at
		FROM votes
		WHERE poll_id = $1 AND user_id = $2
	`
	var vote domain.Vote
	err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(
		&vote.ID, &vote.PollID, &vote.OptionID, &vote.UserID, &vote.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return &vote, nil
}

func (r *voteRepository) GetByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	query := `
		SELECT v.id, v.poll_id, v.option_id, v.user_id, u.name, v.created_at
		FROM votes v
		JOIN users u ON u.id = v.user_id
		WHERE v.poll_id = $1
		ORDER BY v.created_at, v.id
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var vote domain.Vote
		err := rows.Scan(&vote.ID, &vote.PollID, &vote.OptionID, &vote.UserID, &vote.VoterName, &vote.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

func (r *voteRepository) Delete(ctx context.Context, pollID, userID uuid.UUID) error {
	query := `DELETE FROM votes WHERE poll_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, pollID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

func (r *voteRepository) DeleteByPoll(ctx context.Context, pollID uuid.UUID) error {
	query := `DELETE FROM votes WHERE poll_id = $1`
	_, err := r.db.ExecContext(ctx, query, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll votes: %w", err)
	}
	return nil
}

func (r *voteRepository) DeleteByPollAndOption(ctx context.Context, pollID, optionID uuid.UUID) error {
	query := `DELETE FROM votes WHERE poll_id = $1 AND option_id = $2`
	_, err := r.db.ExecContext(ctx, query, pollID, optionID)
	if err != nil {
		return fmt.Errorf("failed to delete option votes: %w", err)
	}
	return nil
}
