package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// SaveBallots inserts a full ballot set in one transaction. The unique index
// on (match_id, voter_ref, target_ref) turns a lost duplicate race into
// ErrDuplicateBallot.
func (db *postgresDB) SaveBallots(ctx context.Context, ballots []model.RatingBallot) error {
	const insert = `INSERT INTO rating_ballots (
		match_id,
		voter_ref,
		target_ref,
		score
	) VALUES (
		@matchID,
		@voterRef,
		@targetRef,
		@score
	)`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, b := range ballots {
		args := pgx.NamedArgs{
			"matchID":   b.MatchID,
			"voterRef":  b.VoterRef,
			"targetRef": b.TargetRef,
			"score":     b.Score,
		}
		_, err := tx.Exec(ctx, insert, args)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateBallot
			}
			return fmt.Errorf("error inserting ballot: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing ballot transaction: %w", err)
	}
	return nil
}

func (db *postgresDB) HasBallotSet(ctx context.Context, matchID int64, voterRef string) (bool, error) {
	const query = `SELECT count(*) FROM rating_ballots WHERE match_id=@matchID AND voter_ref=@voterRef`

	args := pgx.NamedArgs{
		"matchID":  matchID,
		"voterRef": voterRef,
	}
	var count int
	if err := db.pool.QueryRow(ctx, query, args).Scan(&count); err != nil {
		return false, fmt.Errorf("error counting ballots for voter: %w", err)
	}
	return count > 0, nil
}

func (db *postgresDB) GetBallots(ctx context.Context, matchID int64) ([]model.RatingBallot, error) {
	const query = `SELECT id, match_id, voter_ref, target_ref, score
					FROM rating_ballots WHERE match_id=@matchID ORDER BY id`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying ballots for match %d: %w", matchID, err)
	}

	ballots := make([]model.RatingBallot, 0, 32)
	for rows.Next() {
		var b model.RatingBallot
		err := rows.Scan(&b.ID, &b.MatchID, &b.VoterRef, &b.TargetRef, &b.Score)
		if err != nil {
			return nil, fmt.Errorf("error scanning ballot: %w", err)
		}
		ballots = append(ballots, b)
	}

	return ballots, nil
}

func (db *postgresDB) UpdateParticipantRating(ctx context.Context, matchID, participantID int64, rating float64, goalkeeper bool) error {
	const query = `UPDATE participants
		SET rating=@rating, goalkeeper=@goalkeeper
		WHERE match_id=@matchID AND id=@id`

	args := pgx.NamedArgs{
		"matchID":    matchID,
		"id":         participantID,
		"rating":     rating,
		"goalkeeper": goalkeeper,
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error updating rating for participant %d: %w", participantID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %d not found in match %d", participantID, matchID)
	}
	return nil
}

func (db *postgresDB) DeleteBallots(ctx context.Context, matchID int64) error {
	const query = `DELETE FROM rating_ballots WHERE match_id=@matchID`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	_, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error deleting ballots for match %d: %w", matchID, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
