package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// UpsertSurveyResult writes the computed winners keyed by match id.
// Recomputing a result replaces the winner columns; the reveal timestamp
// sticks with whichever write set it first, even when a snapshot created the
// row before any consensus ran. Readiness is never written on conflict, so a
// revealed result cannot be hidden again by a recompute.
func (db *postgresDB) UpsertSurveyResult(ctx context.Context, r *model.SurveyResult) error {
	const query = `INSERT INTO survey_results (
		match_id,
		mvp_ref,
		glove_ref,
		dirty_refs,
		ready,
		reveal_at
	) VALUES (
		@matchID,
		@mvpRef,
		@gloveRef,
		@dirtyRefs,
		@ready,
		@revealAt
	)
	ON CONFLICT (match_id) DO UPDATE SET
		mvp_ref=EXCLUDED.mvp_ref,
		glove_ref=EXCLUDED.glove_ref,
		dirty_refs=EXCLUDED.dirty_refs,
		reveal_at=COALESCE(survey_results.reveal_at, EXCLUDED.reveal_at)`

	args := pgx.NamedArgs{
		"matchID":   r.MatchID,
		"mvpRef":    r.MVPRef,
		"gloveRef":  r.GloveRef,
		"dirtyRefs": emptyIfNil(r.DirtyRefs),
		"ready":     r.Ready,
		"revealAt": pgtype.Timestamptz{
			Time:  r.RevealAt.UTC(),
			Valid: !r.RevealAt.IsZero(),
		},
	}
	_, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error upserting survey result for match %d: %w", r.MatchID, err)
	}
	return nil
}

// MarkResultsReady promotes every stored result whose reveal moment has
// passed. The delivery poller calls this so winners become visible on the
// same cadence their notifications go out.
func (db *postgresDB) MarkResultsReady(ctx context.Context, now time.Time) (int, error) {
	const query = `UPDATE survey_results SET ready=TRUE
		WHERE NOT ready AND reveal_at IS NOT NULL AND reveal_at <= @now`

	args := pgx.NamedArgs{
		"now": pgtype.Timestamptz{
			Time:  now.UTC(),
			Valid: true,
		},
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("error marking results ready: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (db *postgresDB) GetSurveyResult(ctx context.Context, matchID int64) (*model.SurveyResult, error) {
	const query = `SELECT match_id, mvp_ref, glove_ref, dirty_refs, ready, reveal_at,
						participants_snapshot, teams_snapshot, awards_snapshot,
						roster_frozen, outcome_frozen, closed_at, close_reason
					FROM survey_results WHERE match_id=@matchID`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	row := db.pool.QueryRow(ctx, query, args)

	var r model.SurveyResult
	var revealAt, closedAt pgtype.Timestamptz
	var participants, teams, awards []byte
	err := row.Scan(&r.MatchID, &r.MVPRef, &r.GloveRef, &r.DirtyRefs, &r.Ready, &revealAt,
		&participants, &teams, &awards,
		&r.RosterFrozen, &r.OutcomeFrozen, &closedAt, &r.CloseReason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("error scanning survey result for match %d: %w", matchID, err)
	}
	r.RevealAt = revealAt.Time
	r.ClosedAt = closedAt.Time
	r.ParticipantsSnapshot = participants
	r.TeamsSnapshot = teams
	r.AwardsSnapshot = awards

	return &r, nil
}

// SaveRosterSnapshot freezes the roster and team payloads. The frozen flag
// makes the operation a no-op when a snapshot already exists.
func (db *postgresDB) SaveRosterSnapshot(ctx context.Context, matchID int64, participants, teams json.RawMessage) error {
	const query = `INSERT INTO survey_results (match_id, participants_snapshot, teams_snapshot, roster_frozen)
		VALUES (@matchID, @participants, @teams, TRUE)
		ON CONFLICT (match_id) DO UPDATE SET
			participants_snapshot=EXCLUDED.participants_snapshot,
			teams_snapshot=EXCLUDED.teams_snapshot,
			roster_frozen=TRUE
		WHERE NOT survey_results.roster_frozen`

	args := pgx.NamedArgs{
		"matchID":      matchID,
		"participants": participants,
		"teams":        teams,
	}
	_, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error saving roster snapshot for match %d: %w", matchID, err)
	}
	return nil
}

// SaveOutcomeSnapshot freezes the award payload with the close metadata,
// guarded the same way as the roster snapshot.
func (db *postgresDB) SaveOutcomeSnapshot(ctx context.Context, matchID int64, awards json.RawMessage, closedAt time.Time, reason string) error {
	const query = `INSERT INTO survey_results (match_id, awards_snapshot, outcome_frozen, closed_at, close_reason)
		VALUES (@matchID, @awards, TRUE, @closedAt, @reason)
		ON CONFLICT (match_id) DO UPDATE SET
			awards_snapshot=EXCLUDED.awards_snapshot,
			outcome_frozen=TRUE,
			closed_at=EXCLUDED.closed_at,
			close_reason=EXCLUDED.close_reason
		WHERE NOT survey_results.outcome_frozen`

	args := pgx.NamedArgs{
		"matchID": matchID,
		"awards":  awards,
		"closedAt": pgtype.Timestamptz{
			Time:  closedAt.UTC(),
			Valid: !closedAt.IsZero(),
		},
		"reason": reason,
	}
	_, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error saving outcome snapshot for match %d: %w", matchID, err)
	}
	return nil
}
