package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// SaveAbsence records a player's notice. A second notice from the same player
// replaces the first; the most recent notice is the one that counts.
func (db *postgresDB) SaveAbsence(ctx context.Context, a *model.AbsenceRecord) error {
	const query = `INSERT INTO absences (
		match_id,
		participant_ref,
		reason,
		hours_before,
		notified_in_time,
		found_replacement,
		created
	) VALUES (
		@matchID,
		@participantRef,
		@reason,
		@hoursBefore,
		@notifiedInTime,
		@foundReplacement,
		@created
	)
	ON CONFLICT (match_id, participant_ref) DO UPDATE SET
		reason=EXCLUDED.reason,
		hours_before=EXCLUDED.hours_before,
		notified_in_time=EXCLUDED.notified_in_time,
		found_replacement=EXCLUDED.found_replacement,
		created=EXCLUDED.created`

	args := pgx.NamedArgs{
		"matchID":          a.MatchID,
		"participantRef":   a.ParticipantRef,
		"reason":           a.Reason,
		"hoursBefore":      a.HoursBefore,
		"notifiedInTime":   a.NotifiedInTime,
		"foundReplacement": a.FoundReplacement,
		"created": pgtype.Timestamptz{
			Time:  db.clock.Now().UTC(),
			Valid: true,
		},
	}
	_, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error saving absence record: %w", err)
	}
	return nil
}

func (db *postgresDB) GetAbsence(ctx context.Context, matchID int64, participantRef string) (*model.AbsenceRecord, error) {
	const query = `SELECT match_id, participant_ref, reason, hours_before, notified_in_time, found_replacement, created
					FROM absences WHERE match_id=@matchID AND participant_ref=@participantRef`

	args := pgx.NamedArgs{
		"matchID":        matchID,
		"participantRef": participantRef,
	}
	row := db.pool.QueryRow(ctx, query, args)

	a, err := scanAbsence(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAbsenceNotFound
		}
		return nil, fmt.Errorf("error scanning absence record: %w", err)
	}
	return a, nil
}

func (db *postgresDB) ListAbsences(ctx context.Context, matchID int64) ([]model.AbsenceRecord, error) {
	const query = `SELECT match_id, participant_ref, reason, hours_before, notified_in_time, found_replacement, created
					FROM absences WHERE match_id=@matchID ORDER BY participant_ref`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying absences for match %d: %w", matchID, err)
	}

	records := make([]model.AbsenceRecord, 0, 4)
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning absence record: %w", err)
		}
		records = append(records, *a)
	}

	return records, nil
}

func scanAbsence(row pgx.Row) (*model.AbsenceRecord, error) {
	var a model.AbsenceRecord
	var created pgtype.Timestamptz
	err := row.Scan(&a.MatchID, &a.ParticipantRef, &a.Reason, &a.HoursBefore, &a.NotifiedInTime, &a.FoundReplacement, &created)
	if err != nil {
		return nil, err
	}
	a.Created = created.Time
	return &a, nil
}
