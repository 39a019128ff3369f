package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

func (db *postgresDB) SaveSurvey(ctx context.Context, s *model.OutcomeSurvey) error {
	const insert = `INSERT INTO outcome_surveys (
		match_id,
		voter_ref,
		best_side_a,
		best_side_b,
		dirty_refs,
		absent_refs,
		created
	) VALUES (
		@matchID,
		@voterRef,
		@bestSideA,
		@bestSideB,
		@dirtyRefs,
		@absentRefs,
		@created
	)`

	args := pgx.NamedArgs{
		"matchID":    s.MatchID,
		"voterRef":   s.VoterRef,
		"bestSideA":  s.BestSideA,
		"bestSideB":  s.BestSideB,
		"dirtyRefs":  emptyIfNil(s.DirtyRefs),
		"absentRefs": emptyIfNil(s.AbsentRefs),
		"created": pgtype.Timestamptz{
			Time:  db.clock.Now().UTC(),
			Valid: true,
		},
	}
	_, err := db.pool.Exec(ctx, insert, args)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSurvey
		}
		return fmt.Errorf("error inserting survey: %w", err)
	}
	return nil
}

func (db *postgresDB) GetSurveys(ctx context.Context, matchID int64) ([]model.OutcomeSurvey, error) {
	const query = `SELECT id, match_id, voter_ref, best_side_a, best_side_b, dirty_refs, absent_refs, created
					FROM outcome_surveys WHERE match_id=@matchID ORDER BY id`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying surveys for match %d: %w", matchID, err)
	}

	surveys := make([]model.OutcomeSurvey, 0, 10)
	for rows.Next() {
		var s model.OutcomeSurvey
		var created pgtype.Timestamptz
		err := rows.Scan(&s.ID, &s.MatchID, &s.VoterRef, &s.BestSideA, &s.BestSideB, &s.DirtyRefs, &s.AbsentRefs, &created)
		if err != nil {
			return nil, fmt.Errorf("error scanning survey: %w", err)
		}
		s.Created = created.Time
		surveys = append(surveys, s)
	}

	return surveys, nil
}

func (db *postgresDB) CountDistinctSurveyVoters(ctx context.Context, matchID int64) (int, error) {
	const query = `SELECT count(DISTINCT voter_ref) FROM outcome_surveys WHERE match_id=@matchID`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	var count int
	if err := db.pool.QueryRow(ctx, query, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting survey voters for match %d: %w", matchID, err)
	}
	return count, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
