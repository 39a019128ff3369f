package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

func (db *postgresDB) CreateMatch(ctx context.Context, m *model.Match) error {
	const query = `INSERT INTO matches(scheduled_at, venue, capacity, created_by, state, mode, created)
					VALUES (@scheduledAt, @venue, @capacity, @createdBy, @state, @mode, @created)
					RETURNING id`

	if m.State == "" {
		m.State = model.MatchActive
	}
	m.Created = db.clock.Now().UTC()

	args := pgx.NamedArgs{
		"scheduledAt": m.ScheduledAt,
		"venue":       m.Venue,
		"capacity":    m.Capacity,
		"createdBy":   m.CreatedBy,
		"state":       string(m.State),
		"mode":        m.Mode,
		"created":     m.Created,
	}
	row := db.pool.QueryRow(ctx, query, args)
	if err := row.Scan(&m.ID); err != nil {
		return fmt.Errorf("error inserting match: %w", err)
	}
	return nil
}

func (db *postgresDB) GetMatch(ctx context.Context, id int64) (*model.Match, error) {
	const query = `SELECT id, scheduled_at, venue, capacity, created_by, state, mode, created
					FROM matches WHERE id=@id`

	args := pgx.NamedArgs{
		"id": id,
	}
	row := db.pool.QueryRow(ctx, query, args)

	var m model.Match
	var state string
	var scheduledAt, created pgtype.Timestamptz
	err := row.Scan(&m.ID, &scheduledAt, &m.Venue, &m.Capacity, &m.CreatedBy, &state, &m.Mode, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("error scanning match %d: %w", id, err)
	}
	m.ScheduledAt = scheduledAt.Time
	m.Created = created.Time
	m.State = model.ParseMatchState(state)

	return &m, nil
}

func (db *postgresDB) SetMatchState(ctx context.Context, id int64, state model.MatchState) error {
	const query = `UPDATE matches SET state=@state WHERE id=@id`

	args := pgx.NamedArgs{
		"id":    id,
		"state": string(state),
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error updating match %d state: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (db *postgresDB) AddParticipant(ctx context.Context, p *model.Participant) error {
	const query = `INSERT INTO participants(match_id, id, uuid, account_id, display_name, avatar_url, goalkeeper)
					SELECT @matchID, COALESCE(MAX(id), 0)+1, @uuid, @accountID, @displayName, @avatarURL, @goalkeeper
					FROM participants WHERE match_id=@matchID
					RETURNING id`

	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}

	args := pgx.NamedArgs{
		"matchID":     p.MatchID,
		"uuid":        p.UUID,
		"accountID":   p.AccountID,
		"displayName": p.DisplayName,
		"avatarURL":   p.AvatarURL,
		"goalkeeper":  p.Goalkeeper,
	}
	row := db.pool.QueryRow(ctx, query, args)
	if err := row.Scan(&p.ID); err != nil {
		return fmt.Errorf("error inserting participant for match %d: %w", p.MatchID, err)
	}
	return nil
}

func (db *postgresDB) GetRoster(ctx context.Context, matchID int64) ([]model.Participant, error) {
	const query = `SELECT match_id, id, uuid, account_id, display_name, avatar_url, rating, goalkeeper
					FROM participants WHERE match_id=@matchID ORDER BY id`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying roster for match %d: %w", matchID, err)
	}

	roster := make([]model.Participant, 0, 10)
	for rows.Next() {
		var p model.Participant
		var rating pgtype.Float8
		err := rows.Scan(&p.MatchID, &p.ID, &p.UUID, &p.AccountID, &p.DisplayName, &p.AvatarURL, &rating, &p.Goalkeeper)
		if err != nil {
			return nil, fmt.Errorf("error scanning participant: %w", err)
		}
		if rating.Valid {
			r := rating.Float64
			p.Rating = &r
		}
		roster = append(roster, p)
	}

	return roster, nil
}

func (db *postgresDB) SaveConfirmedTeams(ctx context.Context, matchID int64, split *model.TeamSplit) error {
	const query = `INSERT INTO confirmed_teams(match_id, side_a, side_b)
					VALUES (@matchID, @sideA, @sideB)
					ON CONFLICT (match_id) DO UPDATE SET side_a=@sideA, side_b=@sideB`

	args := pgx.NamedArgs{
		"matchID": matchID,
		"sideA":   split.SideA,
		"sideB":   split.SideB,
	}
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("error saving confirmed teams for match %d: %w", matchID, err)
	}
	return nil
}

func (db *postgresDB) GetConfirmedTeams(ctx context.Context, matchID int64) (*model.TeamSplit, error) {
	const query = `SELECT side_a, side_b FROM confirmed_teams WHERE match_id=@matchID`

	args := pgx.NamedArgs{
		"matchID": matchID,
	}
	row := db.pool.QueryRow(ctx, query, args)

	var split model.TeamSplit
	err := row.Scan(&split.SideA, &split.SideB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning confirmed teams for match %d: %w", matchID, err)
	}
	return &split, nil
}
