package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// outcomeSnapshotVersion tags the frozen award payload format.
const outcomeSnapshotVersion = 1

// SnapshotRoster freezes the roster and team assignments into the result
// row. A previously-confirmed team split is preferred over the live roster
// because confirmed data cannot have drifted since. Idempotent: a second call
// is a no-op, so it is safe to invoke speculatively before displaying
// history.
func (c *controller) SnapshotRoster(ctx context.Context, matchID int64) error {
	existing, err := c.db.GetSurveyResult(ctx, matchID)
	if err != nil && !errors.Is(err, db.ErrResultNotFound) {
		return fmt.Errorf("error loading result for match %d: %w", matchID, err)
	}
	if existing != nil && existing.RosterFrozen {
		return nil
	}

	roster, err := c.db.GetRoster(ctx, matchID)
	if err != nil {
		return fmt.Errorf("error loading roster for match %d: %w", matchID, err)
	}

	entries := make([]model.ParticipantSnapshot, 0, len(roster))
	for i := range roster {
		p := &roster[i]
		entries = append(entries, model.ParticipantSnapshot{
			Ref:         p.StableRef(),
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
			Rating:      p.Rating,
			Goalkeeper:  p.Goalkeeper,
		})
	}
	participants, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error encoding roster snapshot: %w", err)
	}

	var teams json.RawMessage
	confirmed, err := c.db.GetConfirmedTeams(ctx, matchID)
	if err != nil {
		return fmt.Errorf("error loading confirmed teams for match %d: %w", matchID, err)
	}
	if confirmed != nil {
		teams, err = json.Marshal(confirmed)
		if err != nil {
			return fmt.Errorf("error encoding team snapshot: %w", err)
		}
	}

	return c.db.SaveRosterSnapshot(ctx, matchID, participants, teams)
}

type outcomeSnapshot struct {
	Version  int                `json:"version"`
	Awards   model.AwardSummary `json:"awards"`
	ClosedAt time.Time          `json:"closedAt"`
	Reason   string             `json:"reason,omitempty"`
}

// SnapshotOutcome re-derives the award winners by stable reference, merges
// them with any existing computed result row, and freezes a single versioned
// payload with the close metadata. Idempotent like SnapshotRoster.
func (c *controller) SnapshotOutcome(ctx context.Context, matchID int64, reason string) error {
	existing, err := c.db.GetSurveyResult(ctx, matchID)
	if err != nil && !errors.Is(err, db.ErrResultNotFound) {
		return fmt.Errorf("error loading result for match %d: %w", matchID, err)
	}
	if existing != nil && existing.OutcomeFrozen {
		return nil
	}

	roster, err := c.db.GetRoster(ctx, matchID)
	if err != nil {
		return fmt.Errorf("error loading roster for match %d: %w", matchID, err)
	}
	surveys, err := c.db.GetSurveys(ctx, matchID)
	if err != nil {
		return fmt.Errorf("error loading surveys for match %d: %w", matchID, err)
	}

	derived := computeAwards(surveys, newRosterIndex(roster), c.pick)
	awards := derived
	if existing != nil {
		// The computed result row is authoritative where it has winners; the
		// re-derivation only fills the gaps.
		awards = mergeAwards(existing.Awards(), derived)
	}

	closedAt := c.clock.Now().UTC()
	payload, err := json.Marshal(outcomeSnapshot{
		Version:  outcomeSnapshotVersion,
		Awards:   awards,
		ClosedAt: closedAt,
		Reason:   reason,
	})
	if err != nil {
		return fmt.Errorf("error encoding outcome snapshot: %w", err)
	}

	return c.db.SaveOutcomeSnapshot(ctx, matchID, payload, closedAt, reason)
}

func mergeAwards(computed, derived model.AwardSummary) model.AwardSummary {
	merged := computed
	if merged.MVP == "" {
		merged.MVP = derived.MVP
	}
	if merged.GoldenGlove == "" {
		merged.GoldenGlove = derived.GoldenGlove
	}
	if len(merged.DirtyPlayers) == 0 {
		merged.DirtyPlayers = derived.DirtyPlayers
	}
	return merged
}
