package controller

import (
	"context"
	"fmt"

	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/nicoavayu/Armado-Equipos-sub001/realtime"
)

func (c *controller) SubmitSurvey(ctx context.Context, s *model.OutcomeSurvey) error {
	if s == nil {
		return ErrEmptyBallotSet
	}
	if s.VoterRef == "" {
		return ErrEmptyVoter
	}
	if s.MatchID <= 0 {
		return ErrInvalidMatch
	}

	if err := c.db.SaveSurvey(ctx, s); err != nil {
		return err
	}

	c.publish(realtime.Event{MatchID: s.MatchID, Kind: realtime.EventSurveySubmitted})
	return nil
}

// SurveyComplete is a quorum check, not a per-participant audit: a
// participant who never votes but is compensated for by a vote from elsewhere
// still satisfies the gate.
func (c *controller) SurveyComplete(ctx context.Context, matchID int64) (bool, error) {
	roster, err := c.db.GetRoster(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("error loading roster for match %d: %w", matchID, err)
	}
	if len(roster) == 0 {
		return false, nil
	}

	voters, err := c.db.CountDistinctSurveyVoters(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("error counting survey voters for match %d: %w", matchID, err)
	}

	return voters >= len(roster), nil
}
