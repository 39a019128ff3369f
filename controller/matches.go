package controller

import (
	"context"
	"fmt"

	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

const defaultCapacity = 10

func (c *controller) CreateMatch(ctx context.Context, m *model.Match) error {
	if m == nil || m.ScheduledAt.IsZero() {
		return ErrInvalidMatch
	}
	if m.Capacity <= 0 {
		m.Capacity = defaultCapacity
	}
	return c.db.CreateMatch(ctx, m)
}

func (c *controller) JoinMatch(ctx context.Context, matchID int64, p *model.Participant) error {
	m, err := c.db.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if m.State != model.MatchActive {
		return ErrMatchNotJoinable
	}

	roster, err := c.db.GetRoster(ctx, matchID)
	if err != nil {
		return fmt.Errorf("error loading roster for match %d: %w", matchID, err)
	}
	if len(roster) >= m.Capacity {
		return ErrMatchFull
	}

	p.MatchID = matchID
	if err := c.db.AddParticipant(ctx, p); err != nil {
		return err
	}

	payload := map[string]string{"name": p.DisplayName}
	c.NotifyMatchEvent(ctx, matchID, model.NotificationPlayerJoined, payload, p.StableRef(), true)
	return nil
}
