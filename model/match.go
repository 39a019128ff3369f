package model

import "time"

type MatchState string

const (
	MatchActive   MatchState = "active"
	MatchFinished MatchState = "finished"
)

func ParseMatchState(s string) MatchState {
	switch s {
	case "finished":
		return MatchFinished
	default:
		return MatchActive
	}
}

type Match struct {
	ID          int64
	ScheduledAt time.Time
	Venue       string
	Capacity    int
	CreatedBy   string
	State       MatchState
	Mode        string
	Created     time.Time
}

func (m *Match) FormattedScheduledAt() string {
	if m.ScheduledAt.IsZero() {
		return "unknown"
	}
	return m.ScheduledAt.Format(time.DateTime)
}
