package model

import (
	"fmt"
	"strconv"
)

// Participant is a roster entry. The ID is an ordinal scoped to the match and
// may be reused across matches; UUID and AccountID may each be empty.
// Rating stays nil until the ratings for the match are closed.
type Participant struct {
	MatchID     int64
	ID          int64
	UUID        string
	AccountID   string
	DisplayName string
	AvatarURL   string
	Rating      *float64
	Goalkeeper  bool
}

// StableRef is the canonical reference used across surveys, awards and
// snapshots: the uuid when present, else the account id, else the ordinal id
// as a string.
func (p *Participant) StableRef() string {
	if p.UUID != "" {
		return p.UUID
	}
	if p.AccountID != "" {
		return p.AccountID
	}
	return strconv.FormatInt(p.ID, 10)
}

func (p *Participant) FormattedRating() string {
	if p.Rating == nil {
		return "unrated"
	}
	return fmt.Sprintf("%.2f", *p.Rating)
}
