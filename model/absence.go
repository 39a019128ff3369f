package model

import "time"

// MinNoticeHours is the notice window before kickoff that avoids a penalty.
const MinNoticeHours = 4.0

// AbsenceRecord is a player's own notice that they will miss a match.
// A participant nominated as absent with no record at all is treated as
// penalty-eligible by default.
type AbsenceRecord struct {
	MatchID          int64
	ParticipantRef   string
	Reason           string
	HoursBefore      float64
	NotifiedInTime   bool
	FoundReplacement bool
	Created          time.Time
}
