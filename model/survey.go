package model

import "time"

// OutcomeSurvey is one voter's post-match survey. Rows are only ever inserted
// and read in aggregate, never updated. Nominee references may be stored as
// stable references or as ordinal ids in string form.
type OutcomeSurvey struct {
	ID         int64
	MatchID    int64
	VoterRef   string
	BestSideA  string
	BestSideB  string
	DirtyRefs  []string
	AbsentRefs []string
	Created    time.Time
}
