package model

const (
	ScoreMin = 1
	ScoreMax = 10

	// Sentinel scores. Both are excluded from averaging; the goalkeeper mark
	// additionally flags its target as the team's goalkeeper.
	GoalkeeperMark = -1
	AbstainMark    = -2
)

// BallotEntry is one (target, score) pair inside a submitted ballot set.
// TargetRef may be a stable reference, an account id, or an ordinal id in
// string form depending on which screen produced it.
type BallotEntry struct {
	TargetRef string `json:"targetRef"`
	Score     int    `json:"score"`
}

// RatingBallot is a stored entry. Ballots are ephemeral: they are deleted en
// masse when the ratings for their match are closed.
type RatingBallot struct {
	ID        int64
	MatchID   int64
	VoterRef  string
	TargetRef string
	Score     int
}

// ValidScore reports whether a score participates in the numeric average.
func ValidScore(s int) bool {
	return s >= ScoreMin && s <= ScoreMax
}
