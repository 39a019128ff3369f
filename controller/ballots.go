package controller

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/nicoavayu/Armado-Equipos-sub001/realtime"
)

// neutralRating is applied when a participant received no valid numeric
// ballots.
const neutralRating = 5.0

// SubmitBallotSet stores one voter's ratings for a match. The duplicate check
// is advisory; the store's uniqueness constraint catches the race it cannot.
func (c *controller) SubmitBallotSet(ctx context.Context, matchID int64, voterRef string, entries []model.BallotEntry) error {
	if voterRef == "" {
		return ErrEmptyVoter
	}
	if matchID <= 0 {
		return ErrInvalidMatch
	}
	if len(entries) == 0 {
		return ErrEmptyBallotSet
	}

	exists, err := c.db.HasBallotSet(ctx, matchID, voterRef)
	if err != nil {
		return fmt.Errorf("error checking for existing ballots: %w", err)
	}
	if exists {
		return db.ErrDuplicateBallot
	}

	ballots := make([]model.RatingBallot, 0, len(entries))
	for _, e := range entries {
		// Sentinel scores are stored: the goalkeeper mark carries the flag
		// and an abstention still consumes the voter's one submission, so an
		// all-abstain set is a recorded ballot with no effect on averages.
		// Everything else outside [1,10] is dropped silently.
		if !model.ValidScore(e.Score) && e.Score != model.GoalkeeperMark && e.Score != model.AbstainMark {
			continue
		}
		ballots = append(ballots, model.RatingBallot{
			MatchID:   matchID,
			VoterRef:  voterRef,
			TargetRef: e.TargetRef,
			Score:     e.Score,
		})
	}
	if len(ballots) == 0 {
		return ErrEmptyBallotSet
	}

	if err := c.db.SaveBallots(ctx, ballots); err != nil {
		return err
	}

	c.publish(realtime.Event{MatchID: matchID, Kind: realtime.EventBallotSubmitted})
	return nil
}

// CloseSummary reports how the per-participant rating updates went.
type CloseSummary struct {
	Participants int
	Updated      int
	Failed       int
}

// CloseRatings aggregates every ballot for the match into per-participant
// average ratings and goalkeeper flags, applies all updates, and deletes the
// ballots. Partial update failures are tolerated and reported; if every
// single update fails the ballots are kept and a hard error is returned so
// no data is silently lost.
func (c *controller) CloseRatings(ctx context.Context, matchID int64) (*CloseSummary, error) {
	roster, err := c.db.GetRoster(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("error loading roster for match %d: %w", matchID, err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("match %d has no participants to rate", matchID)
	}

	ballots, err := c.db.GetBallots(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("error loading ballots for match %d: %w", matchID, err)
	}

	idx := newRosterIndex(roster)
	ratings := aggregateBallots(roster, ballots, idx)

	var updated, failed atomic.Int32
	var wg sync.WaitGroup
	for _, p := range roster {
		r := ratings[p.ID]
		wg.Add(1)
		go func(participantID int64, r participantRating) {
			defer wg.Done()
			err := c.db.UpdateParticipantRating(ctx, matchID, participantID, r.rating, r.goalkeeper)
			if err != nil {
				log.Printf("error updating rating for participant %d in match %d: %v", participantID, matchID, err)
				failed.Add(1)
				return
			}
			updated.Add(1)
		}(p.ID, r)
	}
	wg.Wait()

	summary := &CloseSummary{
		Participants: len(roster),
		Updated:      int(updated.Load()),
		Failed:       int(failed.Load()),
	}

	if summary.Updated == 0 {
		return summary, ErrNoSuccessfulUpdates
	}
	if summary.Failed > 0 {
		log.Printf("closing match %d: %d of %d rating updates failed", matchID, summary.Failed, summary.Participants)
	}

	if err := c.db.DeleteBallots(ctx, matchID); err != nil {
		return summary, fmt.Errorf("error purging ballots for match %d: %w", matchID, err)
	}

	c.publish(realtime.Event{MatchID: matchID, Kind: realtime.EventRatingsClosed})
	return summary, nil
}

type participantRating struct {
	rating     float64
	goalkeeper bool
	samples    int
}

// aggregateBallots computes each participant's average rating and goalkeeper
// flag from the raw ballots. Pure; the same input always produces the same
// output even though the real close purges the ballots afterwards.
func aggregateBallots(roster []model.Participant, ballots []model.RatingBallot, idx *rosterIndex) map[int64]participantRating {
	type acc struct {
		sum float64
		n   int
		gk  bool
	}
	sums := make(map[int64]*acc, len(roster))
	for _, p := range roster {
		sums[p.ID] = &acc{}
	}

	for _, b := range ballots {
		ord, found := idx.ordinalFor(b.TargetRef)
		if !found {
			continue
		}
		a := sums[ord]
		if b.Score == model.GoalkeeperMark {
			a.gk = true
			continue
		}
		if model.ValidScore(b.Score) {
			a.sum += float64(b.Score)
			a.n++
		}
	}

	result := make(map[int64]participantRating, len(roster))
	for id, a := range sums {
		r := participantRating{rating: neutralRating, goalkeeper: a.gk, samples: a.n}
		if a.n > 0 {
			r.rating = round2(a.sum / float64(a.n))
		}
		result[id] = r
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
