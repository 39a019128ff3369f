package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/nicoavayu/Armado-Equipos-sub001/realtime"
)

// dirtyQuorumShare of the distinct voters must nominate a candidate before
// the dirty-player award applies.
const dirtyQuorumShare = 0.25

// FinalizeOutcome runs the award consensus for a match once the survey quorum
// is reached. The backend's compute-awards procedure is preferred; when it is
// missing or failing the same consensus runs locally. The result row is
// upserted (idempotent by match id) with readiness=false and a reveal
// timestamp, and one reveal notification per reachable participant is
// scheduled for that timestamp. Only the run that first sets the reveal
// moment schedules anything: recomputes replace the winners and leave the
// stored timestamp and the already-written notifications alone.
func (c *controller) FinalizeOutcome(ctx context.Context, matchID int64) (*model.SurveyResult, error) {
	complete, err := c.SurveyComplete(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, ErrSurveysIncomplete
	}

	roster, err := c.db.GetRoster(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("error loading roster for match %d: %w", matchID, err)
	}

	summary, err := c.backend.ComputeAwards(ctx, matchID)
	if err != nil {
		log.Printf("remote award computation unavailable for match %d, computing locally: %v", matchID, err)

		surveys, err := c.db.GetSurveys(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("error loading surveys for match %d: %w", matchID, err)
		}
		local := computeAwards(surveys, newRosterIndex(roster), c.pick)
		summary = &local
	}

	prior, err := c.db.GetSurveyResult(ctx, matchID)
	if err != nil && !errors.Is(err, db.ErrResultNotFound) {
		return nil, err
	}

	result := &model.SurveyResult{
		MatchID:   matchID,
		MVPRef:    summary.MVP,
		GloveRef:  summary.GoldenGlove,
		DirtyRefs: summary.DirtyPlayers,
		Ready:     false,
		RevealAt:  c.clock.Now().UTC().Add(c.revealDelay),
	}
	if err := c.db.UpsertSurveyResult(ctx, result); err != nil {
		return nil, err
	}

	// The store keeps the first reveal moment on recompute, so scheduling
	// again would duplicate the pending batch at a diverged send time. A
	// snapshot may have created the row without one; that still counts as the
	// first reveal write. Scheduling is best-effort either way; a failed
	// notification write must not undo a computed result.
	if prior == nil || prior.RevealAt.IsZero() {
		if err := c.scheduleReveal(ctx, matchID, roster, result.RevealAt); err != nil {
			log.Printf("error scheduling reveal notifications for match %d: %v", matchID, err)
		}
	}

	c.publish(realtime.Event{MatchID: matchID, Kind: realtime.EventResultUpdated})
	return c.db.GetSurveyResult(ctx, matchID)
}

// computeAwards runs both election rules over the survey set. Candidate
// references are normalized to ordinal ids for tallying and the winners are
// mapped back to stable references for persistence.
func computeAwards(surveys []model.OutcomeSurvey, idx *rosterIndex, pick func(n int) int) model.AwardSummary {
	mvpTally := make(map[int64]int)
	gloveTally := make(map[int64]int)
	dirtyTally := make(map[int64]int)
	voters := make(map[string]bool, len(surveys))

	for _, s := range surveys {
		voters[s.VoterRef] = true

		// Both best-player slots feed a joint candidate pool; goalkeepers
		// compete for the golden glove, everyone else for MVP.
		for _, nominee := range []string{s.BestSideA, s.BestSideB} {
			ord, found := idx.ordinalFor(nominee)
			if !found {
				continue
			}
			if p, found := idx.participant(ord); found && p.Goalkeeper {
				gloveTally[ord]++
			} else {
				mvpTally[ord]++
			}
		}

		for _, nominee := range s.DirtyRefs {
			ord, found := idx.ordinalFor(nominee)
			if !found {
				continue
			}
			dirtyTally[ord]++
		}
	}

	var summary model.AwardSummary
	if winner, found := singleWinner(mvpTally, pick); found {
		summary.MVP, _ = idx.stableFor(winner)
	}
	if winner, found := singleWinner(gloveTally, pick); found {
		summary.GoldenGlove, _ = idx.stableFor(winner)
	}

	quorum := dirtyQuorum(len(voters))
	for _, ord := range thresholdWinners(dirtyTally, quorum) {
		if ref, found := idx.stableFor(ord); found {
			summary.DirtyPlayers = append(summary.DirtyPlayers, ref)
		}
	}

	return summary
}

// singleWinner picks the candidate with the highest count. Ties are broken by
// an unweighted random pick among the tied candidates; re-running on the same
// input may change the winner on a tie.
func singleWinner(tally map[int64]int, pick func(n int) int) (int64, bool) {
	if len(tally) == 0 {
		return 0, false
	}

	max := 0
	for _, count := range tally {
		if count > max {
			max = count
		}
	}

	tied := make([]int64, 0, 2)
	for ord, count := range tally {
		if count == max {
			tied = append(tied, ord)
		}
	}
	slices.Sort(tied)

	return tied[pick(len(tied))], true
}

// thresholdWinners returns every candidate whose count reaches the quorum.
// Zero, one, or several simultaneous winners are all valid; there is no
// single-winner collapse.
func thresholdWinners(tally map[int64]int, quorum int) []int64 {
	winners := make([]int64, 0, 2)
	for ord, count := range tally {
		if count >= quorum {
			winners = append(winners, ord)
		}
	}
	slices.Sort(winners)
	return winners
}

func dirtyQuorum(distinctVoters int) int {
	q := int(math.Ceil(dirtyQuorumShare * float64(distinctVoters)))
	if q < 1 {
		q = 1
	}
	return q
}
