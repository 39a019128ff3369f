package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// ratingPenalty is subtracted from a penalized participant's running rating.
const (
	ratingPenalty = 0.5
	ratingFloor   = 1.0
)

// RecordAbsenceNotice stores a player's own notice that they will miss the
// match. Notice timing is measured against the match start at intake time.
func (c *controller) RecordAbsenceNotice(ctx context.Context, matchID int64, participantRef, reason string, foundReplacement bool) (*model.AbsenceRecord, error) {
	if participantRef == "" {
		return nil, ErrEmptyVoter
	}

	match, err := c.db.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("error loading match %d: %w", matchID, err)
	}

	hours := match.ScheduledAt.Sub(c.clock.Now()).Hours()
	record := &model.AbsenceRecord{
		MatchID:          matchID,
		ParticipantRef:   participantRef,
		Reason:           reason,
		HoursBefore:      hours,
		NotifiedInTime:   hours >= model.MinNoticeHours,
		FoundReplacement: foundReplacement,
	}

	if err := c.db.SaveAbsence(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// PenaltyAssessment is the evaluator's verdict for one absent participant.
type PenaltyAssessment struct {
	ParticipantRef string
	HasRecord      bool
	Eligible       bool
}

// EvaluateAbsences walks every participant nominated as absent in the surveys
// and decides whether they incur a rating penalty. Silence is punished: an
// absent participant with no notice record at all is penalty-eligible.
func (c *controller) EvaluateAbsences(ctx context.Context, matchID int64) ([]PenaltyAssessment, error) {
	roster, err := c.db.GetRoster(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("error loading roster for match %d: %w", matchID, err)
	}
	surveys, err := c.db.GetSurveys(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("error loading surveys for match %d: %w", matchID, err)
	}

	idx := newRosterIndex(roster)
	absent := make(map[string]bool)
	for _, s := range surveys {
		for _, nominee := range s.AbsentRefs {
			if ref, found := idx.resolveLoose(nominee); found {
				absent[ref] = true
			}
		}
	}

	assessments := make([]PenaltyAssessment, 0, len(absent))
	for ref := range absent {
		a := PenaltyAssessment{ParticipantRef: ref}

		record, err := c.db.GetAbsence(ctx, matchID, ref)
		if err != nil {
			if !errors.Is(err, db.ErrAbsenceNotFound) {
				return nil, fmt.Errorf("error loading absence record for %s: %w", ref, err)
			}
			a.Eligible = true
		} else {
			a.HasRecord = true
			a.Eligible = !record.NotifiedInTime && !record.FoundReplacement
		}
		assessments = append(assessments, a)
	}

	slices.SortFunc(assessments, func(a, b PenaltyAssessment) int {
		return strings.Compare(a.ParticipantRef, b.ParticipantRef)
	})
	return assessments, nil
}

// ApplyPenalty subtracts the fixed penalty from a rating, floored so a
// rating never drops below the minimum.
func ApplyPenalty(rating float64) float64 {
	r := rating - ratingPenalty
	if r < ratingFloor {
		r = ratingFloor
	}
	return r
}
