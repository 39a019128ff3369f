package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

type DB interface {
	// CreateMatch writes the generated id back onto m.
	CreateMatch(ctx context.Context, m *model.Match) error
	GetMatch(ctx context.Context, id int64) (*model.Match, error)
	SetMatchState(ctx context.Context, id int64, state model.MatchState) error

	// AddParticipant assigns the next ordinal id within the match and mints a
	// stable uuid when the entry arrives without one. Both are written back
	// onto p.
	AddParticipant(ctx context.Context, p *model.Participant) error
	GetRoster(ctx context.Context, matchID int64) ([]model.Participant, error)
	SaveConfirmedTeams(ctx context.Context, matchID int64, split *model.TeamSplit) error
	GetConfirmedTeams(ctx context.Context, matchID int64) (*model.TeamSplit, error)

	// Ballots are append-only until CloseRatings performs the bulk
	// update/delete.
	SaveBallots(ctx context.Context, ballots []model.RatingBallot) error
	HasBallotSet(ctx context.Context, matchID int64, voterRef string) (bool, error)
	GetBallots(ctx context.Context, matchID int64) ([]model.RatingBallot, error)
	UpdateParticipantRating(ctx context.Context, matchID, participantID int64, rating float64, goalkeeper bool) error
	DeleteBallots(ctx context.Context, matchID int64) error

	SaveSurvey(ctx context.Context, s *model.OutcomeSurvey) error
	GetSurveys(ctx context.Context, matchID int64) ([]model.OutcomeSurvey, error)
	CountDistinctSurveyVoters(ctx context.Context, matchID int64) (int, error)

	// UpsertSurveyResult is keyed by match id. The reveal timestamp sticks
	// once any write sets it; recomputes replace the winner columns only.
	UpsertSurveyResult(ctx context.Context, r *model.SurveyResult) error
	GetSurveyResult(ctx context.Context, matchID int64) (*model.SurveyResult, error)
	// MarkResultsReady flips every result whose reveal moment has passed to
	// ready and reports how many rows it promoted.
	MarkResultsReady(ctx context.Context, now time.Time) (int, error)
	SaveRosterSnapshot(ctx context.Context, matchID int64, participants, teams json.RawMessage) error
	SaveOutcomeSnapshot(ctx context.Context, matchID int64, awards json.RawMessage, closedAt time.Time, reason string) error

	SaveAbsence(ctx context.Context, a *model.AbsenceRecord) error
	GetAbsence(ctx context.Context, matchID int64, participantRef string) (*model.AbsenceRecord, error)
	ListAbsences(ctx context.Context, matchID int64) ([]model.AbsenceRecord, error)

	SaveNotifications(ctx context.Context, ns []model.ScheduledNotification) error
	ListDueNotifications(ctx context.Context, now time.Time) ([]model.ScheduledNotification, error)
	MarkNotificationSent(ctx context.Context, id int64) error
}
