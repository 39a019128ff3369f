package mockdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (db *DB) CreateMatch(ctx context.Context, m *model.Match) error {
	args := db.Called(ctx, m)
	return args.Error(0)
}

func (db *DB) GetMatch(ctx context.Context, id int64) (*model.Match, error) {
	args := db.Called(ctx, id)

	var m *model.Match
	if args.Get(0) != nil {
		m = args.Get(0).(*model.Match)
	}
	return m, args.Error(1)
}

func (db *DB) SetMatchState(ctx context.Context, id int64, state model.MatchState) error {
	args := db.Called(ctx, id, state)
	return args.Error(0)
}

func (db *DB) GetRoster(ctx context.Context, matchID int64) ([]model.Participant, error) {
	args := db.Called(ctx, matchID)

	var r []model.Participant
	if args.Get(0) != nil {
		r = args.Get(0).([]model.Participant)
	}
	return r, args.Error(1)
}

func (db *DB) AddParticipant(ctx context.Context, p *model.Participant) error {
	args := db.Called(ctx, p)
	return args.Error(0)
}

func (db *DB) SaveConfirmedTeams(ctx context.Context, matchID int64, split *model.TeamSplit) error {
	args := db.Called(ctx, matchID, split)
	return args.Error(0)
}

func (db *DB) GetConfirmedTeams(ctx context.Context, matchID int64) (*model.TeamSplit, error) {
	args := db.Called(ctx, matchID)

	var t *model.TeamSplit
	if args.Get(0) != nil {
		t = args.Get(0).(*model.TeamSplit)
	}
	return t, args.Error(1)
}

func (db *DB) SaveBallots(ctx context.Context, ballots []model.RatingBallot) error {
	args := db.Called(ctx, ballots)
	return args.Error(0)
}

func (db *DB) HasBallotSet(ctx context.Context, matchID int64, voterRef string) (bool, error) {
	args := db.Called(ctx, matchID, voterRef)
	return args.Bool(0), args.Error(1)
}

func (db *DB) GetBallots(ctx context.Context, matchID int64) ([]model.RatingBallot, error) {
	args := db.Called(ctx, matchID)

	var b []model.RatingBallot
	if args.Get(0) != nil {
		b = args.Get(0).([]model.RatingBallot)
	}
	return b, args.Error(1)
}

func (db *DB) UpdateParticipantRating(ctx context.Context, matchID, participantID int64, rating float64, goalkeeper bool) error {
	args := db.Called(ctx, matchID, participantID, rating, goalkeeper)
	return args.Error(0)
}

func (db *DB) DeleteBallots(ctx context.Context, matchID int64) error {
	args := db.Called(ctx, matchID)
	return args.Error(0)
}

func (db *DB) SaveSurvey(ctx context.Context, s *model.OutcomeSurvey) error {
	args := db.Called(ctx, s)
	return args.Error(0)
}

func (db *DB) GetSurveys(ctx context.Context, matchID int64) ([]model.OutcomeSurvey, error) {
	args := db.Called(ctx, matchID)

	var s []model.OutcomeSurvey
	if args.Get(0) != nil {
		s = args.Get(0).([]model.OutcomeSurvey)
	}
	return s, args.Error(1)
}

func (db *DB) CountDistinctSurveyVoters(ctx context.Context, matchID int64) (int, error) {
	args := db.Called(ctx, matchID)
	return args.Int(0), args.Error(1)
}

func (db *DB) UpsertSurveyResult(ctx context.Context, r *model.SurveyResult) error {
	args := db.Called(ctx, r)
	return args.Error(0)
}

func (db *DB) MarkResultsReady(ctx context.Context, now time.Time) (int, error) {
	args := db.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (db *DB) GetSurveyResult(ctx context.Context, matchID int64) (*model.SurveyResult, error) {
	args := db.Called(ctx, matchID)

	var r *model.SurveyResult
	if args.Get(0) != nil {
		r = args.Get(0).(*model.SurveyResult)
	}
	return r, args.Error(1)
}

func (db *DB) SaveRosterSnapshot(ctx context.Context, matchID int64, participants, teams json.RawMessage) error {
	args := db.Called(ctx, matchID, participants, teams)
	return args.Error(0)
}

func (db *DB) SaveOutcomeSnapshot(ctx context.Context, matchID int64, awards json.RawMessage, closedAt time.Time, reason string) error {
	args := db.Called(ctx, matchID, awards, closedAt, reason)
	return args.Error(0)
}

func (db *DB) SaveAbsence(ctx context.Context, a *model.AbsenceRecord) error {
	args := db.Called(ctx, a)
	return args.Error(0)
}

func (db *DB) GetAbsence(ctx context.Context, matchID int64, participantRef string) (*model.AbsenceRecord, error) {
	args := db.Called(ctx, matchID, participantRef)

	var a *model.AbsenceRecord
	if args.Get(0) != nil {
		a = args.Get(0).(*model.AbsenceRecord)
	}
	return a, args.Error(1)
}

func (db *DB) ListAbsences(ctx context.Context, matchID int64) ([]model.AbsenceRecord, error) {
	args := db.Called(ctx, matchID)

	var a []model.AbsenceRecord
	if args.Get(0) != nil {
		a = args.Get(0).([]model.AbsenceRecord)
	}
	return a, args.Error(1)
}

func (db *DB) SaveNotifications(ctx context.Context, ns []model.ScheduledNotification) error {
	args := db.Called(ctx, ns)
	return args.Error(0)
}

func (db *DB) ListDueNotifications(ctx context.Context, now time.Time) ([]model.ScheduledNotification, error) {
	args := db.Called(ctx, now)

	var n []model.ScheduledNotification
	if args.Get(0) != nil {
		n = args.Get(0).([]model.ScheduledNotification)
	}
	return n, args.Error(1)
}

func (db *DB) MarkNotificationSent(ctx context.Context, id int64) error {
	args := db.Called(ctx, id)
	return args.Error(0)
}
