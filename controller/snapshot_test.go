package controller

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/db/mockdb"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/stretchr/testify/mock"
)

func snapshotRoster() []model.Participant {
	return []model.Participant{
		{MatchID: 1, ID: 1, UUID: "u1", DisplayName: "Nico", Rating: float64Ptr(7.5)},
		{MatchID: 1, ID: 2, UUID: "u2", DisplayName: "Maxi", Goalkeeper: true},
	}
}

func TestSnapshotRoster(t *testing.T) {
	mockDB := &mockdb.DB{}
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(nil, db.ErrResultNotFound)
	mockDB.On("GetRoster", mock.Anything, int64(1)).Return(snapshotRoster(), nil)
	mockDB.On("GetConfirmedTeams", mock.Anything, int64(1)).Return(&model.TeamSplit{SideA: []string{"u1"}, SideB: []string{"u2"}}, nil)
	mockDB.On("SaveRosterSnapshot", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil)

	ctrl, _ := newTestController(mockDB, nil)
	if err := ctrl.SnapshotRoster(context.Background(), 1); err != nil {
		t.Fatalf("error snapshotting roster: %v", err)
	}

	call := mockDB.Calls[findCall(t, mockDB.Calls, "SaveRosterSnapshot")]
	var entries []model.ParticipantSnapshot
	if err := json.Unmarshal(call.Arguments.Get(2).(json.RawMessage), &entries); err != nil {
		t.Fatalf("error decoding participants payload: %v", err)
	}
	if len(entries) != 2 || entries[0].Ref != "u1" || !entries[1].Goalkeeper {
		t.Errorf("unexpected participants payload: %+v", entries)
	}
	if entries[0].Rating == nil || *entries[0].Rating != 7.5 {
		t.Errorf("rating not captured: %+v", entries[0])
	}

	var teams model.TeamSplit
	if err := json.Unmarshal(call.Arguments.Get(3).(json.RawMessage), &teams); err != nil {
		t.Fatalf("error decoding teams payload: %v", err)
	}
	if len(teams.SideA) != 1 || teams.SideA[0] != "u1" {
		t.Errorf("confirmed split not preferred: %+v", teams)
	}
}

func TestSnapshotRoster_alreadyFrozen(t *testing.T) {
	mockDB := &mockdb.DB{}
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(&model.SurveyResult{MatchID: 1, RosterFrozen: true}, nil)

	ctrl, _ := newTestController(mockDB, nil)
	if err := ctrl.SnapshotRoster(context.Background(), 1); err != nil {
		t.Fatalf("repeated snapshot must be a no-op: %v", err)
	}
	mockDB.AssertNotCalled(t, "SaveRosterSnapshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSnapshotOutcome(t *testing.T) {
	existing := &model.SurveyResult{MatchID: 1, MVPRef: "u1"}
	surveys := []model.OutcomeSurvey{
		{MatchID: 1, VoterRef: "a", BestSideA: "u1", BestSideB: "u2", DirtyRefs: []string{"u2"}},
	}

	mockDB := &mockdb.DB{}
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(existing, nil)
	mockDB.On("GetRoster", mock.Anything, int64(1)).Return(snapshotRoster(), nil)
	mockDB.On("GetSurveys", mock.Anything, int64(1)).Return(surveys, nil)
	mockDB.On("SaveOutcomeSnapshot", mock.Anything, int64(1), mock.Anything, mock.Anything, "surveys_complete").Return(nil)

	ctrl, clk := newTestController(mockDB, nil)
	clk.Set(time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC))

	if err := ctrl.SnapshotOutcome(context.Background(), 1, "surveys_complete"); err != nil {
		t.Fatalf("error snapshotting outcome: %v", err)
	}

	call := mockDB.Calls[findCall(t, mockDB.Calls, "SaveOutcomeSnapshot")]
	var payload outcomeSnapshot
	if err := json.Unmarshal(call.Arguments.Get(2).(json.RawMessage), &payload); err != nil {
		t.Fatalf("error decoding outcome payload: %v", err)
	}
	if payload.Version != outcomeSnapshotVersion {
		t.Errorf("version = %d, wanted %d", payload.Version, outcomeSnapshotVersion)
	}
	// The computed row's MVP wins over the re-derivation; the glove winner
	// is filled in from the surveys.
	if payload.Awards.MVP != "u1" {
		t.Errorf("MVP = %q, wanted u1", payload.Awards.MVP)
	}
	if payload.Awards.GoldenGlove != "u2" {
		t.Errorf("GoldenGlove = %q, wanted u2", payload.Awards.GoldenGlove)
	}
	if payload.Reason != "surveys_complete" {
		t.Errorf("reason = %q", payload.Reason)
	}
}

func TestSnapshotOutcome_alreadyFrozen(t *testing.T) {
	mockDB := &mockdb.DB{}
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(&model.SurveyResult{MatchID: 1, OutcomeFrozen: true}, nil)

	ctrl, _ := newTestController(mockDB, nil)
	if err := ctrl.SnapshotOutcome(context.Background(), 1, "again"); err != nil {
		t.Fatalf("repeated snapshot must be a no-op: %v", err)
	}
	mockDB.AssertNotCalled(t, "SaveOutcomeSnapshot", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
