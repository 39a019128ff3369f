package controller

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/backend"
	"github.com/nicoavayu/Armado-Equipos-sub001/backend/mockbackend"
	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/db/mockdb"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/stretchr/testify/mock"
)

func TestSingleWinner(t *testing.T) {
	tests := map[string]struct {
		tally map[int64]int
		pick  func(n int) int
		want  int64
		found bool
	}{
		"clear winner":     {tally: map[int64]int{1: 5}, pick: func(n int) int { return 0 }, want: 1, found: true},
		"tie first branch": {tally: map[int64]int{1: 3, 2: 3, 3: 1}, pick: func(n int) int { return 0 }, want: 1, found: true},
		"tie other branch": {tally: map[int64]int{1: 3, 2: 3, 3: 1}, pick: func(n int) int { return n - 1 }, want: 2, found: true},
		"empty tally":      {tally: map[int64]int{}, pick: func(n int) int { return 0 }, found: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, found := singleWinner(tc.tally, tc.pick)
			if found != tc.found {
				t.Fatalf("found = %v, wanted %v", found, tc.found)
			}
			if got != tc.want {
				t.Errorf("winner = %d, wanted %d", got, tc.want)
			}
		})
	}
}

func TestSingleWinner_tieNeverPicksLoser(t *testing.T) {
	tally := map[int64]int{1: 3, 2: 3, 3: 1}
	for i := 0; i < 2; i++ {
		i := i
		winner, found := singleWinner(tally, func(n int) int { return i % n })
		if !found {
			t.Fatalf("expected a winner")
		}
		if winner == 3 {
			t.Errorf("candidate with 1 nomination must never win a 3-3 tie")
		}
	}
}

func TestThresholdWinners(t *testing.T) {
	// 8 distinct voters: quorum = ceil(0.25*8) = 2. X and Y are both
	// awarded; Z is excluded. No single-winner collapse.
	tally := map[int64]int{10: 2, 11: 3, 12: 1}
	quorum := dirtyQuorum(8)
	if quorum != 2 {
		t.Fatalf("quorum = %d, wanted 2", quorum)
	}

	got := thresholdWinners(tally, quorum)
	want := []int64{10, 11}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("winners = %v, wanted %v", got, want)
	}
}

func TestDirtyQuorum(t *testing.T) {
	tests := map[string]struct {
		voters int
		want   int
	}{
		"eight voters": {voters: 8, want: 2},
		"ten voters":   {voters: 10, want: 3},
		"one voter":    {voters: 1, want: 1},
		"no voters":    {voters: 0, want: 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := dirtyQuorum(tc.voters); got != tc.want {
				t.Errorf("dirtyQuorum(%d) = %d, wanted %d", tc.voters, got, tc.want)
			}
		})
	}
}

func consensusRoster() []model.Participant {
	return []model.Participant{
		{MatchID: 1, ID: 1, UUID: "u1"},
		{MatchID: 1, ID: 2, UUID: "u2"},
		{MatchID: 1, ID: 3, UUID: "u3", Goalkeeper: true},
		{MatchID: 1, ID: 4, UUID: "u4"},
	}
}

func TestComputeAwards(t *testing.T) {
	idx := newRosterIndex(consensusRoster())

	surveys := []model.OutcomeSurvey{
		{MatchID: 1, VoterRef: "a", BestSideA: "u1", BestSideB: "u3", DirtyRefs: []string{"u4"}},
		{MatchID: 1, VoterRef: "b", BestSideA: "u1", BestSideB: "u3"},
		{MatchID: 1, VoterRef: "c", BestSideA: "2", BestSideB: "u3", DirtyRefs: []string{"u4"}}, // ordinal form normalizes
		{MatchID: 1, VoterRef: "d", BestSideA: "gone", BestSideB: ""},                          // unresolvable, excluded
	}

	got := computeAwards(surveys, idx, func(n int) int { return 0 })

	if got.MVP != "u1" {
		t.Errorf("MVP = %q, wanted u1", got.MVP)
	}
	// The goalkeeper's nominations land in the golden-glove election.
	if got.GoldenGlove != "u3" {
		t.Errorf("GoldenGlove = %q, wanted u3", got.GoldenGlove)
	}
	// 4 distinct voters: quorum = 1, u4 has 2 nominations.
	if !reflect.DeepEqual(got.DirtyPlayers, []string{"u4"}) {
		t.Errorf("DirtyPlayers = %v, wanted [u4]", got.DirtyPlayers)
	}
}

func TestComputeAwards_emptySlots(t *testing.T) {
	idx := newRosterIndex(consensusRoster())

	got := computeAwards(nil, idx, func(n int) int { return 0 })
	if got.MVP != "" || got.GoldenGlove != "" || len(got.DirtyPlayers) != 0 {
		t.Errorf("zero nominations must yield no winners, got %+v", got)
	}
}

func TestFinalizeOutcome_incomplete(t *testing.T) {
	mockDB := &mockdb.DB{}
	mockDB.On("GetRoster", mock.Anything, int64(1)).Return(consensusRoster(), nil)
	mockDB.On("CountDistinctSurveyVoters", mock.Anything, int64(1)).Return(2, nil)

	ctrl, _ := newTestController(mockDB, &mockbackend.Client{})
	_, err := ctrl.FinalizeOutcome(context.Background(), 1)
	if !errors.Is(err, ErrSurveysIncomplete) {
		t.Errorf("wanted ErrSurveysIncomplete, got %v", err)
	}
	mockDB.AssertNotCalled(t, "UpsertSurveyResult", mock.Anything, mock.Anything)
}

func TestFinalizeOutcome_remoteFirst(t *testing.T) {
	roster := consensusRoster()
	remote := &model.AwardSummary{MVP: "u1", GoldenGlove: "u3"}

	mockDB := &mockdb.DB{}
	mockDB.On("GetRoster", mock.Anything, int64(1)).Return(roster, nil)
	mockDB.On("CountDistinctSurveyVoters", mock.Anything, int64(1)).Return(4, nil)
	mockDB.On("UpsertSurveyResult", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("SaveNotifications", mock.Anything, mock.Anything).Return(nil)
	stored := &model.SurveyResult{MatchID: 1, MVPRef: "u1", GloveRef: "u3"}
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(stored, nil)

	be := &mockbackend.Client{}
	be.On("ComputeAwards", mock.Anything, int64(1)).Return(remote, nil)

	ctrl, clk := newTestController(mockDB, be)
	clk.Set(time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC))

	result, err := ctrl.FinalizeOutcome(context.Background(), 1)
	if err != nil {
		t.Fatalf("error finalizing outcome: %v", err)
	}
	if result.MVPRef != "u1" || result.GloveRef != "u3" {
		t.Errorf("unexpected result: %+v", result)
	}

	// The remote answer wins; no local survey read is needed.
	mockDB.AssertNotCalled(t, "GetSurveys", mock.Anything, mock.Anything)

	// First write carries readiness=false and reveal-at = now + delay.
	upserted := mockDB.Calls[findCall(t, mockDB.Calls, "UpsertSurveyResult")].Arguments.Get(1).(*model.SurveyResult)
	if upserted.Ready {
		t.Errorf("first write must not be ready")
	}
	wantReveal := time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC)
	if !upserted.RevealAt.Equal(wantReveal) {
		t.Errorf("reveal-at = %v, wanted %v", upserted.RevealAt, wantReveal)
	}
	be.AssertExpectations(t)
}

func TestFinalizeOutcome_localFallback(t *testing.T) {
	roster := consensusRoster()
	surveys := []model.OutcomeSurvey{
		{MatchID: 1, VoterRef: "a", BestSideA: "u1", BestSideB: "u3"},
		{MatchID: 1, VoterRef: "b", BestSideA: "u1", BestSideB: "u3"},
		{MatchID: 1, VoterRef: "c", BestSideA: "u1", BestSideB: "u3"},
		{MatchID: 1, VoterRef: "d", BestSideA: "u1", BestSideB: "u3"},
	}

	mockDB := &mockdb.DB{}
	mockDB.On("GetRoster", mock.Anything, int64(1)).Return(roster, nil)
	mockDB.On("CountDistinctSurveyVoters", mock.Anything, int64(1)).Return(4, nil)
	mockDB.On("GetSurveys", mock.Anything, int64(1)).Return(surveys, nil)
	mockDB.On("UpsertSurveyResult", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("SaveNotifications", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(&model.SurveyResult{MatchID: 1, MVPRef: "u1", GloveRef: "u3"}, nil)

	be := &mockbackend.Client{}
	be.On("ComputeAwards", mock.Anything, int64(1)).Return(nil, backend.ErrNotAvailable)

	ctrl, _ := newTestController(mockDB, be)
	result, err := ctrl.FinalizeOutcome(context.Background(), 1)
	if err != nil {
		t.Fatalf("error finalizing outcome: %v", err)
	}
	if result.MVPRef != "u1" || result.GloveRef != "u3" {
		t.Errorf("unexpected result: %+v", result)
	}

	upserted := mockDB.Calls[findCall(t, mockDB.Calls, "UpsertSurveyResult")].Arguments.Get(1).(*model.SurveyResult)
	if upserted.MVPRef != "u1" || upserted.GloveRef != "u3" {
		t.Errorf("locally computed winners not persisted: %+v", upserted)
	}
	mockDB.AssertExpectations(t)
}

func TestFinalizeOutcome_recomputeSchedulesOnce(t *testing.T) {
	roster := consensusRoster()
	remote := &model.AwardSummary{MVP: "u1", GoldenGlove: "u3"}

	mockDB := &mockdb.DB{}
	mockDB.On("GetRoster", mock.Anything, int64(1)).Return(roster, nil)
	mockDB.On("CountDistinctSurveyVoters", mock.Anything, int64(1)).Return(4, nil)
	mockDB.On("UpsertSurveyResult", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("SaveNotifications", mock.Anything, mock.Anything).Return(nil)

	// No row before the first run; afterwards the store holds the reveal
	// moment the first run set.
	stored := &model.SurveyResult{
		MatchID:  1,
		MVPRef:   "u1",
		GloveRef: "u3",
		RevealAt: time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC),
	}
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(nil, db.ErrResultNotFound).Once()
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(stored, nil)

	be := &mockbackend.Client{}
	be.On("ComputeAwards", mock.Anything, int64(1)).Return(remote, nil)

	ctrl, _ := newTestController(mockDB, be)
	if _, err := ctrl.FinalizeOutcome(context.Background(), 1); err != nil {
		t.Fatalf("error finalizing outcome: %v", err)
	}
	// A duplicate survey path triggers a recompute: winners are rewritten but
	// the pending reveal batch must not be enqueued a second time.
	if _, err := ctrl.FinalizeOutcome(context.Background(), 1); err != nil {
		t.Fatalf("error recomputing outcome: %v", err)
	}

	mockDB.AssertNumberOfCalls(t, "UpsertSurveyResult", 2)
	mockDB.AssertNumberOfCalls(t, "SaveNotifications", 1)
}

func TestFinalizeOutcome_revealFailureTolerated(t *testing.T) {
	roster := consensusRoster()
	mockDB := &mockdb.DB{}
	mockDB.On("GetRoster", mock.Anything, int64(1)).Return(roster, nil)
	mockDB.On("CountDistinctSurveyVoters", mock.Anything, int64(1)).Return(4, nil)
	mockDB.On("UpsertSurveyResult", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("SaveNotifications", mock.Anything, mock.Anything).Return(errors.New("notification store down"))
	mockDB.On("GetSurveyResult", mock.Anything, int64(1)).Return(&model.SurveyResult{MatchID: 1}, nil)

	be := &mockbackend.Client{}
	be.On("ComputeAwards", mock.Anything, int64(1)).Return(&model.AwardSummary{MVP: "u1"}, nil)

	ctrl, _ := newTestController(mockDB, be)
	if _, err := ctrl.FinalizeOutcome(context.Background(), 1); err != nil {
		t.Errorf("a failed reveal schedule must not fail finalization: %v", err)
	}
}

func findCall(t *testing.T, calls []mock.Call, method string) int {
	t.Helper()
	for i, c := range calls {
		if c.Method == method {
			return i
		}
	}
	t.Fatalf("no call to %s recorded", method)
	return -1
}
