package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/db/mockdb"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/stretchr/testify/mock"
)

func TestScheduleReveal(t *testing.T) {
	roster := []model.Participant{
		{MatchID: 1, ID: 1, AccountID: "acct-1"},
		{MatchID: 1, ID: 2, UUID: "u2"},
		{MatchID: 1, ID: 3}, // unreachable guest, skipped
	}
	revealAt := time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC)

	mockDB := &mockdb.DB{}
	mockDB.On("SaveNotifications", mock.Anything, mock.Anything).Return(nil)

	ctrl, _ := newTestController(mockDB, nil)
	if err := ctrl.scheduleReveal(context.Background(), 1, roster, revealAt); err != nil {
		t.Fatalf("error scheduling reveal: %v", err)
	}

	ns := mockDB.Calls[findCall(t, mockDB.Calls, "SaveNotifications")].Arguments.Get(1).([]model.ScheduledNotification)
	if len(ns) != 2 {
		t.Fatalf("wanted 2 notifications, got %d", len(ns))
	}
	for _, n := range ns {
		if n.Type != model.NotificationResultReveal {
			t.Errorf("type = %s, wanted %s", n.Type, model.NotificationResultReveal)
		}
		if !n.SendAt.Equal(revealAt) {
			t.Errorf("send at = %v, wanted %v", n.SendAt, revealAt)
		}
		if n.Status != model.NotificationPending {
			t.Errorf("status = %s, wanted pending", n.Status)
		}
	}
}

func TestScheduleReveal_noReachableRecipients(t *testing.T) {
	roster := []model.Participant{{MatchID: 1, ID: 1}}

	mockDB := &mockdb.DB{}
	ctrl, _ := newTestController(mockDB, nil)
	if err := ctrl.scheduleReveal(context.Background(), 1, roster, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mockDB.AssertNotCalled(t, "SaveNotifications", mock.Anything, mock.Anything)
}

func TestRunNotificationDelivery(t *testing.T) {
	due := []model.ScheduledNotification{
		{ID: 1, RecipientRef: "acct-1", Type: model.NotificationResultReveal, Status: model.NotificationPending},
		{ID: 2, RecipientRef: "u2", Type: model.NotificationResultReveal, Status: model.NotificationPending},
	}

	mockDB := &mockdb.DB{}
	mockDB.On("MarkResultsReady", mock.Anything, mock.Anything).Return(1, nil)
	mockDB.On("ListDueNotifications", mock.Anything, mock.Anything).Return(due, nil)
	mockDB.On("MarkNotificationSent", mock.Anything, int64(1)).Return(nil)
	mockDB.On("MarkNotificationSent", mock.Anything, int64(2)).Return(nil)

	ctrl, _ := newTestController(mockDB, nil)

	shutdown := make(chan bool)
	go func() {
		time.Sleep(80 * time.Millisecond) // enough for at least one tick
		close(shutdown)
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	ctrl.RunNotificationDelivery(50*time.Millisecond, shutdown, &wg)
	wg.Wait()

	// Every tick promotes elapsed results to ready and then delivers.
	mockDB.AssertCalled(t, "MarkResultsReady", mock.Anything, mock.Anything)
	mockDB.AssertCalled(t, "MarkNotificationSent", mock.Anything, int64(1))
	mockDB.AssertCalled(t, "MarkNotificationSent", mock.Anything, int64(2))
}

func TestDeliverDueNotifications_readinessFailureTolerated(t *testing.T) {
	mockDB := &mockdb.DB{}
	mockDB.On("MarkResultsReady", mock.Anything, mock.Anything).Return(0, errors.New("db down"))
	mockDB.On("ListDueNotifications", mock.Anything, mock.Anything).Return([]model.ScheduledNotification{
		{ID: 7, RecipientRef: "acct-1", Type: model.NotificationResultReveal, Status: model.NotificationPending},
	}, nil)
	mockDB.On("MarkNotificationSent", mock.Anything, int64(7)).Return(nil)

	ctrl, _ := newTestController(mockDB, nil)
	ctrl.deliverDueNotifications()

	// A failed readiness sweep must not stop delivery; the next tick retries.
	mockDB.AssertCalled(t, "MarkNotificationSent", mock.Anything, int64(7))
}
