package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nicoavayu/Armado-Equipos-sub001/backend"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// NotifyMatchEvent fans a notification out through a layered fallback chain:
// the backend's batched enqueue procedure first, then a client-side recipient
// resolution with a direct bulk insert, and finally swallow-and-log. Fan-out
// failures must never block the primary workflow, so this always returns nil
// for delivery problems; only an encoding bug in the payload is an error.
func (c *controller) NotifyMatchEvent(ctx context.Context, matchID int64, typ model.NotificationType, payload any, excludeRef string, includeRoster bool) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding notification payload: %w", err)
	}

	req := &backend.FanoutRequest{
		MatchID:       matchID,
		Type:          typ,
		Payload:       encoded,
		ExcludeRef:    excludeRef,
		IncludeRoster: includeRoster,
	}
	if err := c.backend.EnqueueFanout(ctx, req); err == nil {
		return nil
	} else {
		log.Printf("remote fan-out unavailable for match %d, inserting directly: %v", matchID, err)
	}

	if err := c.directFanout(ctx, matchID, typ, encoded, excludeRef, includeRoster); err != nil {
		log.Printf("direct fan-out failed for match %d: %v", matchID, err)
	}
	return nil
}

// directFanout resolves the recipient set client-side: the match admin plus,
// optionally, every current participant with a deliverable identity, minus
// the excluded participant. The exclusion is resolved through the roster
// index so it holds no matter which reference shape it arrives under; a
// participant known by both a uuid and an account id stays excluded even
// though their delivery address is the account id.
func (c *controller) directFanout(ctx context.Context, matchID int64, typ model.NotificationType, payload json.RawMessage, excludeRef string, includeRoster bool) error {
	match, err := c.db.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("error loading match %d: %w", matchID, err)
	}

	recipients := make([]string, 0, 12)
	seen := make(map[string]bool)
	add := func(ref string) {
		if ref == "" || ref == excludeRef || seen[ref] {
			return
		}
		seen[ref] = true
		recipients = append(recipients, ref)
	}

	add(match.CreatedBy)
	if includeRoster {
		roster, err := c.db.GetRoster(ctx, matchID)
		if err != nil {
			return fmt.Errorf("error loading roster for match %d: %w", matchID, err)
		}
		idx := newRosterIndex(roster)
		excluded, _ := idx.resolveLoose(excludeRef)
		for i := range roster {
			p := &roster[i]
			if excluded != "" && p.StableRef() == excluded {
				continue
			}
			add(recipientRef(p))
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	now := c.clock.Now().UTC()
	ns := make([]model.ScheduledNotification, 0, len(recipients))
	for _, ref := range recipients {
		ns = append(ns, model.ScheduledNotification{
			RecipientRef: ref,
			Type:         typ,
			Payload:      payload,
			SendAt:       now,
			Status:       model.NotificationPending,
		})
	}
	return c.db.SaveNotifications(ctx, ns)
}
