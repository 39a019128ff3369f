package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// scheduleReveal writes one pending notification per reachable participant,
// dated at the reveal timestamp. A participant with neither an account id nor
// a uuid is a guest with no deliverable identity and is skipped.
func (c *controller) scheduleReveal(ctx context.Context, matchID int64, roster []model.Participant, revealAt time.Time) error {
	payload, err := json.Marshal(map[string]int64{"matchId": matchID})
	if err != nil {
		return fmt.Errorf("error encoding reveal payload: %w", err)
	}

	ns := make([]model.ScheduledNotification, 0, len(roster))
	for _, p := range roster {
		recipient := recipientRef(&p)
		if recipient == "" {
			continue
		}
		ns = append(ns, model.ScheduledNotification{
			RecipientRef: recipient,
			Type:         model.NotificationResultReveal,
			Payload:      payload,
			SendAt:       revealAt,
			Status:       model.NotificationPending,
		})
	}
	if len(ns) == 0 {
		return nil
	}

	return c.db.SaveNotifications(ctx, ns)
}

func recipientRef(p *model.Participant) string {
	if p.AccountID != "" {
		return p.AccountID
	}
	return p.UUID
}

// RunNotificationDelivery periodically flips elapsed results to ready and
// promotes due pending notifications to sent. This is the delivery poller the
// scheduler writes rows for; it runs outside the request/response engine
// operations.
func (c *controller) RunNotificationDelivery(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(frequency)
	defer ticker.Stop()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			c.deliverDueNotifications()
		}
	}
}

func (c *controller) deliverDueNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := c.clock.Now().UTC()

	// Readiness rides the same tick as delivery: a result whose reveal moment
	// has passed becomes visible even if its notifications fail below.
	readied, err := c.db.MarkResultsReady(ctx, now)
	if err != nil {
		log.Printf("error marking results ready: %v", err)
	} else if readied > 0 {
		log.Printf("marked %d results ready for reveal", readied)
	}

	due, err := c.db.ListDueNotifications(ctx, now)
	if err != nil {
		log.Printf("error listing due notifications: %v", err)
		return
	}

	for _, n := range due {
		if err := c.db.MarkNotificationSent(ctx, n.ID); err != nil {
			log.Printf("error marking notification %d sent: %v", n.ID, err)
		}
	}
	if len(due) > 0 {
		log.Printf("delivered %d due notifications", len(due))
	}
}
