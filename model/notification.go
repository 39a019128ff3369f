package model

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationResultReveal NotificationType = "result_reveal"
	NotificationJoinRequest  NotificationType = "join_request"
	NotificationPlayerJoined NotificationType = "player_joined"
	NotificationMatchClosed  NotificationType = "match_closed"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
)

// ScheduledNotification is a future-dated delivery row. The engine only
// writes these; an external poller promotes pending rows to sent once SendAt
// elapses.
type ScheduledNotification struct {
	ID           int64
	RecipientRef string
	Type         NotificationType
	Payload      json.RawMessage
	SendAt       time.Time
	Status       NotificationStatus
	Read         bool
}
