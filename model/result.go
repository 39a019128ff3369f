package model

import (
	"encoding/json"
	"time"
)

// AwardSummary holds the computed winners by stable reference. A nil/empty
// MVP or GoldenGlove means that slot had no nominations.
type AwardSummary struct {
	MVP          string   `json:"mvp,omitempty"`
	GoldenGlove  string   `json:"goldenGlove,omitempty"`
	DirtyPlayers []string `json:"dirtyPlayers,omitempty"`
}

// SurveyResult is the per-match result row. It is upserted by the consensus
// engine and later enriched, never overwritten, by the snapshot service.
type SurveyResult struct {
	MatchID      int64
	MVPRef       string
	GloveRef     string
	DirtyRefs    []string
	Ready        bool
	RevealAt     time.Time

	ParticipantsSnapshot json.RawMessage
	TeamsSnapshot        json.RawMessage
	AwardsSnapshot       json.RawMessage
	RosterFrozen         bool
	OutcomeFrozen        bool
	ClosedAt             time.Time
	CloseReason          string
}

// Awards collapses the result row into an AwardSummary.
func (r *SurveyResult) Awards() AwardSummary {
	return AwardSummary{
		MVP:          r.MVPRef,
		GoldenGlove:  r.GloveRef,
		DirtyPlayers: r.DirtyRefs,
	}
}

// ParticipantSnapshot is one frozen roster entry inside a result row.
type ParticipantSnapshot struct {
	Ref         string   `json:"ref"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Goalkeeper  bool     `json:"goalkeeper,omitempty"`
}

// TeamSplit is a confirmed side assignment by stable reference.
type TeamSplit struct {
	SideA []string `json:"sideA"`
	SideB []string `json:"sideB"`
}
