package controller

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/nicoavayu/Armado-Equipos-sub001/backend"
	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
	"github.com/nicoavayu/Armado-Equipos-sub001/realtime"
)

var (
	ErrEmptyVoter          = errors.New("voter reference is required")
	ErrInvalidMatch        = errors.New("match id is not a valid id")
	ErrEmptyBallotSet      = errors.New("ballot set is empty")
	ErrSurveysIncomplete   = errors.New("not every participant has submitted a survey")
	ErrNoSuccessfulUpdates = errors.New("closing produced zero successful rating updates")
	ErrMatchFull           = errors.New("match roster is at capacity")
	ErrMatchNotJoinable    = errors.New("match is not accepting participants")
)

const (
	// Reveal delays for the two modes. Both paths share the scheduling code;
	// only the magnitude differs.
	defaultRevealDelay = 6 * time.Hour
	fastRevealDelay    = 30 * time.Second
)

// C encapsulates the rating and outcome aggregation logic without worrying
// about any web layers.
type C interface {
	CreateMatch(ctx context.Context, m *model.Match) error
	GetMatch(ctx context.Context, id int64) (*model.Match, error)
	// JoinMatch adds a participant to an active roster with spare capacity,
	// minting a stable reference when the entry has none, and fans out a
	// joined notification.
	JoinMatch(ctx context.Context, matchID int64, p *model.Participant) error
	GetRoster(ctx context.Context, matchID int64) ([]model.Participant, error)
	GetResult(ctx context.Context, matchID int64) (*model.SurveyResult, error)

	// SubmitBallotSet validates and stores one voter's complete set of
	// pre-match skill ratings. Returns db.ErrDuplicateBallot if the voter
	// already submitted for the match.
	SubmitBallotSet(ctx context.Context, matchID int64, voterRef string, entries []model.BallotEntry) error
	// CloseRatings aggregates all ballots into per-participant averages and
	// goalkeeper flags, then purges the ballots. Destructive; triggered once
	// per match by an operator.
	CloseRatings(ctx context.Context, matchID int64) (*CloseSummary, error)

	SubmitSurvey(ctx context.Context, s *model.OutcomeSurvey) error
	// SurveyComplete reports whether the distinct-voter quorum has been
	// reached for the match.
	SurveyComplete(ctx context.Context, matchID int64) (bool, error)
	// FinalizeOutcome computes the award consensus, persists the result with
	// a future reveal timestamp and schedules the reveal notifications. Safe
	// to call repeatedly: recomputes replace the winners only.
	FinalizeOutcome(ctx context.Context, matchID int64) (*model.SurveyResult, error)

	RecordAbsenceNotice(ctx context.Context, matchID int64, participantRef, reason string, foundReplacement bool) (*model.AbsenceRecord, error)
	EvaluateAbsences(ctx context.Context, matchID int64) ([]PenaltyAssessment, error)

	// NotifyMatchEvent fans a notification out to the match admin and
	// optionally the whole roster. Failures never propagate to the caller.
	NotifyMatchEvent(ctx context.Context, matchID int64, typ model.NotificationType, payload any, excludeRef string, includeRoster bool) error

	SnapshotRoster(ctx context.Context, matchID int64) error
	SnapshotOutcome(ctx context.Context, matchID int64, reason string) error

	RunNotificationDelivery(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup)
}

type controller struct {
	clock       clock.Clock
	db          db.DB
	backend     backend.Client
	events      *realtime.Manager
	revealDelay time.Duration

	// pick selects an index in [0,n) to break award ties. Injectable so
	// tests can force either branch of a tie.
	pick func(n int) int
}

// Config carries the tunables that differ between deployments.
type Config struct {
	// FastReveal shortens the reveal delay for testing deployments.
	FastReveal bool
}

func New(clock clock.Clock, db db.DB, backend backend.Client, events *realtime.Manager, cfg Config) (C, error) {
	delay := defaultRevealDelay
	if cfg.FastReveal {
		delay = fastRevealDelay
	}
	c := &controller{
		clock:       clock,
		db:          db,
		backend:     backend,
		events:      events,
		revealDelay: delay,
		pick:        rand.Intn,
	}
	return c, nil
}

func (c *controller) GetMatch(ctx context.Context, id int64) (*model.Match, error) {
	return c.db.GetMatch(ctx, id)
}

func (c *controller) GetRoster(ctx context.Context, matchID int64) ([]model.Participant, error) {
	return c.db.GetRoster(ctx, matchID)
}

func (c *controller) GetResult(ctx context.Context, matchID int64) (*model.SurveyResult, error) {
	return c.db.GetSurveyResult(ctx, matchID)
}

func (c *controller) publish(e realtime.Event) {
	if c.events != nil {
		c.events.Publish(e)
	}
}
