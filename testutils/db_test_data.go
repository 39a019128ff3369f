package testutils

import (
	"context"
	"log"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/nicoavayu/Armado-Equipos-sub001/containers"
	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// Kickoff is the scheduled time used by every fixture match. The TestDB clock
// starts 8 hours earlier so notice-timing code sees a match in the future.
var Kickoff = time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     *clock.Mock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()
	clk := clock.NewMock()
	clk.Set(Kickoff.Add(-8 * time.Hour))

	db, err := db.New(context.Background(), container.ConnectionString(), clk)
	if err != nil {
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     clk,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}

// InsertTestMatch creates a match with a roster of the given size and returns
// it. Participants alternate between account-backed and uuid-only entries so
// every reference kind shows up in integration tests.
func InsertTestMatch(d db.DB, rosterSize int) (*model.Match, []model.Participant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := &model.Match{
		ScheduledAt: Kickoff,
		Venue:       "La Canchita",
		Capacity:    rosterSize,
		CreatedBy:   "admin-1",
		Mode:        "5v5",
	}
	if err := d.CreateMatch(ctx, m); err != nil {
		return nil, nil, err
	}

	names := []string{"Nico", "Maxi", "Santi", "Fede", "Lucho", "Tomi", "Agus", "Juani", "Rama", "Seba"}
	roster := make([]model.Participant, 0, rosterSize)
	for i := 0; i < rosterSize; i++ {
		p := model.Participant{
			MatchID:     m.ID,
			DisplayName: names[i%len(names)],
			Goalkeeper:  i == 0,
		}
		if i%2 == 0 {
			p.AccountID = p.DisplayName + "-acct"
		}
		if err := d.AddParticipant(ctx, &p); err != nil {
			return nil, nil, err
		}
		roster = append(roster, p)
	}

	return m, roster, nil
}
