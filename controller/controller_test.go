package controller

import (
	"github.com/itbasis/go-clock"
	"github.com/nicoavayu/Armado-Equipos-sub001/backend"
	"github.com/nicoavayu/Armado-Equipos-sub001/db"
	"github.com/nicoavayu/Armado-Equipos-sub001/realtime"
)

// newTestController builds a controller around mocks with a deterministic
// tie-break and a mock clock.
func newTestController(mdb db.DB, be backend.Client) (*controller, *clock.Mock) {
	mock := clock.NewMock()
	c := &controller{
		clock:       mock,
		db:          mdb,
		backend:     be,
		events:      realtime.NewManager(),
		revealDelay: defaultRevealDelay,
		pick:        func(n int) int { return 0 },
	}
	return c, mock
}

func errorsEqual(e1, e2 error) bool {
	if e1 == nil && e2 == nil {
		return true
	}
	if (e1 != nil && e2 == nil) || (e1 == nil && e2 != nil) {
		return false
	}
	return e1.Error() == e2.Error()
}

func float64Ptr(v float64) *float64 {
	return &v
}
