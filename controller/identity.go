package controller

import (
	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

// rosterIndex resolves the three reference shapes a participant can arrive
// under (stable uuid, match-scoped ordinal id, account id) to one canonical
// stable reference. Unresolvable references never fail; callers exclude them
// from whatever tally they are building.
type rosterIndex struct {
	stable          map[string]bool
	byOrdinal       map[int64]*model.Participant
	byAccount       map[string]*model.Participant
	ordinalByStable map[string]int64
}

func newRosterIndex(roster []model.Participant) *rosterIndex {
	x := &rosterIndex{
		stable:          make(map[string]bool, len(roster)),
		byOrdinal:       make(map[int64]*model.Participant, len(roster)),
		byAccount:       make(map[string]*model.Participant, len(roster)),
		ordinalByStable: make(map[string]int64, len(roster)),
	}
	for i := range roster {
		p := &roster[i]
		ref := p.StableRef()
		x.stable[ref] = true
		x.byOrdinal[p.ID] = p
		x.ordinalByStable[ref] = p.ID
		if p.AccountID != "" {
			x.byAccount[p.AccountID] = p
		}
	}
	return x
}

// resolve applies the reference precedence: a directly stored uuid is the
// least likely to have been invalidated by roster churn, ordinal ids can be
// reused across matches, and account ids may belong to someone who left.
func (x *rosterIndex) resolve(c model.RefCandidates) (string, bool) {
	if c.UUID != "" && x.stable[c.UUID] {
		return c.UUID, true
	}
	if p, found := x.byOrdinal[c.OrdinalID]; found && c.OrdinalID != 0 {
		return p.StableRef(), true
	}
	if c.AccountID != "" {
		if p, found := x.byAccount[c.AccountID]; found {
			return p.StableRef(), true
		}
	}
	return "", false
}

// resolveLoose resolves a single free-form reference string, which may be a
// stable reference, an ordinal id in string form, or an account id.
func (x *rosterIndex) resolveLoose(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if x.stable[s] {
		return s, true
	}

	ref := model.ParseLooseRef(s)
	switch ref.Kind {
	case model.RefOrdinal:
		if p, found := x.byOrdinal[ref.Ordinal]; found {
			return p.StableRef(), true
		}
	case model.RefAccount:
		if p, found := x.byAccount[ref.Account]; found {
			return p.StableRef(), true
		}
	}
	return "", false
}

// ordinalFor normalizes a loose reference to the participant's ordinal id,
// the form tallies are keyed by.
func (x *rosterIndex) ordinalFor(s string) (int64, bool) {
	ref, found := x.resolveLoose(s)
	if !found {
		return 0, false
	}
	ord, found := x.ordinalByStable[ref]
	return ord, found
}

func (x *rosterIndex) stableFor(ordinal int64) (string, bool) {
	p, found := x.byOrdinal[ordinal]
	if !found {
		return "", false
	}
	return p.StableRef(), true
}

func (x *rosterIndex) participant(ordinal int64) (*model.Participant, bool) {
	p, found := x.byOrdinal[ordinal]
	return p, found
}
