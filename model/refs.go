package model

import (
	"strconv"

	"github.com/google/uuid"
)

// RefKind identifies which shape of participant reference a value carries.
// References arrive from three different sources: a stored uuid, the
// match-scoped ordinal id, or an authenticated account id.
type RefKind int

const (
	RefUnknown RefKind = iota
	RefStable
	RefOrdinal
	RefAccount
)

// PlayerRef is a tagged reference to a participant. Exactly one of the value
// fields is meaningful, selected by Kind.
type PlayerRef struct {
	Kind    RefKind
	Stable  string
	Ordinal int64
	Account string
}

func StableRef(s string) PlayerRef  { return PlayerRef{Kind: RefStable, Stable: s} }
func OrdinalRef(id int64) PlayerRef { return PlayerRef{Kind: RefOrdinal, Ordinal: id} }
func AccountRef(id string) PlayerRef {
	return PlayerRef{Kind: RefAccount, Account: id}
}

// RefCandidates is the ambiguous row shape stored by surveys and ballots: up
// to three candidate fields may be populated for the same participant.
type RefCandidates struct {
	UUID      string
	OrdinalID int64
	AccountID string
}

// ParseLooseRef classifies a free-form reference string. A value that parses
// as a positive integer is treated as an ordinal id, a valid uuid as a stable
// reference, and anything else as an account id.
func ParseLooseRef(s string) PlayerRef {
	if s == "" {
		return PlayerRef{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return OrdinalRef(n)
	}
	if _, err := uuid.Parse(s); err == nil {
		return StableRef(s)
	}
	return AccountRef(s)
}
