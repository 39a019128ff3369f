package controller

import (
	"testing"

	"github.com/nicoavayu/Armado-Equipos-sub001/model"
)

func testRoster() []model.Participant {
	return []model.Participant{
		{MatchID: 1, ID: 12, UUID: "u1", DisplayName: "Nico"},
		{MatchID: 1, ID: 13, AccountID: "acct-1", DisplayName: "Maxi"},
		{MatchID: 1, ID: 14, DisplayName: "Invitado"},
	}
}

func TestResolvePrecedence(t *testing.T) {
	idx := newRosterIndex(testRoster())

	tests := map[string]struct {
		in      model.RefCandidates
		want    string
		wantOK  bool
	}{
		"uuid wins over mismatched ordinal": {in: model.RefCandidates{UUID: "u1", OrdinalID: 999}, want: "u1", wantOK: true},
		"ordinal when uuid unknown":         {in: model.RefCandidates{UUID: "nope", OrdinalID: 13}, want: "acct-1", wantOK: true},
		"account only":                      {in: model.RefCandidates{AccountID: "acct-1"}, want: "acct-1", wantOK: true},
		"ordinal only":                      {in: model.RefCandidates{OrdinalID: 14}, want: "14", wantOK: true},
		"nothing matches":                   {in: model.RefCandidates{UUID: "x", OrdinalID: 999, AccountID: "y"}, wantOK: false},
		"empty row":                         {in: model.RefCandidates{}, wantOK: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := idx.resolve(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("resolve ok = %v, wanted %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("resolved to %q, wanted %q", got, tc.want)
			}
		})
	}
}

func TestResolveLoose(t *testing.T) {
	idx := newRosterIndex(testRoster())

	tests := map[string]struct {
		in     string
		want   string
		wantOK bool
	}{
		"stable ref":            {in: "u1", want: "u1", wantOK: true},
		"ordinal string":        {in: "13", want: "acct-1", wantOK: true},
		"guest stable ref":      {in: "14", want: "14", wantOK: true},
		"account id":            {in: "acct-1", want: "acct-1", wantOK: true},
		"unknown":               {in: "someone-else", wantOK: false},
		"unknown ordinal":       {in: "999", wantOK: false},
		"empty":                 {in: "", wantOK: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := idx.resolveLoose(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("resolveLoose ok = %v, wanted %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("resolved to %q, wanted %q", got, tc.want)
			}
		})
	}
}

func TestOrdinalRoundTrip(t *testing.T) {
	idx := newRosterIndex(testRoster())

	ord, found := idx.ordinalFor("u1")
	if !found || ord != 12 {
		t.Errorf("ordinalFor(u1) = %d, %v; wanted 12, true", ord, found)
	}

	ref, found := idx.stableFor(12)
	if !found || ref != "u1" {
		t.Errorf("stableFor(12) = %q, %v; wanted u1, true", ref, found)
	}

	if _, found := idx.stableFor(999); found {
		t.Errorf("expected stableFor(999) to fail")
	}
}
