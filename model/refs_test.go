package model

import "testing"

func TestParseLooseRef(t *testing.T) {
	tests := map[string]struct {
		input string
		want  PlayerRef
	}{
		"ordinal":       {input: "12", want: OrdinalRef(12)},
		"uuid":          {input: "0f8fad5b-d9cb-469f-a165-70867728950e", want: StableRef("0f8fad5b-d9cb-469f-a165-70867728950e")},
		"account":       {input: "acct-1", want: AccountRef("acct-1")},
		"empty":         {input: "", want: PlayerRef{}},
		"negative num":  {input: "-3", want: AccountRef("-3")},
		"zero ordinal":  {input: "0", want: AccountRef("0")},
		"almost a uuid": {input: "0f8fad5b-d9cb-469f", want: AccountRef("0f8fad5b-d9cb-469f")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := ParseLooseRef(tc.input)
			if got != tc.want {
				t.Errorf("wanted %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestStableRefDerivation(t *testing.T) {
	tests := map[string]struct {
		p    Participant
		want string
	}{
		"uuid wins":        {p: Participant{ID: 7, UUID: "u1", AccountID: "a1"}, want: "u1"},
		"account fallback": {p: Participant{ID: 7, AccountID: "a1"}, want: "a1"},
		"ordinal fallback": {p: Participant{ID: 7}, want: "7"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.p.StableRef(); got != tc.want {
				t.Errorf("wanted %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidScore(t *testing.T) {
	tests := map[string]struct {
		score int
		want  bool
	}{
		"min":             {score: 1, want: true},
		"max":             {score: 10, want: true},
		"middle":          {score: 5, want: true},
		"zero":            {score: 0, want: false},
		"too high":        {score: 11, want: false},
		"goalkeeper mark": {score: GoalkeeperMark, want: false},
		"abstain mark":    {score: AbstainMark, want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ValidScore(tc.score); got != tc.want {
				t.Errorf("ValidScore(%d) = %v, wanted %v", tc.score, got, tc.want)
			}
		})
	}
}
