package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFetch_DefaultsToActive(t *testing.T) {
	s := FromFetch("g1", Fetched{BadGuesses: 0, Guessed: "", RevealWord: "____", Usage: "The ____ sat.", Player: "p1"})
	assert.Equal(t, ResultActive, s.Result)
	assert.Equal(t, "g1", s.GameID)
	assert.Equal(t, "p1", s.Player)
	assert.Equal(t, "____", s.RevealWord)
	assert.False(t, s.Over())
}

func TestFromGuess_TakesResultVerbatim(t *testing.T) {
	cases := []struct {
		name   string
		result string
		over   bool
		known  bool
	}{
		{"active", "active", false, true},
		{"won", "won", true, true},
		{"lost", "lost", true, true},
		{"unknown result passes through", "paused", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := FromGuess("g1", Guessed{Result: tc.result, BadGuesses: 2})
			assert.Equal(t, Result(tc.result), s.Result)
			assert.Equal(t, tc.over, s.Over())
			assert.Equal(t, tc.known, s.Result.Known())
		})
	}
}

func TestState_Remaining(t *testing.T) {
	assert.Equal(t, 6, State{BadGuesses: 0}.Remaining())
	assert.Equal(t, 2, State{BadGuesses: 4}.Remaining())
	assert.Equal(t, 0, State{BadGuesses: 9}.Remaining())
	assert.Equal(t, 6, State{BadGuesses: -1}.Remaining())
}
