package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		status  Status
		name    Name
		intents []Intent
	}{
		{StatusLoggedOut, NameSignIn, []Intent{IntentStart}},
		{StatusActive, NamePlay, []Intent{IntentGuess}},
		{StatusWon, NameWin, []Intent{IntentPlayAgain, IntentQuit}},
		{StatusLost, NameLose, []Intent{IntentPlayAgain, IntentQuit}},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			s := Describe(tc.status)
			assert.Equal(t, tc.name, s.Name)
			assert.Equal(t, tc.intents, s.Intents)
			assert.Empty(t, s.Diagnostic)
		})
	}
}

func TestDescribe_UnknownStatusRendersDiagnostic(t *testing.T) {
	s := Describe(Status("paused"))
	assert.Equal(t, NameUnexpected, s.Name)
	assert.Equal(t, "Unexpected paused", s.Diagnostic)
	assert.Empty(t, s.Intents)
	for _, in := range []Intent{IntentStart, IntentGuess, IntentPlayAgain, IntentQuit} {
		assert.False(t, s.Offers(in), in)
	}
}

func TestOffers(t *testing.T) {
	assert.True(t, Describe(StatusLoggedOut).Offers(IntentStart))
	assert.False(t, Describe(StatusLoggedOut).Offers(IntentGuess))
	assert.True(t, Describe(StatusActive).Offers(IntentGuess))
	assert.False(t, Describe(StatusActive).Offers(IntentPlayAgain))
	assert.True(t, Describe(StatusWon).Offers(IntentQuit))
	assert.True(t, Describe(StatusLost).Offers(IntentPlayAgain))
}

func TestFromResult(t *testing.T) {
	assert.Equal(t, StatusWon, FromResult("won"))
	assert.Equal(t, StatusLost, FromResult("lost"))
	assert.Equal(t, StatusActive, FromResult("active"))
	assert.Equal(t, NameUnexpected, Describe(FromResult("")).Name)
}
