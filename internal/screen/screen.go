// Package screen decides which single screen is shown for a status and which
// player intents that screen offers.
package screen

import "slices"

type Status string

const (
	StatusLoggedOut Status = "logged out"
	StatusActive    Status = "active"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

type Intent string

const (
	IntentStart     Intent = "start"
	IntentGuess     Intent = "guess"
	IntentPlayAgain Intent = "playAgain"
	IntentQuit      Intent = "quit"
)

type Name string

const (
	NameSignIn     Name = "sign-in"
	NamePlay       Name = "play"
	NameWin        Name = "win"
	NameLose       Name = "lose"
	NameUnexpected Name = "unexpected"
)

// Screen describes what to render for a status.
type Screen struct {
	Name       Name
	Status     Status
	Intents    []Intent
	Diagnostic string // set only for NameUnexpected
}

// Offers reports whether the screen lets the player issue intent.
func (s Screen) Offers(intent Intent) bool {
	return slices.Contains(s.Intents, intent)
}

// Describe maps a status to exactly one screen. Statuses outside the known set
// get a diagnostic screen with no intents instead of an error.
func Describe(status Status) Screen {
	switch status {
	case StatusLoggedOut:
		return Screen{Name: NameSignIn, Status: status, Intents: []Intent{IntentStart}}
	case StatusActive:
		return Screen{Name: NamePlay, Status: status, Intents: []Intent{IntentGuess}}
	case StatusWon:
		return Screen{Name: NameWin, Status: status, Intents: []Intent{IntentPlayAgain, IntentQuit}}
	case StatusLost:
		return Screen{Name: NameLose, Status: status, Intents: []Intent{IntentPlayAgain, IntentQuit}}
	default:
		return Screen{Name: NameUnexpected, Status: status, Diagnostic: "Unexpected " + string(status)}
	}
}

// FromResult converts a server-reported game result into the status to show.
// Unknown results pass through so they land on the diagnostic screen.
func FromResult(result string) Status {
	return Status(result)
}
