package orchestrator

import (
	"errors"

	"github.com/DoyleJ11/langman/internal/game"
	"github.com/DoyleJ11/langman/internal/screen"
)

// Flash messages shown to the player.
const (
	FlashAccountCreationFailed = "Account creation failed"
	FlashAccountLoginFailed    = "Account login failed"
	FlashStartFailed           = "Failed to start a new game"
	FlashAccessFailed          = "Failed to access a new game"
	FlashCredentialsRejected   = "Server not accepting credentials"
	FlashGuessNotReceived      = "Server did not receive your guess"
)

var ErrBusy = errors.New("another request is still in flight")
var ErrNotOffered = errors.New("intent not offered on the current screen")
var ErrSuperseded = errors.New("superseded by a later action")
var ErrClosed = errors.New("orchestrator closed")
var ErrNoGame = errors.New("no game to guess in")
var ErrInvalidLetter = errors.New("guess must be a single letter")
var ErrInvalidLanguage = errors.New("invalid language")
var ErrMissingCredentials = errors.New("username and password are required")

// View is the read-only snapshot handed to the presentation layer.
type View struct {
	Version  int
	Status   screen.Status
	Screen   screen.Screen
	Game     *game.State
	Flash    string
	Username string
	Language string
	Busy     bool
}

// Result answers an intent once its chain has been committed or dropped.
type Result struct {
	View View
	Err  error
}

// Msg is anything the owner goroutine accepts. Reply channels must have room
// for one value; the owner never blocks on a reply.
type Msg interface{ isOrchestratorMsg() }

// StartRequest carries everything the sign-in screen collects.
type StartRequest struct {
	Username   string
	Password   string
	NewAccount bool
	Language   string
}

type Start struct {
	StartRequest
	Reply chan Result
}

func (Start) isOrchestratorMsg() {}

type Guess struct {
	Letter string
	Reply  chan Result
}

func (Guess) isOrchestratorMsg() {}

type PlayAgain struct {
	Language string // empty reuses the session language
	Reply    chan Result
}

func (PlayAgain) isOrchestratorMsg() {}

type Quit struct {
	Reply chan Result
}

func (Quit) isOrchestratorMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isOrchestratorMsg() {}

// Watch registers Outbox to receive a View now and after every change.
type Watch struct {
	ID     string
	Outbox chan View
}

func (Watch) isOrchestratorMsg() {}

type Unwatch struct{ ID string }

func (Unwatch) isOrchestratorMsg() {}

type Shutdown struct{}

func (Shutdown) isOrchestratorMsg() {}

// chainDone carries the outcome of an off-loop chain back to the owner.
type chainDone struct {
	op     string
	epoch  uint64
	gameID string // game the chain acted on, empty for start chains
	state  state
	reply  chan Result
}

func (chainDone) isOrchestratorMsg() {}
