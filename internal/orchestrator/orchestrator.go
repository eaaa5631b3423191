// Package orchestrator owns the player's session and game. A single goroutine
// holds all state; network chains run off that goroutine on a copy and are
// committed only if nothing superseded them in the meantime.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/DoyleJ11/langman/internal/screen"
)

type Orchestrator struct {
	inbox   chan Msg
	backend Backend
	log     *zap.Logger

	st       state
	epoch    uint64
	inFlight bool
	version  int
	watchers map[string]chan View

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, backend Backend, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	o := &Orchestrator{
		inbox:    make(chan Msg, 64),
		backend:  backend,
		log:      logger.Named("orchestrator"),
		st:       state{status: screen.StatusLoggedOut},
		watchers: make(map[string]chan View),
		ctx:      ctx,
		cancel:   cancel,
	}

	go o.loop()
	return o
}


func (o *Orchestrator) loop() {
	for {
		select {
		case <-o.ctx.Done():
			o.shutdown()
			return

		case m := <-o.inbox:
			switch msg := m.(type) {
			case Start:
				o.handleStart(msg)

			case Guess:
				o.handleGuess(msg)

			case PlayAgain:
				o.handlePlayAgain(msg)

			case Quit:
				o.handleQuit(msg)

			case chainDone:
				o.handleChainDone(msg)

			case GetView:
				msg.Reply <- o.view()

			case Watch:
				o.watchers[msg.ID] = msg.Outbox
				o.send(msg.ID, msg.Outbox, o.view())

			case Unwatch:
				delete(o.watchers, msg.ID)

			case Shutdown:
				o.shutdown()
				return
			}
		}
	}
}

// admit checks an intent against the in-flight chain and the current screen.
func (o *Orchestrator) admit(intent screen.Intent) error {
	if o.inFlight {
		return ErrBusy
	}
	if !screen.Describe(o.st.status).Offers(intent) {
		return fmt.Errorf("%w: %s on %q", ErrNotOffered, intent, o.st.status)
	}
	return nil
}

func (o *Orchestrator) handleStart(msg Start) {
	if err := o.admit(screen.IntentStart); err != nil {
		o.reply(msg.Reply, err)
		return
	}
	req := msg.StartRequest
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		o.reply(msg.Reply, ErrMissingCredentials)
		return
	}
	lang, err := normalizeLanguage(req.Language)
	if err != nil {
		o.reply(msg.Reply, err)
		return
	}
	req.Language = lang

	o.begin("start", "", msg.Reply, func(c *chain) { c.start(req) })
}

func (o *Orchestrator) handlePlayAgain(msg PlayAgain) {
	if err := o.admit(screen.IntentPlayAgain); err != nil {
		o.reply(msg.Reply, err)
		return
	}
	if !o.st.session.HasCredentials() {
		o.reply(msg.Reply, ErrMissingCredentials)
		return
	}
	raw := msg.Language
	if raw == "" {
		raw = o.st.session.Language
	}
	lang, err := normalizeLanguage(raw)
	if err != nil {
		o.reply(msg.Reply, err)
		return
	}
	req := StartRequest{
		Username:   o.st.session.Username,
		Password:   o.st.session.Password,
		NewAccount: false,
		Language:   lang,
	}

	o.begin("play again", "", msg.Reply, func(c *chain) { c.start(req) })
}

func (o *Orchestrator) handleGuess(msg Guess) {
	if err := o.admit(screen.IntentGuess); err != nil {
		o.reply(msg.Reply, err)
		return
	}
	if !validLetter(msg.Letter) {
		o.reply(msg.Reply, fmt.Errorf("%w: %q", ErrInvalidLetter, msg.Letter))
		return
	}
	gameID := o.st.session.GameID
	if !o.st.session.HasGame() || o.st.game == nil {
		o.reply(msg.Reply, ErrNoGame)
		return
	}

	letter := msg.Letter
	o.begin("guess", gameID, msg.Reply, func(c *chain) { c.guess(gameID, letter) })
}

// handleQuit returns to the sign-in screen. Credentials stay for a quick
// restart; the game binding goes, and any chain in flight is superseded.
func (o *Orchestrator) handleQuit(msg Quit) {
	o.epoch++
	o.inFlight = false
	o.st.status = screen.StatusLoggedOut
	o.st.session.UnbindGame()
	o.st.game = nil
	o.st.flash = ""
	o.changed()
	o.reply(msg.Reply, nil)
}

// begin starts a chain on a copy of the current state.
func (o *Orchestrator) begin(op, gameID string, reply chan Result, run func(*chain)) {
	o.epoch++
	o.inFlight = true
	epoch := o.epoch
	c := &chain{
		ctx:     o.ctx,
		backend: o.backend,
		log:     o.log.With(zap.String("op", op), zap.Uint64("epoch", epoch)),
		st:      o.st,
	}
	o.changed()

	go func() {
		run(c)
		done := chainDone{op: op, epoch: epoch, gameID: gameID, state: c.st, reply: reply}
		select {
		case o.inbox <- done:
		case <-o.ctx.Done():
		}
	}()
}

// handleChainDone commits a chain's state unless a later action has
// superseded it or the session has moved on to a different game.
func (o *Orchestrator) handleChainDone(msg chainDone) {
	if msg.epoch != o.epoch {
		o.dropStale(msg)
		return
	}
	o.inFlight = false
	if msg.gameID != "" && msg.gameID != o.st.session.GameID {
		o.dropStale(msg)
		o.changed()
		return
	}
	o.st = msg.state
	o.changed()
	o.reply(msg.reply, nil)
}

func (o *Orchestrator) dropStale(msg chainDone) {
	o.log.Info("dropping stale result",
		zap.String("op", msg.op),
		zap.String("game_id", msg.gameID),
		zap.Uint64("epoch", msg.epoch),
		zap.Uint64("current", o.epoch))
	o.reply(msg.reply, ErrSuperseded)
}

func (o *Orchestrator) changed() {
	o.version++
	o.broadcast(o.view())
}

func (o *Orchestrator) view() View {
	v := View{
		Version:  o.version,
		Status:   o.st.status,
		Screen:   screen.Describe(o.st.status),
		Flash:    o.st.flash,
		Username: o.st.session.Username,
		Language: o.st.session.Language,
		Busy:     o.inFlight,
	}
	if o.st.game != nil {
		g := *o.st.game
		v.Game = &g
	}
	return v
}

func (o *Orchestrator) reply(ch chan Result, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- Result{View: o.view(), Err: err}:
	default:
		o.log.Warn("reply channel full, dropping result")
	}
}

func (o *Orchestrator) broadcast(v View) {
	for id, ch := range o.watchers {
		o.send(id, ch, v)
	}
}

// send delivers v without blocking; a watcher that cannot keep up is dropped.
func (o *Orchestrator) send(id string, ch chan View, v View) {
	select {
	case ch <- v:
	default:
		close(ch)
		delete(o.watchers, id)
		o.log.Warn("dropping slow watcher", zap.String("watcher", id))
	}
}

func (o *Orchestrator) shutdown() {
	for id, ch := range o.watchers {
		close(ch)
		delete(o.watchers, id)
	}
	o.cancel()
}

func validLetter(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && size == len(s) && unicode.IsLetter(r)
}

// normalizeLanguage reduces a language tag to its base, "en-GB" to "en".
func normalizeLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidLanguage)
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidLanguage, s, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
