package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/langman/internal/game"
	"github.com/DoyleJ11/langman/internal/screen"
	"github.com/DoyleJ11/langman/internal/session"
	"github.com/DoyleJ11/langman/internal/transport"
)

// MaxGuessRetries bounds how many times a guess is resubmitted after a claims
// failure, for MaxGuessRetries+1 attempts in total.
const MaxGuessRetries = 4

// Backend is the set of server calls the chains depend on.
type Backend interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	CreateGame(ctx context.Context, loginToken, language string) (transport.Created, error)
	FetchGame(ctx context.Context, loginToken, gameID string) (game.Fetched, error)
	Guess(ctx context.Context, gameToken, gameID, letter string) (game.Guessed, error)
}

// state is everything the orchestrator owns. Chains work on a copy and hand
// the copy back; the owner decides whether to commit it.
type state struct {
	session session.Session
	game    *game.State
	status  screen.Status
	flash   string
}

// chain runs one orchestration sequentially. Every step starts only after the
// previous one returned, and a failed step ends the chain.
type chain struct {
	ctx     context.Context
	backend Backend
	log     *zap.Logger
	st      state
}

// fail records the flash for a failed step.
func (c *chain) fail(flash, step string, err error) {
	c.st.flash = flash
	c.log.Warn("step failed",
		zap.String("step", step),
		zap.String("flash", flash),
		zap.Int("status", transport.StatusOf(err)),
		zap.Error(err))
}

// authenticate registers or logs in with the session credentials. On success
// the login token is stored and the flash cleared. On failure the flash names
// the operation; clearing tokens is left to the caller.
func (c *chain) authenticate(newAccount bool) error {
	s := &c.st.session
	var (
		token string
		err   error
	)
	if newAccount {
		token, err = c.backend.Register(c.ctx, s.Username, s.Password)
	} else {
		token, err = c.backend.Login(c.ctx, s.Username, s.Password)
	}
	if err != nil {
		if newAccount {
			c.fail(FlashAccountCreationFailed, "register", err)
		} else {
			c.fail(FlashAccountLoginFailed, "login", err)
		}
		return err
	}
	s.SetLoginToken(token)
	c.st.flash = ""
	c.log.Debug("authenticated", zap.String("user", s.Username), zap.Bool("new_account", newAccount))
	return nil
}

// start is authenticate -> create game -> fetch game. The screen only turns
// active when all three succeed.
func (c *chain) start(req StartRequest) {
	s := &c.st.session
	s.SetCredentials(req.Username, req.Password)
	s.Language = req.Language

	if err := c.authenticate(req.NewAccount); err != nil {
		s.Reset()
		return
	}

	created, err := c.backend.CreateGame(c.ctx, s.LoginToken, req.Language)
	if err != nil {
		c.fail(FlashStartFailed, "create game", err)
		return
	}
	s.BindGame(created.GameID, created.AccessToken)

	fetched, err := c.backend.FetchGame(c.ctx, s.LoginToken, created.GameID)
	if err != nil {
		c.fail(FlashAccessFailed, "fetch game", err)
		return
	}
	if fetched.AccessToken != "" {
		s.SetGameToken(fetched.AccessToken)
	}

	g := game.FromFetch(created.GameID, fetched)
	c.st.game = &g
	c.st.status = screen.StatusActive
	c.st.flash = ""
	c.log.Info("game started", zap.String("game_id", created.GameID), zap.String("language", req.Language))
}

// guess submits letter for gameID. A claims failure triggers a refresh and a
// resubmission while budget remains; anything else ends the chain.
func (c *chain) guess(gameID, letter string) {
	for retries := 0; ; retries++ {
		g, err := c.backend.Guess(c.ctx, c.st.session.GameToken, gameID, letter)
		if err == nil {
			next := game.FromGuess(gameID, g)
			c.st.game = &next
			c.st.status = screen.FromResult(g.Result)
			c.st.flash = ""
			c.log.Debug("guess accepted",
				zap.String("game_id", gameID),
				zap.String("letter", letter),
				zap.String("result", g.Result),
				zap.Int("retries", retries))
			switch {
			case !next.Result.Known():
				c.log.Warn("unknown game result", zap.String("game_id", gameID), zap.String("result", g.Result))
			case next.Over():
				c.log.Info("game over", zap.String("game_id", gameID), zap.String("result", g.Result))
			}
			return
		}
		if !transport.IsClaimsFailure(err) {
			c.fail(FlashGuessNotReceived, "guess", err)
			return
		}
		if retries == MaxGuessRetries {
			c.fail(FlashCredentialsRejected, "guess", err)
			return
		}
		c.log.Info("game token rejected, refreshing",
			zap.String("game_id", gameID),
			zap.Int("attempt", retries+1))
		c.refresh(gameID)
	}
}

// refresh logs in again and re-fetches gameID to obtain a fresh game token.
// The game state in the reply is ignored: only a guess response replaces it.
func (c *chain) refresh(gameID string) {
	s := &c.st.session
	if err := c.authenticate(false); err != nil {
		s.ClearTokens()
		return
	}
	fetched, err := c.backend.FetchGame(c.ctx, s.LoginToken, gameID)
	if err != nil {
		c.log.Warn("refresh fetch failed", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	if fetched.AccessToken != "" {
		s.SetGameToken(fetched.AccessToken)
	}
}
