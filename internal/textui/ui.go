// Package textui is a line-oriented terminal front end. It renders view
// snapshots and turns typed commands into intents.
package textui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/DoyleJ11/langman/internal/orchestrator"
)

// ErrExit is returned by Commands when the player asks to leave.
var ErrExit = errors.New("exit requested")

// ErrViewsClosed is returned by Views when the snapshot stream ends.
var ErrViewsClosed = errors.New("view stream closed")

// Driver carries intents to whatever owns the game state.
type Driver interface {
	Start(ctx context.Context, req orchestrator.StartRequest) (orchestrator.View, error)
	Guess(ctx context.Context, letter string) (orchestrator.View, error)
	PlayAgain(ctx context.Context, language string) (orchestrator.View, error)
	Quit(ctx context.Context) (orchestrator.View, error)
}

type UI struct {
	out             io.Writer
	driver          Driver
	defaultLanguage string
	log             *zap.Logger

	mu sync.Mutex // serializes writes to out
}

func New(out io.Writer, driver Driver, defaultLanguage string, log *zap.Logger) *UI {
	if log == nil {
		log = zap.NewNop()
	}
	return &UI{out: out, driver: driver, defaultLanguage: defaultLanguage, log: log}
}

// Views renders every snapshot from views until ctx ends or views closes.
func (u *UI) Views(ctx context.Context, views <-chan orchestrator.View) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-views:
			if !ok {
				return ErrViewsClosed
			}
			u.mu.Lock()
			err := Render(u.out, v)
			u.mu.Unlock()
			if err != nil {
				return err
			}
		}
	}
}

// Commands executes lines until ctx ends, lines closes, or the player exits.
// Rejected commands are reported and the loop continues.
func (u *UI) Commands(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := u.Execute(ctx, line); err != nil {
				if errors.Is(err, ErrExit) {
					return ErrExit
				}
				if ctx.Err() != nil {
					return nil
				}
				u.printf("! %v\n", err)
			}
		}
	}
}

// Execute parses and runs one line.
func (u *UI) Execute(ctx context.Context, line string) error {
	cmd, err := Parse(line)
	if err != nil {
		return err
	}
	switch cmd.Kind {
	case KindNone:
		return nil
	case KindHelp:
		u.printf("%s\n", helpText)
		return nil
	case KindExit:
		return ErrExit
	case KindStart:
		lang := cmd.Language
		if lang == "" {
			lang = u.defaultLanguage
		}
		_, err = u.driver.Start(ctx, orchestrator.StartRequest{
			Username:   cmd.Username,
			Password:   cmd.Password,
			NewAccount: cmd.NewAccount,
			Language:   lang,
		})
	case KindGuess:
		_, err = u.driver.Guess(ctx, cmd.Letter)
	case KindPlayAgain:
		_, err = u.driver.PlayAgain(ctx, cmd.Language)
	case KindQuit:
		_, err = u.driver.Quit(ctx)
	}
	if err != nil {
		u.log.Debug("command rejected", zap.Int("kind", int(cmd.Kind)), zap.Error(err))
	}
	return err
}

func (u *UI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// Lines feeds r line by line into the returned channel, closing it at EOF.
// The reader goroutine is not tied to a context since reads on a terminal
// cannot be interrupted.
func Lines(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			out <- sc.Text()
		}
	}()
	return out
}
