package textui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/langman/internal/game"
	"github.com/DoyleJ11/langman/internal/orchestrator"
	"github.com/DoyleJ11/langman/internal/screen"
)

type fakeDriver struct {
	starts  []orchestrator.StartRequest
	guesses []string
	agains  []string
	quits   int
	err     error
}

func (d *fakeDriver) Start(_ context.Context, req orchestrator.StartRequest) (orchestrator.View, error) {
	d.starts = append(d.starts, req)
	return orchestrator.View{}, d.err
}

func (d *fakeDriver) Guess(_ context.Context, letter string) (orchestrator.View, error) {
	d.guesses = append(d.guesses, letter)
	return orchestrator.View{}, d.err
}

func (d *fakeDriver) PlayAgain(_ context.Context, lang string) (orchestrator.View, error) {
	d.agains = append(d.agains, lang)
	return orchestrator.View{}, d.err
}

func (d *fakeDriver) Quit(context.Context) (orchestrator.View, error) {
	d.quits++
	return orchestrator.View{}, d.err
}

func TestParse(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: KindNone}},
		{"   ", Command{Kind: KindNone}},
		{"login ann pw", Command{Kind: KindStart, Username: "ann", Password: "pw"}},
		{"register ann pw es", Command{Kind: KindStart, Username: "ann", Password: "pw", NewAccount: true, Language: "es"}},
		{"LOGIN ann pw fr", Command{Kind: KindStart, Username: "ann", Password: "pw", Language: "fr"}},
		{"guess e", Command{Kind: KindGuess, Letter: "e"}},
		{"é", Command{Kind: KindGuess, Letter: "é"}},
		{"g", Command{Kind: KindGuess, Letter: "g"}},
		{"again", Command{Kind: KindPlayAgain}},
		{"again fr", Command{Kind: KindPlayAgain, Language: "fr"}},
		{"quit", Command{Kind: KindQuit}},
		{"?", Command{Kind: KindHelp}},
		{"exit", Command{Kind: KindExit}},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := Parse(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		line string
		want error
	}{
		{"login ann", ErrUsage},
		{"register a b c d", ErrUsage},
		{"guess", ErrUsage},
		{"again en fr", ErrUsage},
		{"dance", ErrUnknownCommand},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			_, err := Parse(tc.line)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGallows(t *testing.T) {
	assert.NotContains(t, Gallows(0), "O")
	assert.Contains(t, Gallows(1), "O")
	assert.Contains(t, Gallows(6), "/ \\")
	assert.Equal(t, Gallows(6), Gallows(9))
	assert.Equal(t, Gallows(0), Gallows(-1))
}

func TestRender_Screens(t *testing.T) {
	active := &game.State{
		BadGuesses: 2,
		Guessed:    "ez",
		RevealWord: "_e__",
		Result:     game.ResultActive,
		Usage:      "The ____ is here.",
		Language:   "en",
		Source:     "Dev corpus",
	}
	lost := &game.State{BadGuesses: 6, RevealWord: "_e__", Result: game.ResultLost, SecretWord: "bean", Usage: "The ____ is here."}

	cases := []struct {
		name   string
		view   orchestrator.View
		want   []string
		absent []string
	}{
		{
			name: "sign in",
			view: orchestrator.View{Status: screen.StatusLoggedOut, Flash: "Account login failed"},
			want: []string{"Lang-man", "play multilingual hangman", "! Account login failed", "login <user> <pass> [lang]"},
		},
		{
			name:   "play",
			view:   orchestrator.View{Status: screen.StatusActive, Game: active},
			want:   []string{"_ e _ _", "e z", "Misses left: 4", `"The ____ is here."`, "Dev corpus [en]", "<letter>"},
			absent: []string{"again"},
		},
		{
			name: "busy",
			view: orchestrator.View{Status: screen.StatusActive, Game: active, Busy: true},
			want: []string{"waiting for the server"},
		},
		{
			name: "lost",
			view: orchestrator.View{Status: screen.StatusLost, Game: lost},
			want: []string{"You lost.", `The word was "bean".`, "again [lang]", "quit"},
		},
		{
			name: "won",
			view: orchestrator.View{Status: screen.StatusWon, Game: &game.State{RevealWord: "bean", SecretWord: "bean", Result: game.ResultWon}},
			want: []string{"You won!", `"bean"`},
		},
		{
			name:   "unexpected",
			view:   orchestrator.View{Status: "abandoned"},
			want:   []string{"Unexpected abandoned"},
			absent: []string{"again", "<letter>"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tc.view))
			for _, s := range tc.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestExecute_DispatchesIntents(t *testing.T) {
	d := &fakeDriver{}
	var out bytes.Buffer
	u := New(&out, d, "es", nil)
	ctx := context.Background()

	require.NoError(t, u.Execute(ctx, "login ann pw"))
	require.NoError(t, u.Execute(ctx, "register bob pw fr"))
	require.NoError(t, u.Execute(ctx, "x"))
	require.NoError(t, u.Execute(ctx, "again"))
	require.NoError(t, u.Execute(ctx, "quit"))
	require.NoError(t, u.Execute(ctx, "help"))

	require.Len(t, d.starts, 2)
	assert.Equal(t, orchestrator.StartRequest{Username: "ann", Password: "pw", Language: "es"}, d.starts[0])
	assert.Equal(t, orchestrator.StartRequest{Username: "bob", Password: "pw", NewAccount: true, Language: "fr"}, d.starts[1])
	assert.Equal(t, []string{"x"}, d.guesses)
	assert.Equal(t, []string{""}, d.agains)
	assert.Equal(t, 1, d.quits)
	assert.Contains(t, out.String(), "commands:")
}

func TestCommands_ReportsRejectionsAndExits(t *testing.T) {
	d := &fakeDriver{err: orchestrator.ErrNotOffered}
	var out bytes.Buffer
	u := New(&out, d, "en", nil)

	lines := make(chan string, 3)
	lines <- "e"
	lines <- "dance"
	lines <- "exit"

	err := u.Commands(context.Background(), lines)
	assert.ErrorIs(t, err, ErrExit)
	assert.Contains(t, out.String(), orchestrator.ErrNotOffered.Error())
	assert.Contains(t, out.String(), "unknown command")
}

func TestCommands_EndsAtEOF(t *testing.T) {
	u := New(&bytes.Buffer{}, &fakeDriver{}, "en", nil)
	err := u.Commands(context.Background(), Lines(strings.NewReader("quit\n")))
	assert.NoError(t, err)
}

func TestViews_RendersUntilClosed(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &fakeDriver{}, "en", nil)
	views := make(chan orchestrator.View, 2)
	views <- orchestrator.View{Status: screen.StatusLoggedOut, Flash: "first"}
	views <- orchestrator.View{Status: screen.StatusLoggedOut, Flash: "second"}
	close(views)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := u.Views(ctx, views)
	assert.ErrorIs(t, err, ErrViewsClosed)
	assert.Contains(t, out.String(), "! first")
	assert.Contains(t, out.String(), "! second")
}
