package textui

import (
	"fmt"
	"io"
	"strings"

	"github.com/DoyleJ11/langman/internal/game"
	"github.com/DoyleJ11/langman/internal/orchestrator"
	"github.com/DoyleJ11/langman/internal/screen"
)

// gallows frames, indexed by bad guesses.
var gallows = [game.MaxBadGuesses + 1][]string{
	{" +---+", " |   |", " |", " |", " |", "==="},
	{" +---+", " |   |", " |   O", " |", " |", "==="},
	{" +---+", " |   |", " |   O", " |   |", " |", "==="},
	{" +---+", " |   |", " |   O", " |  /|", " |", "==="},
	{" +---+", " |   |", " |   O", " |  /|\\", " |", "==="},
	{" +---+", " |   |", " |   O", " |  /|\\", " |  /", "==="},
	{" +---+", " |   |", " |   O", " |  /|\\", " |  / \\", "==="},
}

// Gallows draws the figure for bad wrong guesses, clamped to 0..6.
func Gallows(bad int) string {
	bad = max(0, min(bad, game.MaxBadGuesses))
	return strings.Join(gallows[bad], "\n")
}

// spaced puts a space between letters so blanks can be counted.
func spaced(word string) string {
	return strings.Join(strings.Split(word, ""), " ")
}

// Render writes one snapshot to w.
func Render(w io.Writer, v orchestrator.View) error {
	var b strings.Builder
	b.WriteString("\n== Lang-man ==\n")

	s := v.Screen
	if s.Name == "" {
		s = screen.Describe(v.Status)
	}
	g := v.Game

	switch s.Name {
	case screen.NameSignIn:
		b.WriteString("play multilingual hangman\n\n")
		b.WriteString(Gallows(3) + "\n")
		if v.Username != "" {
			fmt.Fprintf(&b, "\nLast signed in as %s (%s)\n", v.Username, v.Language)
		}
	case screen.NamePlay:
		if g != nil {
			b.WriteString(Gallows(g.BadGuesses) + "\n\n")
			writeUsage(&b, g)
			fmt.Fprintf(&b, "Word:    %s\n", spaced(g.RevealWord))
			fmt.Fprintf(&b, "Guessed: %s\n", spaced(g.Guessed))
			fmt.Fprintf(&b, "Misses left: %d\n", g.Remaining())
		}
	case screen.NameWin, screen.NameLose:
		if g != nil {
			b.WriteString(Gallows(g.BadGuesses) + "\n\n")
		}
		if s.Name == screen.NameWin {
			b.WriteString("You won!\n")
		} else {
			b.WriteString("You lost.\n")
		}
		if g != nil {
			if g.SecretWord != "" {
				fmt.Fprintf(&b, "The word was %q.\n", g.SecretWord)
			}
			writeUsage(&b, g)
		}
	default:
		b.WriteString(s.Diagnostic + "\n")
	}

	if v.Flash != "" {
		fmt.Fprintf(&b, "\n! %s\n", v.Flash)
	}
	if v.Busy {
		b.WriteString("... waiting for the server\n")
	}
	b.WriteString("\n" + Prompt(s) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeUsage(b *strings.Builder, g *game.State) {
	if g.Usage == "" {
		return
	}
	fmt.Fprintf(b, "%q\n", g.Usage)
	if g.Source != "" {
		fmt.Fprintf(b, "  - %s [%s]\n", g.Source, g.Language)
	}
	b.WriteString("\n")
}

// Prompt lists the commands the screen accepts.
func Prompt(s screen.Screen) string {
	var cmds []string
	for _, in := range s.Intents {
		switch in {
		case screen.IntentStart:
			cmds = append(cmds, "login <user> <pass> [lang]", "register <user> <pass> [lang]")
		case screen.IntentGuess:
			cmds = append(cmds, "<letter>", "quit")
		case screen.IntentPlayAgain:
			cmds = append(cmds, "again [lang]")
		case screen.IntentQuit:
			cmds = append(cmds, "quit")
		}
	}
	if len(cmds) == 0 {
		cmds = append(cmds, "quit")
	}
	cmds = append(cmds, "help", "exit")
	return "> " + strings.Join(cmds, " | ")
}
