package textui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

type Kind int

const (
	KindNone Kind = iota
	KindStart
	KindGuess
	KindPlayAgain
	KindQuit
	KindHelp
	KindExit
)

var ErrUnknownCommand = errors.New("unknown command")
var ErrUsage = errors.New("usage")

// Command is one parsed input line.
type Command struct {
	Kind       Kind
	Username   string
	Password   string
	NewAccount bool
	Language   string
	Letter     string
}

const helpText = `commands:
  login <user> <pass> [lang]     sign in and start a game
  register <user> <pass> [lang]  create an account and start a game
  guess <letter>, or <letter>    guess one letter
  again [lang]                   play another game
  quit                           back to the sign-in screen
  exit                           leave`

// Parse reads one line. Blank lines parse to KindNone.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: KindNone}, nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	if len(fields) == 1 && fields[0] != "?" && utf8.RuneCountInString(fields[0]) == 1 {
		return Command{Kind: KindGuess, Letter: fields[0]}, nil
	}

	switch verb {
	case "login", "register":
		if len(args) < 2 || len(args) > 3 {
			return Command{}, fmt.Errorf("%w: %s <user> <pass> [lang]", ErrUsage, verb)
		}
		c := Command{Kind: KindStart, Username: args[0], Password: args[1], NewAccount: verb == "register"}
		if len(args) == 3 {
			c.Language = args[2]
		}
		return c, nil
	case "guess", "g":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: guess <letter>", ErrUsage)
		}
		return Command{Kind: KindGuess, Letter: args[0]}, nil
	case "again", "play":
		if len(args) > 1 {
			return Command{}, fmt.Errorf("%w: again [lang]", ErrUsage)
		}
		c := Command{Kind: KindPlayAgain}
		if len(args) == 1 {
			c.Language = args[0]
		}
		return c, nil
	case "quit":
		return Command{Kind: KindQuit}, nil
	case "help", "?":
		return Command{Kind: KindHelp}, nil
	case "exit":
		return Command{Kind: KindExit}, nil
	}
	return Command{}, fmt.Errorf("%w %q, try help", ErrUnknownCommand, fields[0])
}
