package game

// MaxBadGuesses is the number of wrong letters that loses a game.
const MaxBadGuesses = 6

type Result string

const (
	ResultActive Result = "active"
	ResultWon    Result = "won"
	ResultLost   Result = "lost"
)

// Known reports whether r is one of the results the server is documented to send.
func (r Result) Known() bool {
	switch r {
	case ResultActive, ResultWon, ResultLost:
		return true
	}
	return false
}

// State is the client's copy of one game as last reported by the server.
// It is never merged: every fetch or guess response replaces it.
type State struct {
	GameID     string
	BadGuesses int
	Guessed    string
	RevealWord string
	Result     Result
	SecretWord string // only set once the game is over

	Usage    string
	Language string
	Source   string
	Player   string
}

// Over reports whether the server considers the game finished.
func (s State) Over() bool {
	return s.Result == ResultWon || s.Result == ResultLost
}

// Remaining is the number of wrong guesses left before the game is lost.
func (s State) Remaining() int {
	if s.BadGuesses >= MaxBadGuesses {
		return 0
	}
	if s.BadGuesses < 0 {
		return MaxBadGuesses
	}
	return MaxBadGuesses - s.BadGuesses
}

// Fetched is the body of GET /api/games/{id}.
type Fetched struct {
	GameID      string `json:"game_id,omitempty"`
	BadGuesses  int    `json:"bad_guesses"`
	Guessed     string `json:"guessed"`
	Player      string `json:"player"`
	RevealWord  string `json:"reveal_word"`
	Usage       string `json:"usage"`
	Result      string `json:"result,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Source      string `json:"source,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// Guessed is the body of PUT /api/games/{id}.
type Guessed struct {
	BadGuesses int    `json:"bad_guesses"`
	Guessed    string `json:"guessed"`
	RevealWord string `json:"reveal_word"`
	Result     string `json:"result"`
	SecretWord string `json:"secret_word,omitempty"`
	Usage      string `json:"usage,omitempty"`
	Lang       string `json:"lang,omitempty"`
	Source     string `json:"source,omitempty"`
}

// FromFetch builds the state of a game that was just fetched. A fetch carries
// no result when the game is fresh, so an empty result means active.
func FromFetch(gameID string, f Fetched) State {
	result := Result(f.Result)
	if result == "" {
		result = ResultActive
	}
	return State{
		GameID:     gameID,
		BadGuesses: f.BadGuesses,
		Guessed:    f.Guessed,
		RevealWord: f.RevealWord,
		Result:     result,
		Usage:      f.Usage,
		Language:   f.Lang,
		Source:     f.Source,
		Player:     f.Player,
	}
}

// FromGuess builds the state reported in response to a guess. The result is
// taken verbatim, including values outside the known set.
func FromGuess(gameID string, g Guessed) State {
	return State{
		GameID:     gameID,
		BadGuesses: g.BadGuesses,
		Guessed:    g.Guessed,
		RevealWord: g.RevealWord,
		Result:     Result(g.Result),
		SecretWord: g.SecretWord,
		Usage:      g.Usage,
		Language:   g.Lang,
		Source:     g.Source,
	}
}
