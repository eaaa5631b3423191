// Package session holds the credentials of the player for the life of the
// client process. Nothing is persisted.
package session

// Session is the credential store. The zero value is an empty, logged-out
// session. Empty strings mean "unset" for the token and game fields.
type Session struct {
	Username string
	Password string
	Language string

	LoginToken string
	GameToken  string
	GameID     string
}

// SetCredentials records the account the session acts for.
func (s *Session) SetCredentials(username, password string) {
	s.Username = username
	s.Password = password
}

func (s *Session) HasCredentials() bool {
	return s.Username != "" && s.Password != ""
}

// SetLoginToken stores a freshly issued account token.
func (s *Session) SetLoginToken(token string) {
	s.LoginToken = token
}

// ClearTokens drops both tokens but keeps the game the player is bound to.
// Used when a refresh fails in the middle of a game: the guess still targets
// the same game id.
func (s *Session) ClearTokens() {
	s.LoginToken = ""
	s.GameToken = ""
}

// BindGame records a newly created game and its scoped token.
func (s *Session) BindGame(gameID, gameToken string) {
	s.GameID = gameID
	s.GameToken = gameToken
}

// SetGameToken replaces the game-scoped token, keeping the game id.
func (s *Session) SetGameToken(token string) {
	s.GameToken = token
}

// UnbindGame forgets the current game but keeps the login.
func (s *Session) UnbindGame() {
	s.GameID = ""
	s.GameToken = ""
}

func (s *Session) HasGame() bool { return s.GameID != "" }

// Reset empties the session completely, credentials included. Used when the
// account itself is refused.
func (s *Session) Reset() {
	*s = Session{}
}
