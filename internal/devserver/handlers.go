package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/langman/internal/game"
)

const maxBody = 1 << 16

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// gameBody is the game record as the server reports it.
type gameBody struct {
	GameID      string `json:"game_id"`
	Player      string `json:"player"`
	UsageID     int    `json:"usage_id"`
	Guessed     string `json:"guessed"`
	RevealWord  string `json:"reveal_word"`
	BadGuesses  int    `json:"bad_guesses"`
	StartTime   int64  `json:"start_time"`
	EndTime     *int64 `json:"end_time"`
	Result      string `json:"result"`
	Usage       string `json:"usage"`
	Lang        string `json:"lang"`
	Source      string `json:"source"`
	SecretWord  string `json:"secret_word,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

func newGameBody(g record, u usage) gameBody {
	b := gameBody{
		GameID:     g.ID,
		Player:     g.Player,
		UsageID:    g.UsageID,
		Guessed:    g.Guessed,
		RevealWord: g.Reveal,
		BadGuesses: g.BadGuesses,
		StartTime:  g.Start.Unix(),
		Result:     string(g.result()),
		Usage:      u.blanked(),
		Lang:       u.Language,
		Source:     u.Source,
	}
	if !g.End.IsZero() {
		end := g.End.Unix()
		b.EndTime = &end
	}
	return b
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeBody(r, &c); err != nil || c.Username == "" || c.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Registering requires username and password")
		return
	}
	a, err := s.store.register(c.Username, c.Password)
	switch {
	case errors.Is(err, ErrUserExists):
		writeMessage(w, http.StatusBadRequest, "Username is already registered")
		return
	case err != nil:
		s.log.Error("register", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	s.writeToken(w, a, "")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeBody(r, &c); err != nil || c.Username == "" || c.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Login requires username and password")
		return
	}
	a, err := s.store.login(c.Username, c.Password)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.writeToken(w, a, "")
}

func (s *Server) writeToken(w http.ResponseWriter, a *account, gameID string) {
	tok, err := s.tokens.issue(a.ID, a.Name, gameID)
	if err != nil {
		s.log.Error("issue token", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok})
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	c, err := s.tokens.verify(r)
	if err != nil {
		writeTokenError(w, err)
		return
	}
	var body struct {
		Language string `json:"language"`
	}
	if err := decodeBody(r, &body); err != nil || body.Language == "" {
		writeMessage(w, http.StatusBadRequest, "New game POST requires language")
		return
	}
	g, _, err := s.store.newGame(c.Subject, body.Language)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "New game POST language must be from "+strings.Join(Languages, ", "))
		return
	}
	tok, err := s.tokens.issue(c.Subject, c.Name, g.ID)
	if err != nil {
		s.log.Error("issue token", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	s.log.Info("game started", zap.String("game_id", g.ID), zap.String("player", c.Name), zap.String("lang", body.Language))
	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "success",
		"game_id":      g.ID,
		"access_token": tok,
	})
}

// fetchGame requires a login token. Game-scoped tokens are refused.
func (s *Server) fetchGame(w http.ResponseWriter, r *http.Request) {
	c, err := s.tokens.verify(r)
	if err != nil {
		writeTokenError(w, err)
		return
	}
	id := chi.URLParam(r, "gameID")
	g, u, err := s.store.get(id)
	if err != nil || g.Player != c.Subject || c.GameID != "" {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Game %s is unauthorized", id))
		return
	}
	body := newGameBody(g, u)
	if body.AccessToken, err = s.tokens.issue(c.Subject, c.Name, id); err != nil {
		s.log.Error("issue token", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) guess(w http.ResponseWriter, r *http.Request) {
	c, err := s.tokens.verify(r)
	if err != nil {
		writeTokenError(w, err)
		return
	}
	id := chi.URLParam(r, "gameID")
	if c.GameID != id {
		writeMessage(w, http.StatusServiceUnavailable, fmt.Sprintf("Unauthorized access to game %s", id))
		return
	}
	if s.takeRejection() {
		writeTokenError(w, errStaleToken)
		return
	}
	var body struct {
		Letter string `json:"letter"`
	}
	if err := decodeBody(r, &body); err != nil {
		body.Letter = ""
	}
	g, u, err := s.store.guess(id, body.Letter)
	switch {
	case errors.Is(err, ErrGameNotFound):
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Game with id %s does not exist", id))
		return
	case errors.Is(err, ErrGameOver):
		writeMessage(w, http.StatusForbidden, fmt.Sprintf("Game with id %s is over", id))
		return
	case errors.Is(err, ErrBadLetter):
		writeMessage(w, http.StatusBadRequest, `PUT requires one alphabetic character in "letter" field`)
		return
	case errors.Is(err, ErrAlreadyGuessed):
		writeMessage(w, http.StatusForbidden, fmt.Sprintf("Letter %s was already guessed", fold(body.Letter)))
		return
	case err != nil:
		s.log.Error("guess", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Guess failed")
		return
	}

	resp := newGameBody(g, u)
	if g.result() != game.ResultActive {
		resp.SecretWord = u.Secret
		s.log.Info("game ended", zap.String("game_id", id), zap.String("result", resp.Result))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	c, err := s.tokens.verify(r)
	if err != nil {
		writeTokenError(w, err)
		return
	}
	id := chi.URLParam(r, "gameID")
	if c.GameID != id {
		writeMessage(w, http.StatusServiceUnavailable, fmt.Sprintf("Unauthorized access to game %s", id))
		return
	}
	msg := "Zero records deleted"
	if s.store.remove(id) {
		msg = "One record deleted"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
