package transport

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/DoyleJ11/langman/internal/game"
)

const (
	PathAuth  = "/api/auth"
	PathGames = "/api/games"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenBody struct {
	AccessToken string `json:"access_token"`
}

// Created is the reply to a game creation.
type Created struct {
	GameID      string `json:"game_id"`
	AccessToken string `json:"access_token"`
	Message     string `json:"message,omitempty"`
}

// Register creates an account and returns its login token.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	return c.auth(ctx, http.MethodPost, "register", username, password)
}

// Login authenticates an existing account and returns its login token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	return c.auth(ctx, http.MethodPut, "login", username, password)
}

func (c *Client) auth(ctx context.Context, method, op, username, password string) (string, error) {
	var tb tokenBody
	req := Request{
		Op:     op,
		Method: method,
		Path:   PathAuth,
		Body:   credentials{Username: username, Password: password},
	}
	if _, err := c.Do(ctx, req, &tb); err != nil {
		return "", err
	}
	if tb.AccessToken == "" {
		return "", &Error{Op: op, Kind: KindDecode, Status: http.StatusOK, Err: errors.New("missing access_token")}
	}
	return tb.AccessToken, nil
}

// CreateGame starts a game in language, authorized by the login token.
func (c *Client) CreateGame(ctx context.Context, loginToken, language string) (Created, error) {
	var created Created
	req := Request{
		Op:     "create game",
		Method: http.MethodPost,
		Path:   PathGames,
		Body: struct {
			Language string `json:"language"`
		}{Language: language},
	}.WithBearer(loginToken)
	if _, err := c.Do(ctx, req, &created); err != nil {
		return Created{}, err
	}
	if created.GameID == "" {
		return Created{}, &Error{Op: req.Op, Kind: KindDecode, Status: http.StatusOK, Err: errors.New("missing game_id")}
	}
	return created, nil
}

// FetchGame reads the full state of gameID, authorized by the login token.
// The reply also carries a fresh game-scoped token.
func (c *Client) FetchGame(ctx context.Context, loginToken, gameID string) (game.Fetched, error) {
	var f game.Fetched
	req := Request{
		Op:     "fetch game",
		Method: http.MethodGet,
		Path:   gamePath(gameID),
	}.WithBearer(loginToken)
	if _, err := c.Do(ctx, req, &f); err != nil {
		return game.Fetched{}, err
	}
	return f, nil
}

// Guess submits letter for gameID, authorized by the game token.
func (c *Client) Guess(ctx context.Context, gameToken, gameID, letter string) (game.Guessed, error) {
	var g game.Guessed
	req := Request{
		Op:     "guess",
		Method: http.MethodPut,
		Path:   gamePath(gameID),
		Body: struct {
			Letter string `json:"letter"`
		}{Letter: letter},
	}.WithBearer(gameToken)
	if _, err := c.Do(ctx, req, &g); err != nil {
		return game.Guessed{}, err
	}
	return g, nil
}

// DeleteGame removes gameID's record, authorized by the game token.
func (c *Client) DeleteGame(ctx context.Context, gameToken, gameID string) error {
	req := Request{
		Op:     "delete game",
		Method: http.MethodDelete,
		Path:   gamePath(gameID),
	}.WithBearer(gameToken)
	_, err := c.Do(ctx, req, nil)
	return err
}

// Health checks that the server answers at all.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Do(ctx, Request{Op: "health", Method: http.MethodGet, Path: "/healthz"}, nil)
	return err
}

func gamePath(gameID string) string {
	return PathGames + "/" + url.PathEscape(gameID)
}
