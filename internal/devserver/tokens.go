package devserver

import (
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	msgMissingHeader  = "Missing Authorization Header"
	msgBadToken       = "Signature verification failed"
	msgClaimsRejected = "User claims verification failed"
)

var errMissingToken = errors.New("missing token")
var errStaleToken = errors.New("stale token")
var errBadToken = errors.New("bad token")

// claims mirrors what the game server puts in its access tokens. GameID is
// set only on game-scoped tokens.
type claims struct {
	Access string `json:"access"`
	Name   string `json:"name"`
	GameID string `json:"game_id,omitempty"`
	jwt.RegisteredClaims
}

type issuer struct {
	key      []byte
	loginTTL time.Duration
	gameTTL  time.Duration
	now      func() time.Time
}

// randomKey returns a signing key for servers started without one.
func randomKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

func (i *issuer) issue(userID, name, gameID string) (string, error) {
	ttl := i.loginTTL
	if gameID != "" {
		ttl = i.gameTTL
	}
	now := i.now()
	c := claims{
		Access: "player",
		Name:   name,
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
}

// verify checks the bearer token on r. An expired token is reported as
// stale, which the handlers answer with the claims-verification message.
func (i *issuer) verify(r *http.Request) (*claims, error) {
	raw := bearer(r)
	if raw == "" {
		return nil, errMissingToken
	}
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	switch {
	case err == nil:
		return &c, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errStaleToken
	default:
		return nil, errBadToken
	}
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// writeTokenError answers a failed verify the way the game server does.
func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errMissingToken):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": msgMissingHeader})
	case errors.Is(err, errStaleToken):
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": msgClaimsRejected})
	default:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": msgBadToken})
	}
}
