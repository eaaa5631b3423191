package devserver

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/DoyleJ11/langman/internal/game"
)

var ErrUserExists = errors.New("username is already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrGameNotFound = errors.New("game not found")
var ErrGameOver = errors.New("game is over")
var ErrAlreadyGuessed = errors.New("letter was already guessed")
var ErrBadLetter = errors.New("letter must be one alphabetic character")
var ErrUnknownLanguage = errors.New("unknown language")

type account struct {
	ID   string
	Name string
	Hash []byte
}

type record struct {
	ID         string
	Player     string
	UsageID    int
	Guessed    string
	Reveal     string
	BadGuesses int
	Start      time.Time
	End        time.Time
}

func (g *record) result() game.Result {
	switch {
	case g.BadGuesses >= game.MaxBadGuesses:
		return game.ResultLost
	case !strings.Contains(g.Reveal, "_"):
		return game.ResultWon
	default:
		return game.ResultActive
	}
}

// store keeps accounts and games in memory.
type store struct {
	mu       sync.RWMutex
	accounts map[string]*account
	games    map[string]*record
	cost     int
	now      func() time.Time
}

func newStore(cost int, now func() time.Time) *store {
	return &store{
		accounts: make(map[string]*account),
		games:    make(map[string]*record),
		cost:     cost,
		now:      now,
	}
}

// register creates an account. User ids are name-based so the same name
// always maps to the same id.
func (s *store) register(name, password string) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[name]; ok {
		return nil, ErrUserExists
	}
	a := &account{
		ID:   uuid.NewMD5(uuid.NameSpaceURL, []byte(name)).String(),
		Name: name,
		Hash: hash,
	}
	s.accounts[name] = a
	return a, nil
}

func (s *store) login(name, password string) (*account, error) {
	s.mu.RLock()
	a, ok := s.accounts[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.Hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *store) newGame(playerID, lang string) (record, usage, error) {
	pool := usagesFor(lang)
	if len(pool) == 0 {
		return record{}, usage{}, ErrUnknownLanguage
	}
	u := pool[rand.Intn(len(pool))]
	g := &record{
		ID:      uuid.NewString(),
		Player:  playerID,
		UsageID: u.ID,
		Reveal:  strings.Repeat("_", utf8.RuneCountInString(u.Secret)),
		Start:   s.now(),
	}
	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()
	return *g, u, nil
}

func (s *store) get(id string) (record, usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return record{}, usage{}, ErrGameNotFound
	}
	u, _ := usageByID(g.UsageID)
	return *g, u, nil
}

// guess applies letter to game id and returns the updated game.
func (s *store) guess(id, letter string) (record, usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return record{}, usage{}, ErrGameNotFound
	}
	if g.result() != game.ResultActive {
		return record{}, usage{}, ErrGameOver
	}
	r, size := utf8.DecodeRuneInString(letter)
	if size == 0 || size != len(letter) || !unicode.IsLetter(r) {
		return record{}, usage{}, ErrBadLetter
	}
	l := fold(letter)
	if strings.Contains(g.Guessed, l) {
		return record{}, usage{}, ErrAlreadyGuessed
	}

	u, _ := usageByID(g.UsageID)
	g.Guessed += l
	if strings.Contains(fold(u.Secret), l) {
		g.Reveal = reveal(u.Secret, g.Guessed)
	} else {
		g.BadGuesses++
	}
	if g.result() != game.ResultActive {
		g.End = s.now()
	}
	return *g, u, nil
}

// remove deletes game id and reports whether it existed.
func (s *store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return false
	}
	delete(s.games, id)
	return true
}
