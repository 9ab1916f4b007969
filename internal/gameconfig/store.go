package gameconfig

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

var (
	ErrUnknownGame   = errors.New("unknown game")
	ErrInvalidStatus = errors.New("invalid game status")
	ErrInvalidOdds   = errors.New("odds must be positive")
	ErrInvalidLimits = errors.New("invalid limits: need 0 <= min <= max and at least one game")
)

// Store holds per-game mutable parameters behind a single writer lock.
// Every read hands out an isolated snapshot, so the ledger and the
// settlement engine never observe a config mid-write.
type Store struct {
	mu    sync.RWMutex
	games map[string]GameConfig
	order []string
}

// NewStore seeds the store; with no args it boots the default catalog.
func NewStore(games ...GameConfig) *Store {
	if len(games) == 0 {
		games = DefaultGames()
	}
	s := &Store{games: make(map[string]GameConfig, len(games))}
	for _, g := range games {
		s.games[g.ID] = g.clone()
		s.order = append(s.order, g.ID)
	}
	return s
}

// Get returns a snapshot of one game's config.
func (s *Store) Get(gameID string) (GameConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return GameConfig{}, fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	return g.clone(), nil
}

// List returns snapshots of all games in catalog order.
func (s *Store) List() []GameConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]GameConfig, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.games[id].clone())
	}
	return out
}

// UpdateOdds replaces the odds of one bet type for one game.
func (s *Store) UpdateOdds(gameID string, t pc28.BetType, odds decimal.Decimal) error {
	if !t.Valid() {
		return fmt.Errorf("unknown bet type %q", t)
	}
	if !odds.IsPositive() {
		return ErrInvalidOdds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	next := g.clone()
	for i := range next.Odds {
		if next.Odds[i].Type == t {
			next.Odds[i].Odds = odds
			s.games[gameID] = next
			return nil
		}
	}
	return fmt.Errorf("game %s has no odds entry for %q", gameID, t)
}

// SetStatus switches a game between active, maintenance and hidden.
func (s *Store) SetStatus(gameID string, status GameStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	next := g.clone()
	next.Status = status
	s.games[gameID] = next
	return nil
}

// SetSpecialRules toggles the 13/14 override and its two odds values.
func (s *Store) SetSpecialRules(gameID string, enabled bool, singleOdds, comboOdds decimal.Decimal) error {
	if enabled && (!singleOdds.IsPositive() || !comboOdds.IsPositive()) {
		return ErrInvalidOdds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	next := g.clone()
	next.SpecialRulesEnabled = enabled
	next.SpecialSingleOdds = singleOdds
	next.SpecialComboOdds = comboOdds
	s.games[gameID] = next
	return nil
}

// ApplyLimits sets min/max bet across the given games in one atomic write.
// Rejects before touching anything if the limits are inconsistent, the game
// list is empty, or any game is unknown; readers never see a partial apply.
func (s *Store) ApplyLimits(gameIDs []string, minBet, maxBet decimal.Decimal) error {
	if len(gameIDs) == 0 || minBet.IsNegative() || maxBet.LessThan(minBet) {
		return ErrInvalidLimits
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range gameIDs {
		if _, ok := s.games[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownGame, id)
		}
	}
	for _, id := range gameIDs {
		next := s.games[id].clone()
		next.MinBet = minBet
		next.MaxBet = maxBet
		s.games[id] = next
	}
	return nil
}
