package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/gameconfig"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

// Placement reject reasons. Each maps to a machine-distinguishable code so
// the calling layer can surface an exact message.
var (
	ErrGamePaused          = errors.New("game is not accepting bets")
	ErrBelowMin            = errors.New("amount below minimum bet")
	ErrLimitExceeded       = errors.New("cumulative amount exceeds per-type limit")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ReasonCode maps a placement error to its wire reason code.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrGamePaused):
		return "PAUSED"
	case errors.Is(err, ErrBelowMin):
		return "BELOW_MIN"
	case errors.Is(err, ErrLimitExceeded):
		return "LIMIT_EXCEEDED"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	}
	return "INVALID"
}

// Ledger owns the pending wagers and the two shared balances. All mutation
// goes through one mutex: placements and cancellations for future issues
// never interleave their balance deltas with a settlement draining a
// finalized issue.
type Ledger struct {
	mu      sync.Mutex
	player  decimal.Decimal
	house   decimal.Decimal
	pending map[int64][]*Wager // keyed by issue

	now func() time.Time
}

func New(playerBalance, houseBalance decimal.Decimal) *Ledger {
	return &Ledger{
		player:  playerBalance,
		house:   houseBalance,
		pending: make(map[int64][]*Wager),
		now:     time.Now,
	}
}

// Balances returns the current player and house balances.
func (l *Ledger) Balances() (player, house decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.player, l.house
}

// Place validates a wager against the supplied config snapshot and, on
// success, debits the player balance and records the wager as pending for
// the given issue with the snapshotted odds. The per-type limit is
// cumulative across all pending wagers of that type for the same game and
// issue, not per individual wager.
func (l *Ledger) Place(cfg gameconfig.GameConfig, t pc28.BetType, amount decimal.Decimal, issue int64) (Wager, error) {
	if cfg.Status != gameconfig.StatusActive {
		return Wager{}, ErrGamePaused
	}
	odds, ok := cfg.OddsFor(t)
	if !ok {
		return Wager{}, ErrGamePaused
	}
	if amount.LessThan(cfg.MinBet) {
		return Wager{}, ErrBelowMin
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing := decimal.Zero
	for _, w := range l.pending[issue] {
		if w.GameID == cfg.ID && w.Type == t {
			existing = existing.Add(w.Amount)
		}
	}
	if existing.Add(amount).GreaterThan(cfg.MaxBet) {
		return Wager{}, ErrLimitExceeded
	}
	if l.player.LessThan(amount) {
		return Wager{}, ErrInsufficientBalance
	}

	l.player = l.player.Sub(amount)
	w := &Wager{
		ID:       uuid.NewString(),
		GameID:   cfg.ID,
		Type:     t,
		Label:    t.Label(),
		Amount:   amount,
		Odds:     odds,
		Status:   StatusPending,
		Issue:    issue,
		PlacedAt: l.now().UnixMilli(),
	}
	l.pending[issue] = append(l.pending[issue], w)
	return *w, nil
}

// CancelAll removes every pending wager of one game for the given issue and
// refunds the player. The caller gates this on the round clock: once the
// issue is locked no cancellation reaches the ledger.
func (l *Ledger) CancelAll(gameID string, issue int64) decimal.Decimal {
	return l.cancel(gameID, issue, func(*Wager) bool { return true })
}

// CancelType removes pending wagers of one bet type of one game for the
// given issue and refunds the player.
func (l *Ledger) CancelType(gameID string, issue int64, t pc28.BetType) decimal.Decimal {
	return l.cancel(gameID, issue, func(w *Wager) bool { return w.Type == t })
}

func (l *Ledger) cancel(gameID string, issue int64, match func(*Wager) bool) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	refund := decimal.Zero
	kept := l.pending[issue][:0]
	for _, w := range l.pending[issue] {
		if w.GameID == gameID && match(w) {
			refund = refund.Add(w.Amount)
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		delete(l.pending, issue)
	} else {
		l.pending[issue] = kept
	}
	l.player = l.player.Add(refund)
	return refund
}

// Drain atomically removes and returns all pending wagers for a finalized
// issue, across every game. A second drain of the same issue returns an
// empty slice, which is what makes settlement idempotent.
func (l *Ledger) Drain(issue int64) []Wager {
	l.mu.Lock()
	defer l.mu.Unlock()

	ws := l.pending[issue]
	if len(ws) == 0 {
		return nil
	}
	delete(l.pending, issue)

	out := make([]Wager, len(ws))
	for i, w := range ws {
		out[i] = *w
	}
	return out
}

// PendingFor returns copies of the pending wagers of one game for one issue.
func (l *Ledger) PendingFor(gameID string, issue int64) []Wager {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Wager
	for _, w := range l.pending[issue] {
		if w.GameID == gameID {
			out = append(out, *w)
		}
	}
	return out
}

// ApplySettlement credits the player with the issue's total payout and moves
// stake minus payout to the house, as one atomic balance mutation. The house
// delta may be negative when the round paid out more than it collected;
// that is allowed, never clamped.
func (l *Ledger) ApplySettlement(totalStake, totalPayout decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.player = l.player.Add(totalPayout)
	l.house = l.house.Add(totalStake.Sub(totalPayout))
}
