package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

type WagerStatus string

const (
	StatusPending WagerStatus = "pending"
	StatusWon     WagerStatus = "won"
	StatusLost    WagerStatus = "lost"
)

// Wager is one placed bet. Created pending; settlement flips it to won or
// lost exactly once, filling Payout and SettledAt, and it never changes again.
type Wager struct {
	ID     string          `json:"id"`
	GameID string          `json:"game_id"`
	Type   pc28.BetType    `json:"type"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Odds   decimal.Decimal `json:"odds"` // snapshot of config odds at placement
	Status WagerStatus     `json:"status"`
	Issue  int64           `json:"issue"`

	Payout    decimal.Decimal `json:"payout"`     // zero until settled
	SettledAt int64           `json:"settled_at"` // unix ms, zero until settled
	PlacedAt  int64           `json:"placed_at"`  // unix ms
}
