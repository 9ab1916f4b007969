package events

import (
	"github.com/shopspring/decimal"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

// Event published on "round_settled" once per finalized issue. Settled is
// empty when no wagers rode on the round.
type RoundSettled struct {
	Result      pc28.RoundResult `json:"result"`
	Settled     []ledger.Wager   `json:"settled"`
	TotalStake  decimal.Decimal  `json:"total_stake"`
	TotalPayout decimal.Decimal  `json:"total_payout"`
	TsUnixMs    int64            `json:"ts_unix_ms"`
}
