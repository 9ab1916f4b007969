package dto

import (
	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

// PlaceBetResponse echoes the recorded wager.
type PlaceBetResponse struct {
	Wager ledger.Wager `json:"wager"`
}

// RejectResponse carries the machine-distinguishable reason code.
type RejectResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// CancelResponse reports the refunded amount.
type CancelResponse struct {
	Refund string `json:"refund"`
}

// StateResponse is the read model of the running round.
type StateResponse struct {
	TipHeight     int64             `json:"tip_height"`
	Round         pc28.RoundState   `json:"round"`
	PlayerBalance string            `json:"player_balance"`
	HouseBalance  string            `json:"house_balance"`
	LatestResult  *pc28.RoundResult `json:"latest_result,omitempty"`
	RecentResults []pc28.RoundResult `json:"recent_results,omitempty"`
}
