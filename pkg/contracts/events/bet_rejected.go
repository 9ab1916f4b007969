package events

// Event published on "bet_rejected" when a placement is refused. Reason is
// one of PAUSED, LOCKED, BELOW_MIN, LIMIT_EXCEEDED, INSUFFICIENT_BALANCE,
// INVALID.
type BetRejected struct {
	GameID   string `json:"game_id"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Reason   string `json:"reason"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}
