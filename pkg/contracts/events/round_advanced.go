package events

// Event published on "round_advanced" whenever the observed current issue
// moves forward.
type RoundAdvanced struct {
	Issue           int64 `json:"issue"`
	TipHeight       int64 `json:"tip_height"`
	BlocksRemaining int64 `json:"blocks_remaining"`
	Locked          bool  `json:"locked"`
	TsUnixMs        int64 `json:"ts_unix_ms"`
}
