package pc28

// RoundState describes where the advancing chain tip sits inside the
// current issue.
type RoundState struct {
	CurrentIssue    int64 `json:"current_issue"` // latest finalized boundary at or below the tip
	NextIssue       int64 `json:"next_issue"`    // boundary the open round finalizes at
	BlocksRemaining int64 `json:"blocks_remaining"`
	Locked          bool  `json:"locked"`
}

// RoundStateAt derives the round state for a tip height. Round identity is
// keyed to absolute height by floor division, so any two observers converge
// on the same issue number for the same height with no coordination, and the
// clock self-heals across poller downtime.
func RoundStateAt(tipHeight, blocksPerIssue, lockMargin int64) RoundState {
	current := (tipHeight / blocksPerIssue) * blocksPerIssue
	next := current + blocksPerIssue
	remaining := next - tipHeight
	if remaining < 0 {
		remaining = 0
	}
	return RoundState{
		CurrentIssue:    current,
		NextIssue:       next,
		BlocksRemaining: remaining,
		Locked:          remaining < lockMargin,
	}
}
