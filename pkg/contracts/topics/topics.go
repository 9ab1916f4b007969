package topics

const (
	// Round lifecycle
	RoundAdvanced = "round_advanced"
	RoundSettled  = "round_settled"

	// Bets
	BetRejected = "bet_rejected"
)
