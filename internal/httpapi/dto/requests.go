package dto

// PlaceBetRequest places a wager on the next unsettled issue.
type PlaceBetRequest struct {
	GameID string `json:"game_id"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
}

// UpdateOddsRequest replaces the odds of one bet type.
type UpdateOddsRequest struct {
	Type string `json:"type"`
	Odds string `json:"odds"`
}

// SetStatusRequest switches a game's status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetSpecialRulesRequest configures the 13/14 override.
type SetSpecialRulesRequest struct {
	Enabled    bool   `json:"enabled"`
	SingleOdds string `json:"single_odds"`
	ComboOdds  string `json:"combo_odds"`
}

// ApplyLimitsRequest sets min/max bet across games atomically.
type ApplyLimitsRequest struct {
	GameIDs []string `json:"game_ids"`
	MinBet  string   `json:"min_bet"`
	MaxBet  string   `json:"max_bet"`
}
