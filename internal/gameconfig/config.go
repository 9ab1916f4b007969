package gameconfig

import (
	"github.com/shopspring/decimal"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

type GameStatus string

const (
	StatusActive      GameStatus = "active"
	StatusMaintenance GameStatus = "maintenance"
	StatusHidden      GameStatus = "hidden"
)

// Valid reports whether s is a known admin-settable status.
func (s GameStatus) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusHidden:
		return true
	}
	return false
}

// GameState is the effective per-game state the betting surface acts on,
// combining the admin status with the round clock's lock window. Placement
// is legal only in StateOpen.
type GameState string

const (
	StateOpen   GameState = "open"
	StateLocked GameState = "locked"
	StatePaused GameState = "paused"
	StateHidden GameState = "hidden"
)

// StateFor collapses (status, locked) into the effective game state.
// Admin status wins over the lock window.
func StateFor(status GameStatus, locked bool) GameState {
	switch status {
	case StatusMaintenance:
		return StatePaused
	case StatusHidden:
		return StateHidden
	}
	if locked {
		return StateLocked
	}
	return StateOpen
}

// GameConfig holds the mutable parameters of one game. Values handed out by
// the store are snapshots; mutating a snapshot never affects the store.
type GameConfig struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Color       string            `json:"color"`
	Badge       string            `json:"badge,omitempty"`
	Status      GameStatus        `json:"status"`
	Odds        []pc28.BetOption  `json:"odds"`
	MinBet      decimal.Decimal   `json:"min_bet"`
	MaxBet      decimal.Decimal   `json:"max_bet"`

	// 13/14 special rule: when enabled and the drawn sum is 13 or 14, the
	// bet types matching that sum's own attributes pay reduced odds.
	SpecialRulesEnabled bool            `json:"special_rules_enabled"`
	SpecialSingleOdds   decimal.Decimal `json:"special_single_odds"`
	SpecialComboOdds    decimal.Decimal `json:"special_combo_odds"`
}

// OddsFor returns the configured odds for a bet type.
func (g GameConfig) OddsFor(t pc28.BetType) (decimal.Decimal, bool) {
	for _, o := range g.Odds {
		if o.Type == t {
			return o.Odds, true
		}
	}
	return decimal.Decimal{}, false
}

func (g GameConfig) clone() GameConfig {
	c := g
	c.Odds = make([]pc28.BetOption, len(g.Odds))
	copy(c.Odds, g.Odds)
	return c
}

// DefaultGames is the catalog the daemon boots with.
func DefaultGames() []GameConfig {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []GameConfig{
		{
			ID:          "pc2.0",
			Name:        "Nile PC 2.0",
			Description: "经典区块哈希玩法，实时开奖，公平公正",
			Color:       "from-indigo-500 to-purple-600",
			Badge:       "热门",
			Status:      StatusActive,
			Odds:        pc28.DefaultBetOptions(),
			MinBet:      d("10"),
			MaxBet:      d("50000"),

			SpecialRulesEnabled: true,
			SpecialSingleOdds:   d("1.98"),
			SpecialComboOdds:    d("1.6"),
		},
		{
			ID:          "netdisk",
			Name:        "网盘 PC28",
			Description: "基于云端存储哈希，超高赔率，极速体验",
			Color:       "from-blue-500 to-cyan-600",
			Badge:       "新上线",
			Status:      StatusActive,
			Odds:        pc28.DefaultBetOptions(),
			MinBet:      d("10"),
			MaxBet:      d("50000"),

			SpecialRulesEnabled: true,
			SpecialSingleOdds:   d("1.98"),
			SpecialComboOdds:    d("1.6"),
		},
		{
			ID:          "pure",
			Name:        "纯流水 PC28",
			Description: "零抽水，纯粹博弈，回归游戏本质",
			Color:       "from-emerald-500 to-teal-600",
			Status:      StatusActive,
			Odds:        pc28.DefaultBetOptions(),
			MinBet:      d("10"),
			MaxBet:      d("50000"),

			SpecialRulesEnabled: false,
			SpecialSingleOdds:   d("1.98"),
			SpecialComboOdds:    d("1.6"),
		},
		{
			ID:          "full",
			Name:        "满赔率 PC28",
			Description: "全网最高赔率，挑战极限收益",
			Color:       "from-orange-500 to-red-600",
			Badge:       "高爆",
			Status:      StatusActive,
			Odds:        pc28.HighBetOptions(),
			MinBet:      d("100"),   // higher entry for the boosted table
			MaxBet:      d("20000"), // lower cap to contain exposure

			SpecialRulesEnabled: true,
			SpecialSingleOdds:   d("1.98"),
			SpecialComboOdds:    d("1.6"),
		},
	}
}
