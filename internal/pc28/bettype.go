package pc28

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BetType is the closed set of wagers the board accepts.
type BetType string

const (
	BetBig       BetType = "big"
	BetSmall     BetType = "small"
	BetOdd       BetType = "odd"
	BetEven      BetType = "even"
	BetBigOdd    BetType = "big_odd"
	BetBigEven   BetType = "big_even"
	BetSmallOdd  BetType = "small_odd"
	BetSmallEven BetType = "small_even"
	BetPair      BetType = "pair"
	BetLeopard   BetType = "leopard"
)

// AllBetTypes in board order.
var AllBetTypes = []BetType{
	BetBig, BetSmall, BetOdd, BetEven,
	BetBigOdd, BetBigEven, BetSmallOdd, BetSmallEven,
	BetPair, BetLeopard,
}

var betLabels = map[BetType]string{
	BetBig:       "大",
	BetSmall:     "小",
	BetOdd:       "单",
	BetEven:      "双",
	BetBigOdd:    "大单",
	BetBigEven:   "大双",
	BetSmallOdd:  "小单",
	BetSmallEven: "小双",
	BetPair:      "对子",
	BetLeopard:   "豹子",
}

// Label returns the display label for the type, e.g. "大单".
func (t BetType) Label() string { return betLabels[t] }

// Valid reports whether t belongs to the closed enumeration.
func (t BetType) Valid() bool {
	_, ok := betLabels[t]
	return ok
}

// ParseBetType validates an externally supplied type string.
func ParseBetType(s string) (BetType, error) {
	t := BetType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown bet type %q", s)
	}
	return t, nil
}

// Wins evaluates the fixed win predicate for the type against derived
// round attributes.
func (t BetType) Wins(a ResultAttributes) bool {
	switch t {
	case BetBig:
		return a.Size == SizeBig
	case BetSmall:
		return a.Size == SizeSmall
	case BetOdd:
		return a.Parity == ParityOdd
	case BetEven:
		return a.Parity == ParityEven
	case BetBigOdd:
		return a.Size == SizeBig && a.Parity == ParityOdd
	case BetBigEven:
		return a.Size == SizeBig && a.Parity == ParityEven
	case BetSmallOdd:
		return a.Size == SizeSmall && a.Parity == ParityOdd
	case BetSmallEven:
		return a.Size == SizeSmall && a.Parity == ParityEven
	case BetPair:
		return a.IsPair
	case BetLeopard:
		return a.IsLeopard
	}
	return false
}

// BetOption pairs a bet type with its configured odds.
type BetOption struct {
	Type  BetType         `json:"type"`
	Label string          `json:"label"`
	Odds  decimal.Decimal `json:"odds"`
}

func opt(t BetType, odds string) BetOption {
	return BetOption{Type: t, Label: t.Label(), Odds: decimal.RequireFromString(odds)}
}

// DefaultBetOptions is the standard odds table.
func DefaultBetOptions() []BetOption {
	return []BetOption{
		opt(BetBig, "2.0"),
		opt(BetSmall, "2.0"),
		opt(BetOdd, "2.0"),
		opt(BetEven, "2.0"),
		opt(BetBigOdd, "3.8"),
		opt(BetBigEven, "3.8"),
		opt(BetSmallOdd, "3.8"),
		opt(BetSmallEven, "3.8"),
		opt(BetPair, "3.0"),
		opt(BetLeopard, "50.0"),
	}
}

// HighBetOptions is the boosted table used by the "full odds" game.
func HighBetOptions() []BetOption {
	return []BetOption{
		opt(BetBig, "2.05"),
		opt(BetSmall, "2.05"),
		opt(BetOdd, "2.05"),
		opt(BetEven, "2.05"),
		opt(BetBigOdd, "4.2"),
		opt(BetBigEven, "4.2"),
		opt(BetSmallOdd, "4.2"),
		opt(BetSmallEven, "4.2"),
		opt(BetPair, "3.5"),
		opt(BetLeopard, "60.0"),
	}
}
