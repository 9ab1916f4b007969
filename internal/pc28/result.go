package pc28

import (
	"strings"
)

// BigThreshold is the smallest sum counted as Big.
const BigThreshold = 14

type Size string

const (
	SizeBig   Size = "Big"
	SizeSmall Size = "Small"
)

type Parity string

const (
	ParityOdd  Parity = "Odd"
	ParityEven Parity = "Even"
)

// ResultAttributes are the derived properties every win predicate is
// evaluated against.
type ResultAttributes struct {
	Size      Size   `json:"size"`
	Parity    Parity `json:"parity"`
	IsPair    bool   `json:"is_pair"`
	IsLeopard bool   `json:"is_leopard"`
	Combo     string `json:"combo"` // display label, e.g. "大双"
}

// RoundResult is the outcome of one finalized issue. Immutable once derived.
type RoundResult struct {
	Issue         int64            `json:"issue"`
	Hash          string           `json:"hash"`
	SourceNumbers [3]int           `json:"source_numbers"`
	Sum           int              `json:"sum"` // 0..27
	Attributes    ResultAttributes `json:"attributes"`
	Timestamp     int64            `json:"timestamp"` // unix ms, from the block header
}

// Derive computes the PC28 result for a finalizing block hash:
// strip every non-digit character, left-pad with '0' to at least three
// digits (pathological hash fallback), take the last three digits as
// (a,b,c) and sum them. Pure and deterministic: the same hash always
// yields the same result.
func Derive(hash string, issue int64, timestamp int64) RoundResult {
	var b strings.Builder
	for _, r := range hash {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	last3 := digits[len(digits)-3:]

	a := int(last3[0] - '0')
	bn := int(last3[1] - '0')
	c := int(last3[2] - '0')
	sum := a + bn + c

	isBig := sum >= BigThreshold
	isEven := sum%2 == 0
	isLeopard := a == bn && bn == c
	isPair := !isLeopard && (a == bn || bn == c || a == c)

	attrs := ResultAttributes{
		Size:      SizeSmall,
		Parity:    ParityOdd,
		IsPair:    isPair,
		IsLeopard: isLeopard,
	}
	if isBig {
		attrs.Size = SizeBig
	}
	if isEven {
		attrs.Parity = ParityEven
	}
	attrs.Combo = comboLabel(isBig, isEven)

	return RoundResult{
		Issue:         issue,
		Hash:          hash,
		SourceNumbers: [3]int{a, bn, c},
		Sum:           sum,
		Attributes:    attrs,
		Timestamp:     timestamp,
	}
}

func comboLabel(isBig, isEven bool) string {
	label := "小"
	if isBig {
		label = "大"
	}
	if isEven {
		return label + "双"
	}
	return label + "单"
}
