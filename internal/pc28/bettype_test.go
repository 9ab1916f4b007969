package pc28

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBetType(t *testing.T) {
	for _, bt := range AllBetTypes {
		got, err := ParseBetType(string(bt))
		require.NoError(t, err)
		assert.Equal(t, bt, got)
	}

	_, err := ParseBetType("middle")
	assert.Error(t, err)
}

func TestWinPredicates(t *testing.T) {
	bigEven := ResultAttributes{Size: SizeBig, Parity: ParityEven}
	smallOdd := ResultAttributes{Size: SizeSmall, Parity: ParityOdd}
	pair := ResultAttributes{Size: SizeSmall, Parity: ParityEven, IsPair: true}
	leopard := ResultAttributes{Size: SizeBig, Parity: ParityOdd, IsLeopard: true}

	cases := []struct {
		bt    BetType
		attrs ResultAttributes
		want  bool
	}{
		{BetBig, bigEven, true},
		{BetBig, smallOdd, false},
		{BetSmall, smallOdd, true},
		{BetOdd, smallOdd, true},
		{BetEven, bigEven, true},
		{BetBigEven, bigEven, true},
		{BetBigOdd, bigEven, false},
		{BetSmallOdd, smallOdd, true},
		{BetSmallEven, smallOdd, false},
		{BetPair, pair, true},
		{BetPair, leopard, false},
		{BetLeopard, leopard, true},
		{BetLeopard, pair, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.bt.Wins(c.attrs), "%s vs %+v", c.bt, c.attrs)
	}
}

func TestOddsTablesCoverEveryType(t *testing.T) {
	for _, table := range [][]BetOption{DefaultBetOptions(), HighBetOptions()} {
		require.Len(t, table, len(AllBetTypes))
		seen := map[BetType]bool{}
		for _, o := range table {
			assert.True(t, o.Odds.IsPositive())
			assert.Equal(t, o.Type.Label(), o.Label)
			assert.False(t, seen[o.Type], "duplicate odds entry for %s", o.Type)
			seen[o.Type] = true
		}
	}
}
