package settle

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/gameconfig"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeHistory struct {
	results []pc28.RoundResult
	batches [][]ledger.Wager
}

func (f *fakeHistory) SaveResult(_ context.Context, r pc28.RoundResult) error {
	f.results = append(f.results, r)
	return nil
}

func (f *fakeHistory) SaveSettled(_ context.Context, ws []ledger.Wager) error {
	f.batches = append(f.batches, ws)
	return nil
}

type fakePublisher struct{ published int }

func (f *fakePublisher) Publish(context.Context, string, []byte) error {
	f.published++
	return nil
}

func newTestEngine(t *testing.T, player, house string) (*Engine, *ledger.Ledger, *gameconfig.Store, *fakeHistory, *fakePublisher) {
	t.Helper()
	led := ledger.New(d(player), d(house))
	games := gameconfig.NewStore()
	hist := &fakeHistory{}
	publ := &fakePublisher{}
	return NewEngine(zap.NewNop(), led, games, hist, publ), led, games, hist, publ
}

func place(t *testing.T, led *ledger.Ledger, cfg gameconfig.GameConfig, bt pc28.BetType, amount string, issue int64) {
	t.Helper()
	_, err := led.Place(cfg, bt, d(amount), issue)
	require.NoError(t, err)
}

func TestSettleConservesMoney(t *testing.T) {
	e, led, games, hist, publ := newTestEngine(t, "1000", "10000")
	cfg, err := games.Get("pc2.0")
	require.NoError(t, err)

	result := pc28.Derive("abc839", 120, 1) // sum 20: Big Even
	place(t, led, cfg, pc28.BetBig, "100", 120)     // wins at 2.0 -> 200
	place(t, led, cfg, pc28.BetSmall, "50", 120)    // loses
	place(t, led, cfg, pc28.BetLeopard, "20", 120)  // loses

	playerBefore, houseBefore := led.Balances()
	batch := e.Settle(context.Background(), result)

	require.Len(t, batch.Wagers, 3)
	assert.True(t, batch.TotalStake.Equal(d("170")))
	assert.True(t, batch.TotalPayout.Equal(d("200")))

	playerAfter, houseAfter := led.Balances()
	assert.True(t, playerAfter.Sub(playerBefore).Equal(batch.TotalPayout),
		"player gains exactly the total payout")
	assert.True(t, houseAfter.Sub(houseBefore).Equal(batch.TotalStake.Sub(batch.TotalPayout)),
		"house delta is stake minus payout, negative here")

	for _, w := range batch.Wagers {
		assert.NotZero(t, w.SettledAt)
		switch w.Type {
		case pc28.BetBig:
			assert.Equal(t, ledger.StatusWon, w.Status)
			assert.True(t, w.Payout.Equal(d("200")))
		default:
			assert.Equal(t, ledger.StatusLost, w.Status)
			assert.True(t, w.Payout.IsZero())
		}
	}

	require.Len(t, hist.results, 1)
	require.Len(t, hist.batches, 1)
	assert.Equal(t, 1, publ.published)
}

func TestSettleIsIdempotent(t *testing.T) {
	e, led, games, hist, _ := newTestEngine(t, "1000", "10000")
	cfg, _ := games.Get("pc2.0")

	result := pc28.Derive("abc839", 120, 1)
	place(t, led, cfg, pc28.BetBig, "100", 120)

	e.Settle(context.Background(), result)
	playerAfter, houseAfter := led.Balances()

	again := e.Settle(context.Background(), result)
	assert.Empty(t, again.Wagers, "second settle sees an empty drain")

	p2, h2 := led.Balances()
	assert.True(t, p2.Equal(playerAfter), "no further balance change")
	assert.True(t, h2.Equal(houseAfter))
	assert.Len(t, hist.batches, 1, "no duplicate settled records")
}

func TestSettleEmptyIssueIsNoOp(t *testing.T) {
	e, led, _, hist, publ := newTestEngine(t, "1000", "10000")

	playerBefore, houseBefore := led.Balances()
	batch := e.Settle(context.Background(), pc28.Derive("abc839", 120, 1))

	assert.Empty(t, batch.Wagers)
	p, h := led.Balances()
	assert.True(t, p.Equal(playerBefore))
	assert.True(t, h.Equal(houseBefore))

	// The result itself is still recorded and announced.
	assert.Len(t, hist.results, 1)
	assert.Equal(t, 1, publ.published)
}

func TestSpecialRuleAtSum13(t *testing.T) {
	e, led, games, _, _ := newTestEngine(t, "10000", "100000")
	cfg, _ := games.Get("pc2.0") // special rules on: single 1.98, combo 1.6

	result := pc28.Derive("abc760", 120, 1) // (7,6,0) sum 13: Small Odd
	require.Equal(t, 13, result.Sum)

	place(t, led, cfg, pc28.BetSmall, "100", 120)    // wins, overridden to 1.98
	place(t, led, cfg, pc28.BetOdd, "100", 120)      // wins, overridden to 1.98
	place(t, led, cfg, pc28.BetSmallOdd, "100", 120) // wins, overridden to 1.6
	place(t, led, cfg, pc28.BetBigOdd, "100", 120)   // loses at sum 13, untouched

	batch := e.Settle(context.Background(), result)

	payouts := map[pc28.BetType]decimal.Decimal{}
	for _, w := range batch.Wagers {
		payouts[w.Type] = w.Payout
	}
	assert.True(t, payouts[pc28.BetSmall].Equal(d("198")))
	assert.True(t, payouts[pc28.BetOdd].Equal(d("198")))
	assert.True(t, payouts[pc28.BetSmallOdd].Equal(d("160")))
	assert.True(t, payouts[pc28.BetBigOdd].IsZero())
	assert.True(t, batch.TotalPayout.Equal(d("556")))
}

func TestSpecialRuleAtSum14(t *testing.T) {
	e, led, games, _, _ := newTestEngine(t, "10000", "100000")
	cfg, _ := games.Get("pc2.0")

	result := pc28.Derive("abc770", 120, 1) // (7,7,0) sum 14: Big Even, pair
	require.Equal(t, 14, result.Sum)
	require.True(t, result.Attributes.IsPair)

	place(t, led, cfg, pc28.BetBig, "100", 120)     // overridden to 1.98
	place(t, led, cfg, pc28.BetEven, "100", 120)    // overridden to 1.98
	place(t, led, cfg, pc28.BetBigEven, "100", 120) // overridden to 1.6
	place(t, led, cfg, pc28.BetPair, "100", 120)    // wins at snapshot 3.0, no override

	batch := e.Settle(context.Background(), result)

	payouts := map[pc28.BetType]decimal.Decimal{}
	for _, w := range batch.Wagers {
		payouts[w.Type] = w.Payout
	}
	assert.True(t, payouts[pc28.BetBig].Equal(d("198")))
	assert.True(t, payouts[pc28.BetEven].Equal(d("198")))
	assert.True(t, payouts[pc28.BetBigEven].Equal(d("160")))
	assert.True(t, payouts[pc28.BetPair].Equal(d("300")),
		"pair is not part of the 13/14 rule even when it wins alongside it")
}

func TestSpecialRuleDisabledKeepsSnapshotOdds(t *testing.T) {
	e, led, games, _, _ := newTestEngine(t, "10000", "100000")
	cfg, _ := games.Get("pure") // special rules off

	result := pc28.Derive("abc760", 120, 1)
	place(t, led, cfg, pc28.BetSmall, "100", 120)

	batch := e.Settle(context.Background(), result)
	require.Len(t, batch.Wagers, 1)
	assert.True(t, batch.Wagers[0].Payout.Equal(d("200")), "snapshot odds 2.0 apply unchanged")
}

func TestSettleUsesConfigSnapshotOddsOnlyForOverride(t *testing.T) {
	// The wager's own odds were snapshotted at placement; a later admin
	// odds edit must not change the payout of an already-placed wager.
	e, led, games, _, _ := newTestEngine(t, "10000", "100000")
	cfg, _ := games.Get("pc2.0")

	place(t, led, cfg, pc28.BetBig, "100", 120) // snapshot 2.0
	require.NoError(t, games.UpdateOdds("pc2.0", pc28.BetBig, d("9.9")))

	batch := e.Settle(context.Background(), pc28.Derive("abc839", 120, 1)) // sum 20, big wins
	require.Len(t, batch.Wagers, 1)
	assert.True(t, batch.Wagers[0].Payout.Equal(d("200")))
}
