package settle

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/gameconfig"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
	"github.com/tron-PC28/TRON-HASH-PC28/pkg/contracts/events"
)

// History receives settled records for the reporting layer.
type History interface {
	SaveResult(ctx context.Context, r pc28.RoundResult) error
	SaveSettled(ctx context.Context, ws []ledger.Wager) error
}

// Publisher pushes the round_settled event out.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// SettledBatch is the outcome of settling one finalized issue.
type SettledBatch struct {
	Result      pc28.RoundResult
	Wagers      []ledger.Wager
	TotalStake  decimal.Decimal
	TotalPayout decimal.Decimal
}

// Engine matches a drained issue against its derived result, moves money
// between the player and house balances, and hands the settled records to
// the history store and the event bus.
type Engine struct {
	Log    *zap.Logger
	Ledger *ledger.Ledger
	Games  *gameconfig.Store
	Hist   History
	Publ   Publisher

	OnSettled func(n int) // metrics (settled wagers per round)
	OnError   func(stage string)

	now func() time.Time
}

func NewEngine(log *zap.Logger, l *ledger.Ledger, games *gameconfig.Store, hist History, publ Publisher) *Engine {
	return &Engine{Log: log, Ledger: l, Games: games, Hist: hist, Publ: publ, now: time.Now}
}

// Settle drains and settles every pending wager for the result's issue.
// Exactly-once is guaranteed by the ledger's single-drain contract: a second
// call for the same issue sees an empty drain and changes nothing. History
// and publish failures are logged, never fatal: the balances have already
// moved and the batch is still returned to the caller.
func (e *Engine) Settle(ctx context.Context, result pc28.RoundResult) SettledBatch {
	batch := SettledBatch{
		Result:      result,
		TotalStake:  decimal.Zero,
		TotalPayout: decimal.Zero,
	}

	wagers := e.Ledger.Drain(result.Issue)

	if err := e.Hist.SaveResult(ctx, result); err != nil {
		e.warn("save result", err)
	}

	if len(wagers) == 0 {
		e.publish(ctx, batch)
		return batch
	}

	// One config snapshot per game for the whole issue: an admin edit
	// landing mid-settlement takes effect next round, never retroactively.
	cfgs := make(map[string]gameconfig.GameConfig)

	settledAt := e.now().UnixMilli()
	for i := range wagers {
		w := &wagers[i]
		batch.TotalStake = batch.TotalStake.Add(w.Amount)

		cfg, ok := cfgs[w.GameID]
		if !ok {
			var err error
			cfg, err = e.Games.Get(w.GameID)
			if err != nil {
				// Game deleted under a live wager cannot happen via any
				// admin operation; treat it as config-less and pay
				// snapshot odds.
				cfg = gameconfig.GameConfig{ID: w.GameID}
			}
			cfgs[w.GameID] = cfg
		}

		w.SettledAt = settledAt
		if w.Type.Wins(result.Attributes) {
			ratio := effectiveOdds(cfg, w.Type, w.Odds, result.Sum)
			w.Status = ledger.StatusWon
			w.Payout = w.Amount.Mul(ratio)
			batch.TotalPayout = batch.TotalPayout.Add(w.Payout)
		} else {
			w.Status = ledger.StatusLost
			w.Payout = decimal.Zero
		}
	}

	e.Ledger.ApplySettlement(batch.TotalStake, batch.TotalPayout)
	batch.Wagers = wagers

	if err := e.Hist.SaveSettled(ctx, wagers); err != nil {
		e.warn("save settled", err)
	}
	e.publish(ctx, batch)

	if e.OnSettled != nil {
		e.OnSettled(len(wagers))
	}
	e.Log.Info("round settled",
		zap.Int64("issue", result.Issue),
		zap.Int("wagers", len(wagers)),
		zap.String("total_stake", batch.TotalStake.String()),
		zap.String("total_payout", batch.TotalPayout.String()),
	)
	return batch
}

// effectiveOdds applies the 13/14 override. It is deliberately asymmetric:
// only the bet types matching the special sum's own attributes are
// discounted (sum 13 is Small+Odd, sum 14 is Big+Even); everything else,
// including the opposite-sign combos, keeps the wager's snapshot odds.
func effectiveOdds(cfg gameconfig.GameConfig, t pc28.BetType, snapshot decimal.Decimal, sum int) decimal.Decimal {
	if !cfg.SpecialRulesEnabled {
		return snapshot
	}
	switch sum {
	case 13:
		switch t {
		case pc28.BetSmall, pc28.BetOdd:
			return cfg.SpecialSingleOdds
		case pc28.BetSmallOdd:
			return cfg.SpecialComboOdds
		}
	case 14:
		switch t {
		case pc28.BetBig, pc28.BetEven:
			return cfg.SpecialSingleOdds
		case pc28.BetBigEven:
			return cfg.SpecialComboOdds
		}
	}
	return snapshot
}

func (e *Engine) publish(ctx context.Context, batch SettledBatch) {
	if e.Publ == nil {
		return
	}
	ev := events.RoundSettled{
		Result:      batch.Result,
		Settled:     batch.Wagers,
		TotalStake:  batch.TotalStake,
		TotalPayout: batch.TotalPayout,
		TsUnixMs:    e.now().UnixMilli(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		e.warn("marshal round_settled", err)
		return
	}
	if err := e.Publ.Publish(ctx, batch.Result.Hash, b); err != nil {
		e.warn("publish round_settled", err)
	}
}

func (e *Engine) warn(stage string, err error) {
	e.Log.Warn(stage+" failed", zap.Error(err))
	if e.OnError != nil {
		e.OnError(stage)
	}
}
