package history

import (
	"context"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

// Recorder fans settlement output to Postgres (durable history) and Redis
// (latest-result cache). Either sink may be nil.
type Recorder struct {
	PG    *Postgres
	Cache *Cache
}

func (r *Recorder) SaveResult(ctx context.Context, res pc28.RoundResult) error {
	if r.Cache != nil {
		if err := r.Cache.SetLatest(ctx, res); err != nil {
			return err
		}
	}
	if r.PG != nil {
		return r.PG.SaveResult(ctx, res)
	}
	return nil
}

func (r *Recorder) SaveSettled(ctx context.Context, ws []ledger.Wager) error {
	if r.PG != nil {
		return r.PG.SaveSettled(ctx, ws)
	}
	return nil
}
