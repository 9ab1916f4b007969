package history

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

// Postgres persists the append-only settled history: one row per finalized
// round and one row per settled wager.
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

// EnsureSchema creates the history tables when they do not exist yet.
// Idempotent; run once at startup.
func (r *Postgres) EnsureSchema(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS round_results (
			issue       BIGINT PRIMARY KEY,
			hash        TEXT NOT NULL,
			num_a       SMALLINT NOT NULL,
			num_b       SMALLINT NOT NULL,
			num_c       SMALLINT NOT NULL,
			sum         SMALLINT NOT NULL,
			size        TEXT NOT NULL,
			parity      TEXT NOT NULL,
			is_pair     BOOLEAN NOT NULL,
			is_leopard  BOOLEAN NOT NULL,
			combo       TEXT NOT NULL,
			block_ts    BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS settled_wagers (
			id          TEXT PRIMARY KEY,
			game_id     TEXT NOT NULL,
			issue       BIGINT NOT NULL,
			bet_type    TEXT NOT NULL,
			label       TEXT NOT NULL,
			amount      NUMERIC(20,4) NOT NULL,
			odds        NUMERIC(12,4) NOT NULL,
			status      TEXT NOT NULL,
			payout      NUMERIC(20,4) NOT NULL,
			placed_at   BIGINT NOT NULL,
			settled_at  BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS settled_wagers_game_issue_idx
			ON settled_wagers (game_id, issue);
	`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// SaveResult records a finalized round. ON CONFLICT DO NOTHING makes the
// write idempotent per issue.
func (r *Postgres) SaveResult(ctx context.Context, res pc28.RoundResult) error {
	const q = `
		INSERT INTO round_results
		  (issue, hash, num_a, num_b, num_c, sum, size, parity, is_pair, is_leopard, combo, block_ts)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (issue) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, q,
		res.Issue, res.Hash,
		res.SourceNumbers[0], res.SourceNumbers[1], res.SourceNumbers[2],
		res.Sum, string(res.Attributes.Size), string(res.Attributes.Parity),
		res.Attributes.IsPair, res.Attributes.IsLeopard, res.Attributes.Combo,
		res.Timestamp,
	)
	return err
}

// SaveSettled appends a batch of settled wagers inside one transaction.
func (r *Postgres) SaveSettled(ctx context.Context, ws []ledger.Wager) error {
	if len(ws) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO settled_wagers
		  (id, game_id, issue, bet_type, label, amount, odds, status, payout, placed_at, settled_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	for _, w := range ws {
		if _, err := tx.ExecContext(ctx, q,
			w.ID, w.GameID, w.Issue, string(w.Type), w.Label,
			w.Amount, w.Odds, string(w.Status), w.Payout,
			w.PlacedAt, w.SettledAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GameTotals is the reporting aggregate the admin dashboard reads.
type GameTotals struct {
	GameID      string          `json:"game_id"`
	Wagers      int64           `json:"wagers"`
	Turnover    decimal.Decimal `json:"turnover"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	HousePnL    decimal.Decimal `json:"house_pnl"`
}

// TotalsByGame aggregates turnover, payout and house PnL per game over the
// whole settled history.
func (r *Postgres) TotalsByGame(ctx context.Context) ([]GameTotals, error) {
	const q = `
		SELECT game_id,
		       COUNT(*),
		       COALESCE(SUM(amount), 0),
		       COALESCE(SUM(payout), 0)
		FROM settled_wagers
		GROUP BY game_id
		ORDER BY game_id
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameTotals
	for rows.Next() {
		var t GameTotals
		if err := rows.Scan(&t.GameID, &t.Wagers, &t.Turnover, &t.TotalPayout); err != nil {
			return nil, err
		}
		t.HousePnL = t.Turnover.Sub(t.TotalPayout)
		out = append(out, t)
	}
	return out, rows.Err()
}

// RecentSettled returns the newest settled wagers for one game, or all
// games when gameID is empty.
func (r *Postgres) RecentSettled(ctx context.Context, gameID string, limit int) ([]ledger.Wager, error) {
	const q = `
		SELECT id, game_id, issue, bet_type, label, amount, odds, status, payout, placed_at, settled_at
		FROM settled_wagers
		WHERE ($1 = '' OR game_id = $1)
		ORDER BY settled_at DESC, id
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, q, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Wager
	for rows.Next() {
		var w ledger.Wager
		var betType, status string
		if err := rows.Scan(&w.ID, &w.GameID, &w.Issue, &betType, &w.Label,
			&w.Amount, &w.Odds, &status, &w.Payout, &w.PlacedAt, &w.SettledAt); err != nil {
			return nil, err
		}
		w.Type = pc28.BetType(betType)
		w.Status = ledger.WagerStatus(status)
		out = append(out, w)
	}
	return out, rows.Err()
}
