package tron

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/settle"
	"github.com/tron-PC28/TRON-HASH-PC28/pkg/contracts/events"
)

// ChainSource is the collaborator contract for block data.
type ChainSource interface {
	GetLatestBlock(ctx context.Context) (Block, error)
	GetBlockByHeight(ctx context.Context, height int64) (Block, error)
}

// Settler consumes one finalized round result.
type Settler interface {
	Settle(ctx context.Context, r pc28.RoundResult) settle.SettledBatch
}

// Publisher pushes round_advanced events out.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

const recentResults = 20

// Poller drives the round clock off the advancing chain tip. On a fixed
// cadence it fetches the tip; when the tip's current issue moves past the
// last derived result it fetches the exact finalizing block (by height when
// the cadence skipped over the boundary), derives the result and triggers
// settlement once per issue. Any fetch failure just skips the cycle.
type Poller struct {
	Log      *zap.Logger
	Chain    ChainSource
	Engine   Settler
	Publ     Publisher
	Interval time.Duration

	BlocksPerIssue int64
	LockMargin     int64

	OnTick  func()       // metrics
	OnError func(string) // metrics per stage

	mu      sync.RWMutex
	tip     int64
	state   pc28.RoundState
	latest  *pc28.RoundResult
	recent  []pc28.RoundResult // newest first, capped
	started bool
}

// Run ticks until the context is canceled. The first tick fires immediately
// so a cold start does not wait a full interval to find its first issue.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if p.OnTick != nil {
		p.OnTick()
	}

	tipBlock, err := p.Chain.GetLatestBlock(ctx)
	if err != nil {
		p.Log.Warn("tip fetch failed, skipping cycle", zap.Error(err))
		if p.OnError != nil {
			p.OnError("tip")
		}
		return
	}

	state := pc28.RoundStateAt(tipBlock.Height, p.BlocksPerIssue, p.LockMargin)
	advanced := p.observe(tipBlock.Height, state)
	if advanced {
		p.publishAdvanced(ctx, tipBlock.Height, state)
	}

	latest := p.latestResult()
	if latest != nil && latest.Issue >= state.CurrentIssue {
		return // boundary not crossed yet
	}

	// The finalizing block is the tip itself only when the tip sits exactly
	// on the boundary; otherwise polling was coarser than block production
	// and the boundary block must be fetched explicitly.
	finalizing := tipBlock
	if tipBlock.Height != state.CurrentIssue {
		finalizing, err = p.Chain.GetBlockByHeight(ctx, state.CurrentIssue)
		if err != nil {
			if errors.Is(err, ErrNotProduced) {
				p.Log.Warn("finalizing block not yet produced", zap.Int64("issue", state.CurrentIssue))
			} else {
				p.Log.Warn("finalizing block fetch failed, skipping cycle", zap.Error(err))
			}
			if p.OnError != nil {
				p.OnError("finalizing")
			}
			return
		}
	}

	result := pc28.Derive(finalizing.Hash, finalizing.Height, finalizing.Timestamp)
	if !p.record(result) {
		return // already derived this issue
	}

	p.Log.Info("round finalized",
		zap.Int64("issue", result.Issue),
		zap.Int("sum", result.Sum),
		zap.String("combo", result.Attributes.Combo),
	)
	p.Engine.Settle(ctx, result)
}

// observe stores the tip and round state, reporting whether the current
// issue advanced since the previous observation.
func (p *Poller) observe(tip int64, state pc28.RoundState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.state.CurrentIssue
	first := !p.started
	p.started = true
	p.tip = tip
	p.state = state
	return first || state.CurrentIssue > prev
}

// record appends the result to the recent ring unless the issue was already
// seen; the seen-check is what keeps a lingering boundary tip from deriving
// the same round twice.
func (p *Poller) record(r pc28.RoundResult) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, seen := range p.recent {
		if seen.Issue == r.Issue {
			return false
		}
	}
	p.latest = &r
	p.recent = append([]pc28.RoundResult{r}, p.recent...)
	if len(p.recent) > recentResults {
		p.recent = p.recent[:recentResults]
	}
	return true
}

func (p *Poller) latestResult() *pc28.RoundResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Snapshot returns the current tip, round state, latest result and recent
// results for the read API.
func (p *Poller) Snapshot() (tip int64, state pc28.RoundState, latest *pc28.RoundResult, recent []pc28.RoundResult) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	recent = make([]pc28.RoundResult, len(p.recent))
	copy(recent, p.recent)
	return p.tip, p.state, p.latest, recent
}

func (p *Poller) publishAdvanced(ctx context.Context, tip int64, state pc28.RoundState) {
	if p.Publ == nil {
		return
	}
	ev := events.RoundAdvanced{
		Issue:           state.CurrentIssue,
		TipHeight:       tip,
		BlocksRemaining: state.BlocksRemaining,
		Locked:          state.Locked,
		TsUnixMs:        time.Now().UnixMilli(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := p.Publ.Publish(ctx, strconv.FormatInt(state.CurrentIssue, 10), b); err != nil {
		p.Log.Warn("publish round_advanced failed", zap.Error(err))
		if p.OnError != nil {
			p.OnError("publish")
		}
	}
}
