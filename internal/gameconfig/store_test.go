package gameconfig

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/pc28"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDefaultCatalog(t *testing.T) {
	s := NewStore()

	games := s.List()
	require.Len(t, games, 4)
	assert.Equal(t, "pc2.0", games[0].ID)

	pure, err := s.Get("pure")
	require.NoError(t, err)
	assert.False(t, pure.SpecialRulesEnabled)

	full, err := s.Get("full")
	require.NoError(t, err)
	assert.True(t, full.MinBet.Equal(d("100")))
	assert.True(t, full.MaxBet.Equal(d("20000")))
	odds, ok := full.OddsFor(pc28.BetLeopard)
	require.True(t, ok)
	assert.True(t, odds.Equal(d("60.0")))

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := NewStore()

	snap, err := s.Get("pc2.0")
	require.NoError(t, err)
	snap.Odds[0].Odds = d("99")
	snap.MinBet = d("12345")

	fresh, err := s.Get("pc2.0")
	require.NoError(t, err)
	assert.True(t, fresh.Odds[0].Odds.Equal(d("2.0")), "mutating a snapshot must not leak into the store")
	assert.True(t, fresh.MinBet.Equal(d("10")))
}

func TestUpdateOdds(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.UpdateOdds("pc2.0", pc28.BetLeopard, d("45")))
	cfg, _ := s.Get("pc2.0")
	odds, _ := cfg.OddsFor(pc28.BetLeopard)
	assert.True(t, odds.Equal(d("45")))

	assert.ErrorIs(t, s.UpdateOdds("pc2.0", pc28.BetBig, d("0")), ErrInvalidOdds)
	assert.ErrorIs(t, s.UpdateOdds("nope", pc28.BetBig, d("2")), ErrUnknownGame)
	assert.Error(t, s.UpdateOdds("pc2.0", pc28.BetType("middle"), d("2")))
}

func TestSetStatus(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.SetStatus("pc2.0", StatusMaintenance))
	cfg, _ := s.Get("pc2.0")
	assert.Equal(t, StatusMaintenance, cfg.Status)

	assert.ErrorIs(t, s.SetStatus("pc2.0", GameStatus("closed")), ErrInvalidStatus)
}

func TestSetSpecialRules(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.SetSpecialRules("pure", true, d("1.95"), d("1.5")))
	cfg, _ := s.Get("pure")
	assert.True(t, cfg.SpecialRulesEnabled)
	assert.True(t, cfg.SpecialSingleOdds.Equal(d("1.95")))
	assert.True(t, cfg.SpecialComboOdds.Equal(d("1.5")))

	assert.ErrorIs(t, s.SetSpecialRules("pure", true, d("0"), d("1.5")), ErrInvalidOdds)
}

func TestApplyLimits(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.ApplyLimits([]string{"pc2.0", "netdisk"}, d("20"), d("1000")))
	for _, id := range []string{"pc2.0", "netdisk"} {
		cfg, _ := s.Get(id)
		assert.True(t, cfg.MinBet.Equal(d("20")), id)
		assert.True(t, cfg.MaxBet.Equal(d("1000")), id)
	}
	// Untargeted game untouched.
	pure, _ := s.Get("pure")
	assert.True(t, pure.MinBet.Equal(d("10")))

	assert.ErrorIs(t, s.ApplyLimits(nil, d("10"), d("100")), ErrInvalidLimits)
	assert.ErrorIs(t, s.ApplyLimits([]string{"pc2.0"}, d("-1"), d("100")), ErrInvalidLimits)
	assert.ErrorIs(t, s.ApplyLimits([]string{"pc2.0"}, d("100"), d("10")), ErrInvalidLimits)
}

func TestApplyLimitsIsAtomic(t *testing.T) {
	s := NewStore()

	err := s.ApplyLimits([]string{"pc2.0", "ghost"}, d("20"), d("1000"))
	require.ErrorIs(t, err, ErrUnknownGame)

	// The valid target must not have been partially updated.
	cfg, _ := s.Get("pc2.0")
	assert.True(t, cfg.MinBet.Equal(d("10")))
	assert.True(t, cfg.MaxBet.Equal(d("50000")))
}

func TestStateFor(t *testing.T) {
	assert.Equal(t, StateOpen, StateFor(StatusActive, false))
	assert.Equal(t, StateLocked, StateFor(StatusActive, true))
	assert.Equal(t, StatePaused, StateFor(StatusMaintenance, false))
	assert.Equal(t, StatePaused, StateFor(StatusMaintenance, true))
	assert.Equal(t, StateHidden, StateFor(StatusHidden, false))
}
