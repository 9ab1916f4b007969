package pc28

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundStateAt(t *testing.T) {
	cases := []struct {
		tip       int64
		current   int64
		next      int64
		remaining int64
		locked    bool
	}{
		{100, 100, 120, 20, false},
		{101, 100, 120, 19, false},
		{115, 100, 120, 5, false}, // exactly at the margin is still open
		{116, 100, 120, 4, true},
		{119, 100, 120, 1, true},
		{120, 120, 140, 20, false},
		{0, 0, 20, 20, false},
	}
	for _, c := range cases {
		st := RoundStateAt(c.tip, 20, 5)
		assert.Equal(t, c.current, st.CurrentIssue, "tip %d", c.tip)
		assert.Equal(t, c.next, st.NextIssue, "tip %d", c.tip)
		assert.Equal(t, c.remaining, st.BlocksRemaining, "tip %d", c.tip)
		assert.Equal(t, c.locked, st.Locked, "tip %d", c.tip)
	}
}

func TestRoundIdentityIsStableWithinWindow(t *testing.T) {
	// Advancing the tip anywhere inside [current, current+K) never moves
	// the current issue: identity depends only on floor(tip/K).
	const k = 20
	base := RoundStateAt(57260, k, 5).CurrentIssue
	for tip := base; tip < base+k; tip++ {
		assert.Equal(t, base, RoundStateAt(tip, k, 5).CurrentIssue)
	}
	assert.Equal(t, base+k, RoundStateAt(base+k, k, 5).CurrentIssue)
}
