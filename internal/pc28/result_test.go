package pc28

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveBigEven(t *testing.T) {
	r := Derive("0000000003f4abc839", 840, 1700000000000)

	assert.Equal(t, [3]int{8, 3, 9}, r.SourceNumbers)
	assert.Equal(t, 20, r.Sum)
	assert.Equal(t, SizeBig, r.Attributes.Size)
	assert.Equal(t, ParityEven, r.Attributes.Parity)
	assert.False(t, r.Attributes.IsPair)
	assert.False(t, r.Attributes.IsLeopard)
	assert.Equal(t, "大双", r.Attributes.Combo)
	assert.Equal(t, int64(840), r.Issue)
	assert.Equal(t, int64(1700000000000), r.Timestamp)
}

func TestDeriveLeopard(t *testing.T) {
	r := Derive("ffeeddccbbaa555", 860, 0)

	assert.Equal(t, [3]int{5, 5, 5}, r.SourceNumbers)
	assert.Equal(t, 15, r.Sum)
	assert.True(t, r.Attributes.IsLeopard)
	assert.False(t, r.Attributes.IsPair, "leopard is never counted as pair")
	assert.Equal(t, SizeBig, r.Attributes.Size)
	assert.Equal(t, ParityOdd, r.Attributes.Parity)
	assert.Equal(t, "大单", r.Attributes.Combo)
}

func TestDerivePair(t *testing.T) {
	// Last three digits 881: exactly two equal.
	r := Derive("abc881", 20, 0)

	assert.Equal(t, [3]int{8, 8, 1}, r.SourceNumbers)
	assert.True(t, r.Attributes.IsPair)
	assert.False(t, r.Attributes.IsLeopard)
}

func TestDerivePadsShortHashes(t *testing.T) {
	// A hash with fewer than three digits is left-padded with zeros.
	r := Derive("zz7yy", 40, 0)
	assert.Equal(t, [3]int{0, 0, 7}, r.SourceNumbers)
	assert.Equal(t, 7, r.Sum)
	assert.Equal(t, SizeSmall, r.Attributes.Size)
	assert.Equal(t, ParityOdd, r.Attributes.Parity)
	assert.True(t, r.Attributes.IsPair, "the padded zeros form a pair")

	r = Derive("no digits at all", 40, 0)
	assert.Equal(t, [3]int{0, 0, 0}, r.SourceNumbers)
	assert.Equal(t, 0, r.Sum)
	assert.True(t, r.Attributes.IsLeopard)
}

func TestDeriveIsDeterministic(t *testing.T) {
	const hash = "0000000003a1f2e884c1d7b9a0e5f4c3d2b1a09988776655443322110af8e3d"

	first := Derive(hash, 100, 1)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Derive(hash, 100, 1))
	}
}

func TestDeriveSmallThreshold(t *testing.T) {
	// Sum 13 is Small, sum 14 is Big: the threshold is inclusive on 14.
	r13 := Derive("abc760", 0, 0) // 7+6+0 = 13
	assert.Equal(t, 13, r13.Sum)
	assert.Equal(t, SizeSmall, r13.Attributes.Size)

	r14 := Derive("abc770", 0, 0) // 7+7+0 = 14
	assert.Equal(t, 14, r14.Sum)
	assert.Equal(t, SizeBig, r14.Attributes.Size)
}
