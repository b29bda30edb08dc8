package odds_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lootcrate/internal/crate"
	"github.com/cory-johannsen/lootcrate/internal/crate/odds"
)

func standardTable() odds.Table {
	return odds.Table{7300, 2100, 400, 200}
}

func TestDraw_WorkedExample(t *testing.T) {
	// 500 is not below the legendary weight (200), so 200 is subtracted
	// leaving 300, which is below the epic weight (400).
	got := odds.Draw(standardTable(), big.NewInt(500))
	assert.Equal(t, crate.ClassEpic, got)
}

func TestDraw_Boundaries(t *testing.T) {
	table := standardTable()

	cases := []struct {
		name string
		v    int64
		want crate.Class
	}{
		{"zero is rarest", 0, crate.ClassLegendary},
		{"last legendary value", 199, crate.ClassLegendary},
		{"first epic value", 200, crate.ClassEpic},
		{"last epic value", 599, crate.ClassEpic},
		{"first rare value", 600, crate.ClassRare},
		{"last rare value", 2699, crate.ClassRare},
		{"first common value", 2700, crate.ClassCommon},
		{"last common value", 9999, crate.ClassCommon},
		{"wraps modulo scale", 10000, crate.ClassLegendary},
		{"large raw value", 123450199, crate.ClassLegendary},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, odds.Draw(table, big.NewInt(tc.v)))
		})
	}
}

func TestDraw_ZeroTableAlwaysCommon(t *testing.T) {
	var table odds.Table
	for v := int64(0); v < 100; v++ {
		assert.Equal(t, crate.ClassCommon, odds.Draw(table, big.NewInt(v*97)))
	}
}

func TestDraw_UnderSumBiasesTowardCommon(t *testing.T) {
	// Weights sum to 1000, not 10000: the missing mass lands on Common.
	table := odds.Table{500, 300, 100, 100}
	common := 0
	for v := int64(0); v < odds.Scale; v++ {
		if odds.Draw(table, big.NewInt(v)) == crate.ClassCommon {
			common++
		}
	}
	assert.Equal(t, odds.Scale-500, common)
}

func TestDraw_Frequencies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical test in short mode")
	}

	table := standardTable()
	const n = 200000
	rng := rand.New(rand.NewSource(42))

	var counts [crate.ClassCount]int
	for i := 0; i < n; i++ {
		v := big.NewInt(rng.Int63n(odds.Scale))
		counts[odds.Draw(table, v)]++
	}

	for class := 0; class < crate.ClassCount; class++ {
		expected := float64(table[class]) / odds.Scale
		got := float64(counts[class]) / n
		assert.InDelta(t, expected, got, 0.01,
			"class %s: expected %.4f got %.4f", crate.Class(class), expected, got)
	}
}

func TestDraw_AlwaysValidClass(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var table odds.Table
		for i := range table {
			table[i] = rapid.IntRange(0, odds.Scale).Draw(t, "weight")
		}
		v := big.NewInt(rapid.Int64Range(0, 1<<62).Draw(t, "v"))
		assert.True(t, odds.Draw(table, v).Valid())
	})
}

func TestDraw_DeterministicForSameValue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		table := standardTable()
		v := rapid.Int64Range(0, 1<<62).Draw(t, "v")
		first := odds.Draw(table, big.NewInt(v))
		second := odds.Draw(table, big.NewInt(v))
		assert.Equal(t, first, second)
	})
}

func TestRegistry_SetAndGet(t *testing.T) {
	r := odds.NewRegistry()
	assert.Equal(t, odds.Table{}, r.Get(crate.TierStandard))

	r.Set(crate.TierPremium, standardTable())
	assert.Equal(t, standardTable(), r.Get(crate.TierPremium))
	assert.Equal(t, odds.Table{}, r.Get(crate.TierStandard))
}

func TestRegistry_AcceptsMalformedTable(t *testing.T) {
	r := odds.NewRegistry()
	malformed := odds.Table{1, 2, 3, 4}
	r.Set(crate.TierDeluxe, malformed)
	assert.Equal(t, malformed, r.Get(crate.TierDeluxe))
}

func TestTable_Sum(t *testing.T) {
	assert.Equal(t, odds.Scale, standardTable().Sum())
	assert.Equal(t, 0, odds.Table{}.Sum())
}
