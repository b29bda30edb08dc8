package crate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lootcrate/internal/crate"
)

func TestParseClass_RoundTrip(t *testing.T) {
	for c := crate.Class(0); c < crate.ClassCount; c++ {
		parsed, err := crate.ParseClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseClass_Unknown(t *testing.T) {
	_, err := crate.ParseClass("mythic")
	assert.Error(t, err)
}

func TestParseTier_RoundTrip(t *testing.T) {
	for tier := crate.Tier(0); tier < crate.TierCount; tier++ {
		parsed, err := crate.ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, parsed)
	}
}

func TestParseTier_Unknown(t *testing.T) {
	_, err := crate.ParseTier("mythril")
	assert.Error(t, err)
}

func TestClass_Valid(t *testing.T) {
	assert.True(t, crate.ClassCommon.Valid())
	assert.True(t, crate.ClassLegendary.Valid())
	assert.False(t, crate.Class(-1).Valid())
	assert.False(t, crate.Class(crate.ClassCount).Valid())
}

func TestTier_Locator(t *testing.T) {
	assert.Equal(t, "https://crates.example/box/0", crate.TierStandard.Locator("https://crates.example/box/"))
	assert.Equal(t, "https://crates.example/box/2", crate.TierDeluxe.Locator("https://crates.example/box/"))
}

func TestTier_Metadata(t *testing.T) {
	assert.Equal(t, "Standard Crate", crate.TierStandard.Name())
	assert.Equal(t, "CRATE-P", crate.TierPremium.Symbol())
	assert.NotEmpty(t, crate.TierDeluxe.Name())
}

func TestClass_String_OutOfRange(t *testing.T) {
	assert.Equal(t, "class(9)", crate.Class(9).String())
	assert.Equal(t, "tier(9)", crate.Tier(9).String())
}
