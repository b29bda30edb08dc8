package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lootcrate/internal/crate/access"
)

func TestNewStaticGate_RequiresAdmins(t *testing.T) {
	_, err := access.NewStaticGate()
	assert.Error(t, err)

	_, err = access.NewStaticGate("")
	assert.Error(t, err)
}

func TestStaticGate_Authorization(t *testing.T) {
	g, err := access.NewStaticGate("root", "ops")
	require.NoError(t, err)

	assert.True(t, g.IsAuthorized("root"))
	assert.True(t, g.IsAuthorized("ops"))
	assert.False(t, g.IsAuthorized("alice"))
	assert.False(t, g.IsAuthorized(""))
}

func TestStaticGate_PauseResume(t *testing.T) {
	g, err := access.NewStaticGate("root")
	require.NoError(t, err)
	assert.False(t, g.IsPaused())

	require.NoError(t, g.Pause("root"))
	assert.True(t, g.IsPaused())

	require.NoError(t, g.Resume("root"))
	assert.False(t, g.IsPaused())
}

func TestStaticGate_PauseUnauthorized(t *testing.T) {
	g, err := access.NewStaticGate("root")
	require.NoError(t, err)

	assert.Error(t, g.Pause("alice"))
	assert.False(t, g.IsPaused())

	require.NoError(t, g.Pause("root"))
	assert.Error(t, g.Resume("alice"))
	assert.True(t, g.IsPaused())
}

func TestStaticGate_Grant(t *testing.T) {
	g, err := access.NewStaticGate("root")
	require.NoError(t, err)

	assert.Error(t, g.Grant("alice", "bob"))
	assert.False(t, g.IsAuthorized("bob"))

	require.NoError(t, g.Grant("root", "bob"))
	assert.True(t, g.IsAuthorized("bob"))

	assert.Error(t, g.Grant("root", ""))
}
