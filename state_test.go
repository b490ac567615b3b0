package recmock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhaseMachine(t *testing.T) {
	machine, err := newPhaseMachine()
	require.NoError(t, err)
	require.NotNil(t, machine)
}

func TestMockState_transitions(t *testing.T) {
	s := newMockState()
	assert.Equal(t, PhaseRecord, s.phase())
	assert.NoError(t, s.require(PhaseRecord, "record"))

	err := s.require(PhaseReplay, "verify")
	var illegal *IllegalStateError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "verify is not allowed in the record phase", illegal.Message)

	assert.False(t, s.reset(), "reset while recording")
	assert.True(t, s.replay())
	assert.Equal(t, PhaseReplay, s.phase())
	assert.False(t, s.replay(), "replay while replaying")
	assert.Equal(t, PhaseReplay, s.phase())

	assert.True(t, s.reset())
	assert.Equal(t, PhaseRecord, s.phase())
}
