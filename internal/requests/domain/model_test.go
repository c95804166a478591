package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/validation"
)

func TestKind_StateMachine(t *testing.T) {
	assert.Equal(t, StatusPending, KindLeave.InitialStatus())
	assert.Equal(t, StatusPending, KindProfileUpdate.InitialStatus())
	assert.Equal(t, StatusOpen, KindITTicket.InitialStatus())

	assert.True(t, KindLeave.CanTransition(StatusPending, StatusApproved))
	assert.True(t, KindLeave.CanTransition(StatusPending, StatusRejected))
	assert.False(t, KindLeave.CanTransition(StatusApproved, StatusRejected))
	assert.False(t, KindLeave.CanTransition(StatusRejected, StatusApproved))
	assert.False(t, KindLeave.CanTransition(StatusPending, StatusResolved))

	assert.True(t, KindITTicket.CanTransition(StatusOpen, StatusInProgress))
	assert.True(t, KindITTicket.CanTransition(StatusOpen, StatusResolved))
	assert.True(t, KindITTicket.CanTransition(StatusInProgress, StatusResolved))
	assert.False(t, KindITTicket.CanTransition(StatusInProgress, StatusOpen))
	assert.False(t, KindITTicket.CanTransition(StatusResolved, StatusInProgress))
	assert.False(t, KindITTicket.CanTransition(StatusOpen, StatusRejected))

	for _, k := range Kinds {
		for _, s := range []Status{StatusApproved, StatusRejected, StatusResolved} {
			if !k.IsTerminal(s) {
				continue
			}
			for _, next := range []Status{StatusPending, StatusApproved, StatusRejected, StatusOpen, StatusInProgress, StatusResolved} {
				assert.False(t, k.CanTransition(s, next), "%s: %s -> %s", k, s, next)
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("it_ticket")
	require.NoError(t, err)
	assert.Equal(t, KindITTicket, k)

	_, err = ParseKind("expense")
	assert.ErrorIs(t, err, validation.ErrValidation)
}
