package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap/finitestate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_GetStateChan(t *testing.T) {
	t.Parallel()

	calls := &callLog{}
	srv := newFakeServer(0)
	r, err := NewRunner(successPhases(calls), srv, time.Second,
		WithLogHandler(discardHandler()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stateCh := r.GetStateChan(ctx)

	seen := make(chan []string, 1)
	go func() {
		var states []string
		for state := range stateCh {
			states = append(states, state)
			if state == finitestate.StateExited {
				break
			}
		}
		seen <- states
	}()

	done := startRunner(t, r)
	waitForState(t, r, finitestate.StateRunning)
	srv.exitNow()
	require.NoError(t, <-done)

	select {
	case states := <-seen:
		assert.Equal(t, []string{
			finitestate.StateInit,
			finitestate.StateProbing,
			finitestate.StateMigrating,
			finitestate.StatePreparingAssets,
			finitestate.StateDroppingPrivileges,
			finitestate.StateRunning,
			finitestate.StateExited,
		}, states)
	case <-time.After(5 * time.Second):
		t.Fatal("state subscriber never observed the exited state")
	}
}

func TestRunner_IsRunning(t *testing.T) {
	t.Parallel()

	calls := &callLog{}
	srv := newFakeServer(0)
	r, err := NewRunner(successPhases(calls), srv, time.Second,
		WithLogHandler(discardHandler()))
	require.NoError(t, err)

	assert.False(t, r.IsRunning())

	done := startRunner(t, r)
	waitForState(t, r, finitestate.StateRunning)
	assert.True(t, r.IsRunning())

	srv.exitNow()
	require.NoError(t, <-done)
	assert.False(t, r.IsRunning())
	assert.Equal(t, finitestate.StateExited, r.GetState())
}
