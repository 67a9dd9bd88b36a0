// SPDX-License-Identifier: Apache-2.0
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateHub_LateJoin(t *testing.T) {
	hub := NewStateHub()

	hub.set(ConnectionState{Status: StatusConnecting, Message: "a"})
	hub.set(ConnectionState{Status: StatusDerivingKeys, Message: "b"})

	var got []ConnectionState
	unsub := hub.Subscribe(func(s ConnectionState) { got = append(got, s) })
	defer unsub()

	// A late subscriber sees only the current state, not the history.
	require.Len(t, got, 1)
	assert.Equal(t, StatusDerivingKeys, got[0].Status)

	hub.set(ConnectionState{Status: StatusConnected})
	require.Len(t, got, 2)
	assert.Equal(t, StatusConnected, got[1].Status)
}

func TestStateHub_Unsubscribe(t *testing.T) {
	hub := NewStateHub()

	calls := 0
	unsub := hub.Subscribe(func(ConnectionState) { calls++ })
	require.Equal(t, 1, calls)

	unsub()
	unsub() // idempotent

	hub.set(ConnectionState{Status: StatusConnected})
	require.Equal(t, 1, calls)
}

func TestStateHub_TransitionOrder(t *testing.T) {
	hub := NewStateHub()

	var seen []Status
	hub.Subscribe(func(s ConnectionState) { seen = append(seen, s.Status) })

	transitions := []Status{
		StatusConnecting, StatusDerivingKeys, StatusInitializingPXE,
		StatusRegistering, StatusSyncing, StatusConnected,
	}
	for _, st := range transitions {
		hub.set(ConnectionState{Status: st})
	}

	require.Equal(t, append([]Status{StatusDisconnected}, transitions...), seen)
}
