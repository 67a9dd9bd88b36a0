// SPDX-License-Identifier: Apache-2.0
package session

import (
	"sort"
	"sync"
)

// Status is a phase of the connection lifecycle.
type Status string

const (
	StatusDisconnected    Status = "disconnected"
	StatusConnecting      Status = "connecting"
	StatusDerivingKeys    Status = "deriving_keys"
	StatusInitializingPXE Status = "initializing_pxe"
	StatusRegistering     Status = "registering"
	StatusSyncing         Status = "syncing"
	StatusConnected       Status = "connected"
)

// ConnectionState is one observable lifecycle update.
type ConnectionState struct {
	Status  Status
	Message string
}

// StateHub broadcasts connection states to subscribers. A subscriber joining
// late receives only the current state, not the transition history.
type StateHub struct {
	mutex   sync.Mutex
	current ConnectionState
	subs    map[int]func(ConnectionState)
	nextID  int
}

// NewStateHub returns a hub in the disconnected state.
func NewStateHub() *StateHub {
	return &StateHub{
		current: ConnectionState{Status: StatusDisconnected},
		subs:    make(map[int]func(ConnectionState)),
	}
}

// Current returns the latest published state.
func (h *StateHub) Current() ConnectionState {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.current
}

// Subscribe registers fn and synchronously delivers the current state to it.
// The returned function unsubscribes; it is idempotent.
func (h *StateHub) Subscribe(fn func(ConnectionState)) func() {
	h.mutex.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	current := h.current
	h.mutex.Unlock()

	fn(current)

	return func() {
		h.mutex.Lock()
		defer h.mutex.Unlock()
		delete(h.subs, id)
	}
}

// set publishes a new state to all subscribers in subscription order.
// Callbacks run outside the hub lock so they may subscribe or unsubscribe.
func (h *StateHub) set(state ConnectionState) {
	h.mutex.Lock()
	h.current = state
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(ConnectionState), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.subs[id])
	}
	h.mutex.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
