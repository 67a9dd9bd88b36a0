// SPDX-License-Identifier: Apache-2.0
package client

import (
	"context"
	"sync"
)

// txQueue serializes transaction-submitting operations for one account. A
// queued operation starts only after every earlier one has settled, success
// or failure; proof generation and ordering correctness for a single account
// depend on at-most-one submission being in flight.
type txQueue struct {
	mutex sync.Mutex
	tail  chan struct{}
}

func newTxQueue() *txQueue {
	return &txQueue{}
}

// run appends op to the queue and executes it once its turn comes. There is
// no cancellation of queued predecessors; a cancelled context only prevents
// op itself from starting.
func (q *txQueue) run(ctx context.Context, op func(context.Context) error) error {
	q.mutex.Lock()
	prev := q.tail
	done := make(chan struct{})
	q.tail = done
	q.mutex.Unlock()
	defer close(done)

	if prev != nil {
		<-prev
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return op(ctx)
}
