// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"sync"

	"github.com/pkg/errors"
	"perun.network/go-perun/wallet"
)

// SessionWallet holds the single derived account of one session. It exists so
// the derived identity can be used everywhere a go-perun wallet is expected;
// nothing is ever written to durable storage.
type SessionWallet struct {
	mutex sync.Mutex
	acc   *Account // nil once locked
	addr  Address
}

var _ wallet.Wallet = (*SessionWallet)(nil)

// NewSessionWallet wraps the derived signing account of ks.
func NewSessionWallet(ks *DerivedKeySet) *SessionWallet {
	acc := ks.SigningKey
	return &SessionWallet{
		acc:  &acc,
		addr: acc.SigningAddress(),
	}
}

// Unlock returns the session account if the requested address matches it.
func (w *SessionWallet) Unlock(a wallet.Address) (wallet.Account, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.acc == nil {
		return nil, errors.New("wallet is locked")
	}
	if !w.addr.Equal(a) {
		return nil, errors.New("no such account")
	}
	return *w.acc, nil
}

// LockAll zeroizes and drops the session account. The wallet cannot be
// unlocked again; a new session derives a fresh key set.
func (w *SessionWallet) LockAll() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.acc != nil {
		w.acc.Clear()
		w.acc = nil
	}
}

// IncrementUsage is a no-op; the session account lives exactly as long as the
// session.
func (w *SessionWallet) IncrementUsage(wallet.Address) {}

// DecrementUsage complements IncrementUsage.
func (w *SessionWallet) DecrementUsage(wallet.Address) {}
