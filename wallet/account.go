// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"crypto"

	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"perun.network/go-perun/wallet"
)

// Account is the ed25519 signing key derived from the EVM signature. It
// authorizes the account's view-side operations on the private network.
// Possession of it never moves funds; every spend still goes through a fresh
// EVM signer approval.
type Account ed.PrivateKey

var _ wallet.Account = (*Account)(nil)

// AccountFromSeed deterministically expands a 32-byte seed into an Account.
func AccountFromSeed(seed []byte) Account {
	return Account(ed.NewKeyFromSeed(seed))
}

func (a Account) Address() wallet.Address {
	addr := a.SigningAddress()
	return &addr
}

// SigningAddress returns the account's public key as a typed address.
func (a Account) SigningAddress() Address {
	var addr Address
	copy(addr[:], ed.PrivateKey(a).Public().(ed.PublicKey))
	return addr
}

func (a Account) SignData(data []byte) ([]byte, error) {
	return ed.PrivateKey(a).Sign(nil, data, crypto.Hash(0))
}

// Clear zeroizes the private key material.
func (a Account) Clear() {
	for i := range a {
		a[i] = 0
	}
}
