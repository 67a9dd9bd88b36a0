// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"bytes"
	"encoding/hex"

	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/pkg/errors"
	"perun.network/go-perun/wallet"
)

// Address is the public half of a derived signing identity. It identifies the
// account towards the signature backend, not on the network; the on-network
// location of the account is its AztecAddress.
type Address [ed.PublicKeySize]byte

var _ wallet.Address = (*Address)(nil)

func (a Address) MarshalBinary() ([]byte, error) {
	return a[:], nil
}

func (a *Address) UnmarshalBinary(data []byte) error {
	if len(data) != ed.PublicKeySize {
		return errors.Errorf("invalid signing key length: %d/%d", len(data), ed.PublicKeySize)
	}
	copy(a[:], data)
	return nil
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) Equal(b wallet.Address) bool {
	bTyped, ok := b.(*Address)
	if !ok {
		return false
	}
	return bytes.Equal(a[:], bTyped[:])
}

func (a Address) Cmp(b wallet.Address) int {
	return bytes.Compare(a[:], (*b.(*Address))[:])
}
