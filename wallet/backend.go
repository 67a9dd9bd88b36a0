// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"io"

	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/pkg/errors"
	"perun.network/go-perun/wallet"
)

// Backend verifies EdDSA signatures produced by derived Accounts.
type Backend struct{}

var _ wallet.Backend = Backend{}

func init() {
	wallet.SetBackend(Backend{})
}

func (Backend) NewAddress() wallet.Address {
	return &Address{}
}

func (Backend) DecodeSig(r io.Reader) (wallet.Sig, error) {
	sig := make([]byte, ed.SignatureSize)
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, err
	}
	return wallet.Sig(sig), nil
}

func (Backend) VerifySignature(msg []byte, sign wallet.Sig, a wallet.Address) (bool, error) {
	addr, ok := a.(*Address)
	if !ok {
		return false, errors.New("address of wrong type")
	}
	if len(sign) != ed.SignatureSize {
		return false, errors.Errorf("invalid signature length: %d/%d", len(sign), ed.SignatureSize)
	}
	return ed.Verify(ed.PublicKey(addr[:]), msg, sign), nil
}
