// SPDX-License-Identifier: Apache-2.0

package wallet_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"vizard.network/vizard-aztec-bridge/wallet"
	wtest "vizard.network/vizard-aztec-bridge/wallet/test"
)

func TestAccountSignVerify(t *testing.T) {
	rng := pkgtest.Prng(t)
	acc := wtest.NewRandomAccount(rng)

	msg := []byte("vizard test payload")
	sig, err := acc.SignData(msg)
	require.NoError(t, err)

	ok, err := wallet.Backend{}.VerifySignature(msg, sig, acc.Address())
	require.NoError(t, err)
	require.True(t, ok)

	sig[0] ^= 0xff
	ok, err = wallet.Backend{}.VerifySignature(msg, sig, acc.Address())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionWallet(t *testing.T) {
	rng := pkgtest.Prng(t)
	ks := wtest.NewRandomKeySet(rng)
	w := wallet.NewSessionWallet(ks)

	acc, err := w.Unlock(ks.SigningKey.Address())
	require.NoError(t, err, "unlocking the session account")
	require.Equal(t, ks.SigningKey.Address(), acc.Address())

	other := wtest.NewRandomAccount(rng)
	_, err = w.Unlock(other.Address())
	require.Error(t, err, "foreign addresses must not unlock")

	w.LockAll()
	_, err = w.Unlock(ks.SigningKey.Address())
	require.Error(t, err, "locked wallet must not unlock")
}

func TestAddressMarshalling(t *testing.T) {
	rng := pkgtest.Prng(t)
	acc := wtest.NewRandomAccount(rng)
	addr := acc.SigningAddress()

	raw, err := addr.MarshalBinary()
	require.NoError(t, err)

	var back wallet.Address
	require.NoError(t, back.UnmarshalBinary(raw))
	require.True(t, addr.Equal(&back))

	require.Error(t, back.UnmarshalBinary(raw[:12]))
}

func TestAztecAddressHexRoundtrip(t *testing.T) {
	rng := pkgtest.Prng(t)
	addr := wtest.NewRandomAztecAddress(rng)

	back, err := wallet.AztecAddressFromHex(addr.String())
	require.NoError(t, err)
	require.True(t, addr.Equal(back))

	_, err = wallet.AztecAddressFromHex("0x1234")
	require.Error(t, err)
}
