// SPDX-License-Identifier: Apache-2.0
package test_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"
	test "vizard.network/vizard-aztec-bridge/wallet/test"
)

func TestRandomizer_RandomAztecAddress(t *testing.T) {
	rng := pkgtest.Prng(t)
	addr := test.NewRandomAztecAddress(rng)

	for i := 0; i < 1000; i++ {
		addr2 := test.NewRandomAztecAddress(rng)
		require.False(t, addr.Equal(addr2))
	}
}
