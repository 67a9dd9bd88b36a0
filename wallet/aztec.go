// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"bytes"
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// AztecAddressLen is the length of an on-network account address in bytes.
const AztecAddressLen = fr.Bytes

// AztecAddress is the deterministic on-network location of an account,
// encoded as a big-endian field element.
type AztecAddress [AztecAddressLen]byte

// ZeroAztecAddress is the placeholder sender identity used for transactions
// submitted before the account itself exists on-network.
var ZeroAztecAddress AztecAddress

// ComputeAddress derives the account's on-network address from the key set.
// The address commits to the account secret, the salt and the signing public
// key, so the same signer always resolves to the same account.
func (ks *DerivedKeySet) ComputeAddress() AztecAddress {
	secret := ks.Secret.Bytes()
	salt := ks.Salt.Bytes()
	pub := ks.SigningKey.SigningAddress()

	var e fr.Element
	e.SetBytes(ethcrypto.Keccak256(secret[:], salt[:], pub[:], []byte(tagAddress)))

	return AztecAddress(e.Bytes())
}

// AztecAddressFromHex parses a 0x-prefixed 32-byte hex address.
func AztecAddressFromHex(s string) (AztecAddress, error) {
	var a AztecAddress
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, errors.WithMessage(err, "decoding aztec address")
	}
	if len(raw) != AztecAddressLen {
		return a, errors.Errorf("invalid aztec address length: %d/%d", len(raw), AztecAddressLen)
	}
	copy(a[:], raw)
	return a, nil
}

func (a AztecAddress) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the zero placeholder.
func (a AztecAddress) IsZero() bool {
	return a == ZeroAztecAddress
}

func (a AztecAddress) Equal(b AztecAddress) bool {
	return bytes.Equal(a[:], b[:])
}

// MarshalText implements encoding.TextMarshaler for JSON-RPC payloads.
func (a AztecAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AztecAddress) UnmarshalText(text []byte) error {
	parsed, err := AztecAddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
