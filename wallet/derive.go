// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// DerivationVersion participates in the signed message bytes. Bumping it
// rotates every derived identity.
const DerivationVersion = "v1"

// Domain tags for the three sub-keys. Distinct non-empty tags keep the
// sub-keys independent even though they stem from one signature.
const (
	tagSecret  = "vizard:secret"
	tagSalt    = "vizard:salt"
	tagSigning = "vizard:signing"
	tagAddress = "vizard:address"
)

const derivationTemplate = "Vizard Aztec Wallet\n\n" +
	"Sign this message to derive your Aztec private keys.\n" +
	"This signature will NOT be sent to any server.\n\n" +
	"Version: %s\nAddress: %s"

// DerivedKeySet is the complete key material of one session, produced from a
// single personal-sign signature. It lives in memory only and is never
// persisted or transmitted.
type DerivedKeySet struct {
	// Secret is the account secret key as an element of the Aztec scalar
	// field.
	Secret fr.Element
	// Salt is the address salt, also a field element.
	Salt fr.Element
	// SigningKey is the derived ed25519 signing identity.
	SigningKey Account
	// SourceAddress is the EVM address the keys were derived for.
	SourceAddress common.Address
	// SourceSignature is the raw signature the keys were derived from, kept
	// for audit only.
	SourceSignature hexutil.Bytes
}

// DerivationMessage builds the exact plaintext the EVM signer is asked to
// sign. The source address is embedded lower-cased so that checksum casing
// differences between wallets cannot fork identities.
func DerivationMessage(source common.Address, version string) []byte {
	return []byte(fmt.Sprintf(derivationTemplate, version, strings.ToLower(source.Hex())))
}

// DeriveKeys requests one signature over the versioned derivation message and
// expands it into the session's DerivedKeySet. The signature prompt is
// user-paced and may block until the context is cancelled or the user
// decides.
func DeriveKeys(ctx context.Context, signer EVMSigner, source common.Address) (*DerivedKeySet, error) {
	if signer == nil {
		return nil, ErrSignerUnavailable
	}

	msg := DerivationMessage(source, DerivationVersion)
	sig, err := signer.PersonalSign(ctx, msg, source)
	if err != nil {
		return nil, errors.WithMessage(err, "requesting derivation signature")
	}

	return KeysFromSignature(source, sig), nil
}

// KeysFromSignature expands a raw signature into the three sub-keys. Each
// sub-key is keccak256(signature ‖ domain tag); the first two are reduced
// into the BN254 scalar field, the third seeds the ed25519 signing key.
func KeysFromSignature(source common.Address, sig []byte) *DerivedKeySet {
	ks := &DerivedKeySet{
		SourceAddress:   source,
		SourceSignature: append(hexutil.Bytes(nil), sig...),
	}
	ks.Secret.SetBytes(subKey(sig, tagSecret))
	ks.Salt.SetBytes(subKey(sig, tagSalt))
	ks.SigningKey = AccountFromSeed(subKey(sig, tagSigning))
	return ks
}

func subKey(sig []byte, tag string) []byte {
	return ethcrypto.Keccak256(sig, []byte(tag))
}

// Clear zeroizes the key set. The source signature is kept, it is public to
// the signer anyway.
func (ks *DerivedKeySet) Clear() {
	ks.Secret.SetZero()
	ks.Salt.SetZero()
	ks.SigningKey.Clear()
}
