// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

var (
	// ErrSignerUnavailable no EVM signer was supplied or detected.
	ErrSignerUnavailable = errors.New("no EVM signer available")
	// ErrUserRejected the user declined the signature request.
	ErrUserRejected = errors.New("signature request rejected by user")
	// ErrNoAccounts the signer is present but exposes no unlocked accounts.
	ErrNoAccounts = errors.New("signer has no unlocked accounts")
)

// EVMSigner is the capability the bridge needs from an external EVM wallet:
// listing accounts and producing EIP-191 personal-sign signatures. Both calls
// are user-interactive on real wallets and may block until the user decides.
type EVMSigner interface {
	// RequestAccounts returns the signer's unlocked addresses. Fails with
	// ErrNoAccounts if none are available.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// PersonalSign signs msg with the key of from using personal-sign
	// semantics and returns the 65-byte [R || S || V] signature, V in
	// {27, 28}. Fails with ErrUserRejected if the user declines.
	PersonalSign(ctx context.Context, msg []byte, from common.Address) (hexutil.Bytes, error)
}

// LocalSigner is an in-process EVMSigner backed by a raw secp256k1 key. It
// signs without prompting, which makes it suitable for the demo binary and
// for tests; personal-sign over a fixed key and message is deterministic.
type LocalSigner struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

var _ EVMSigner = (*LocalSigner)(nil)

// NewLocalSigner wraps an existing secp256k1 private key.
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{
		key:  key,
		addr: ethcrypto.PubkeyToAddress(key.PublicKey),
	}
}

// LocalSignerFromHex parses a 32-byte hex-encoded secp256k1 key.
func LocalSignerFromHex(hexkey string) (*LocalSigner, error) {
	key, err := ethcrypto.HexToECDSA(hexkey)
	if err != nil {
		return nil, errors.WithMessage(err, "parsing signer key")
	}
	return NewLocalSigner(key), nil
}

// Address returns the signer's EVM address.
func (s *LocalSigner) Address() common.Address {
	return s.addr
}

func (s *LocalSigner) RequestAccounts(context.Context) ([]common.Address, error) {
	return []common.Address{s.addr}, nil
}

func (s *LocalSigner) PersonalSign(_ context.Context, msg []byte, from common.Address) (hexutil.Bytes, error) {
	if from != s.addr {
		return nil, errors.Errorf("unknown account %s", from.Hex())
	}

	sig, err := ethcrypto.Sign(accounts.TextHash(msg), s.key)
	if err != nil {
		return nil, errors.WithMessage(err, "signing derivation message")
	}
	sig[ethcrypto.RecoveryIDOffset] += 27 // match eth_sign wire format
	return sig, nil
}
