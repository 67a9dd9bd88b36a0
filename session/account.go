// SPDX-License-Identifier: Apache-2.0
package session

import (
	"encoding/json"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/wallet"
)

// AccountHandle is the session's ready-to-use private account. It is computed
// locally before any network call; the account exists on-network once its
// deployment confirmed or an earlier session already deployed it.
type AccountHandle struct {
	// Address is the deterministic on-network address.
	Address wallet.AztecAddress
	// Keys is the session's derived key material.
	Keys *wallet.DerivedKeySet
	// Wallet exposes the derived signing identity.
	Wallet *wallet.SessionWallet
	// Instance is the account's contract instance record.
	Instance *pxe.ContractInstance
	// Deployed reports whether this session submitted the deployment.
	Deployed bool
}

// AccountContractArtifact describes the account contract the PXE simulates
// derived accounts against.
var AccountContractArtifact = &pxe.ContractArtifact{
	Name: "VizardAccount",
	ABI:  json.RawMessage(`{"name":"VizardAccount","functions":["constructor","entrypoint","verify_signature"]}`),
}

// FeeSponsorArtifact describes the well-known sponsored fee payment contract.
var FeeSponsorArtifact = &pxe.ContractArtifact{
	Name: "SponsoredFPC",
	ABI:  json.RawMessage(`{"name":"SponsoredFPC","functions":["sponsor_unconditionally"]}`),
}

// accountInstance builds the deterministic instance record for a key set.
// The deployer is the zero address: the account cannot act as a sender
// before it exists.
func accountInstance(ks *wallet.DerivedKeySet) *pxe.ContractInstance {
	salt := ks.Salt.Bytes()
	pub := ks.SigningKey.SigningAddress()

	return &pxe.ContractInstance{
		Address:            ks.ComputeAddress(),
		Version:            1,
		Salt:               salt[:],
		ContractClassID:    ethcrypto.Keccak256([]byte(AccountContractArtifact.Name)),
		InitializationHash: ethcrypto.Keccak256(pub[:]),
		PublicKeysHash:     ethcrypto.Keccak256(pub[:], []byte("keys")),
		Deployer:           wallet.ZeroAztecAddress,
	}
}
