// SPDX-License-Identifier: Apache-2.0

// Package pxe is the boundary to the private execution environment, the
// node-side client that simulates, proves and submits transactions for the
// bridge. The bridge only sequences calls against this boundary; it never
// reimplements node or prover logic.
package pxe // import "vizard.network/vizard-aztec-bridge/session/pxe"

import (
	"context"
	"time"

	"vizard.network/vizard-aztec-bridge/wallet"
)

// Client is the capability the bridge consumes from a PXE endpoint.
type Client interface {
	// BlockNumber returns the current block height. Used as the liveness
	// probe during connection setup.
	BlockNumber(ctx context.Context) (uint64, error)
	// NodeInfo returns the attached network's description, including the L1
	// anchor contract addresses the proving backend is configured from.
	NodeInfo(ctx context.Context) (*NodeInfo, error)
	// GetContractInstance returns the instance record at addr, or nil if the
	// address has never been deployed to.
	GetContractInstance(ctx context.Context, addr wallet.AztecAddress) (*ContractInstance, error)
	// RegisterContract binds an instance and its artifact to the PXE's
	// execution context so calls against it can be simulated.
	RegisterContract(ctx context.Context, inst *ContractInstance, artifact *ContractArtifact) error
	// RegisterSender tells the PXE to discover notes addressed to addr.
	RegisterSender(ctx context.Context, addr wallet.AztecAddress) error
	// SyncNotes makes notes for the given addresses discoverable. Idempotent.
	SyncNotes(ctx context.Context, addrs []wallet.AztecAddress) error
	// CurrentGasFees returns the network's current base fee quote.
	CurrentGasFees(ctx context.Context) (*GasFees, error)
	// SendTx proves and submits a transaction.
	SendTx(ctx context.Context, req *TxRequest) (SentTx, error)
	// Close releases the underlying connection.
	Close()
}

// SentTx is a submitted transaction awaiting settlement.
type SentTx interface {
	// Hash returns the transaction hash.
	Hash() TxHash
	// Wait blocks until the transaction settles or the timeout elapses,
	// failing with ErrConfirmationTimeout in the latter case.
	Wait(ctx context.Context, timeout time.Duration) (*TxReceipt, error)
}
