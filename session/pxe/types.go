// SPDX-License-Identifier: Apache-2.0
package pxe

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"vizard.network/vizard-aztec-bridge/wallet"
)

// TxHashLen is the length of a transaction hash in bytes.
const TxHashLen = 32

type (
	// TxHash identifies a submitted transaction.
	TxHash [TxHashLen]byte

	// ContractInstance is the on-network record of a deployed contract. Its
	// presence at an address is the canonical signal that the address is
	// initialized and usable.
	ContractInstance struct {
		Address            wallet.AztecAddress `json:"address"`
		Version            uint8               `json:"version"`
		Salt               hexutil.Bytes       `json:"salt"`
		ContractClassID    hexutil.Bytes       `json:"contractClassId"`
		InitializationHash hexutil.Bytes       `json:"initializationHash"`
		PublicKeysHash     hexutil.Bytes       `json:"publicKeysHash"`
		Deployer           wallet.AztecAddress `json:"deployer"`
	}

	// ContractArtifact carries the compiled contract description the PXE
	// needs to simulate and prove calls against an instance.
	ContractArtifact struct {
		Name string          `json:"name"`
		ABI  json.RawMessage `json:"abi"`
	}

	// L1ContractAddresses are the rollup's anchor contracts on the EVM base
	// layer; the proving and execution backends are configured from them.
	L1ContractAddresses struct {
		Rollup   common.Address `json:"rollupAddress"`
		Registry common.Address `json:"registryAddress"`
		Inbox    common.Address `json:"inboxAddress"`
		Outbox   common.Address `json:"outboxAddress"`
	}

	// NodeInfo describes the network the PXE is attached to.
	NodeInfo struct {
		NodeVersion     string              `json:"nodeVersion"`
		L1ChainID       uint64              `json:"l1ChainId"`
		ProtocolVersion uint64              `json:"protocolVersion"`
		L1Contracts     L1ContractAddresses `json:"l1ContractAddresses"`
	}

	// GasFees is the network's current fee quote per gas dimension.
	GasFees struct {
		FeePerDaGas *big.Int `json:"feePerDaGas"`
		FeePerL2Gas *big.Int `json:"feePerL2Gas"`
	}

	// FeeMode selects who pays for a transaction.
	FeeMode string

	// FeePaymentMethod is a resolved fee policy. For FeeModeSponsored the
	// Sponsor is the well-known fee-paying contract; for FeeModeNone it is
	// the zero address.
	FeePaymentMethod struct {
		Mode    FeeMode             `json:"mode"`
		Sponsor wallet.AztecAddress `json:"sponsor"`
	}

	// FeeOptions bounds what a transaction may pay.
	FeeOptions struct {
		MaxFeePerDaGas *big.Int          `json:"maxFeePerDaGas"`
		MaxFeePerL2Gas *big.Int          `json:"maxFeePerL2Gas"`
		PaymentMethod  *FeePaymentMethod `json:"paymentMethod,omitempty"`
	}

	// TxKind distinguishes deployments from contract calls.
	TxKind string

	// TxRequest is a ready-to-submit transaction. From may be the zero
	// address for account deployments, where the account cannot yet act as
	// its own sender.
	TxRequest struct {
		Kind     TxKind              `json:"kind"`
		From     wallet.AztecAddress `json:"from"`
		Contract wallet.AztecAddress `json:"contract,omitempty"`
		Calldata hexutil.Bytes       `json:"calldata,omitempty"`
		Fee      *FeeOptions         `json:"fee,omitempty"`
	}

	// TxStatus is the lifecycle state of a submitted transaction.
	TxStatus string

	// TxReceipt is the settlement record of a transaction.
	TxReceipt struct {
		TxHash      TxHash   `json:"txHash"`
		Status      TxStatus `json:"status"`
		Error       string   `json:"error,omitempty"`
		BlockNumber uint64   `json:"blockNumber,omitempty"`
	}
)

const (
	FeeModeSponsored FeeMode = "sponsored"
	FeeModeNone      FeeMode = "none"

	TxKindDeployAccount TxKind = "deploy_account"
	TxKindCall          TxKind = "call"

	TxStatusPending  TxStatus = "pending"
	TxStatusSuccess  TxStatus = "success"
	TxStatusReverted TxStatus = "app_logic_reverted"
	TxStatusDropped  TxStatus = "dropped"
)

// Settled reports whether the receipt is final.
func (s TxStatus) Settled() bool {
	return s == TxStatusSuccess || s == TxStatusReverted || s == TxStatusDropped
}

func (h TxHash) String() string {
	return hexutil.Encode(h[:])
}

// MarshalText implements encoding.TextMarshaler.
func (h TxHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *TxHash) UnmarshalText(text []byte) error {
	raw, err := hexutil.Decode(string(text))
	if err != nil {
		return err
	}
	if len(raw) != TxHashLen {
		return errors.Errorf("invalid tx hash length: %d/%d", len(raw), TxHashLen)
	}
	copy(h[:], raw)
	return nil
}
