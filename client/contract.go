// SPDX-License-Identifier: Apache-2.0
package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/wallet"
)

// ContractHandle is a contract bound to the account's execution context.
type ContractHandle struct {
	Address  wallet.AztecAddress
	Instance *pxe.ContractInstance

	client *VizardClient
}

// ContractAt resolves the contract at addr. With register set, the first
// call per address fetches the instance, binds it to the execution context
// and triggers a note sync for it; later calls are served from the cache
// without network work. Fails with pxe.ErrContractNotFound when nothing is
// deployed at addr.
func (c *VizardClient) ContractAt(ctx context.Context, addr wallet.AztecAddress, register bool) (*ContractHandle, error) {
	client, err := c.sess.Client()
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	if handle, ok := c.registered[addr]; ok {
		c.mutex.Unlock()
		return handle, nil
	}
	c.mutex.Unlock()

	inst, err := client.GetContractInstance(ctx, addr)
	if err != nil {
		return nil, errors.WithMessagef(err, "fetching contract %s", addr)
	}
	if inst == nil {
		return nil, errors.WithMessagef(pxe.ErrContractNotFound, "%s", addr)
	}

	handle := &ContractHandle{Address: addr, Instance: inst, client: c}
	if !register {
		return handle, nil
	}

	// The artifact is nil: the PXE already knows the contract class of a
	// fetched instance.
	if err := client.RegisterContract(ctx, inst, nil); err != nil {
		return nil, errors.WithMessagef(err, "registering contract %s", addr)
	}
	if err := client.SyncNotes(ctx, []wallet.AztecAddress{addr}); err != nil {
		c.Log().Warnf("note sync for %s failed: %v", addr, err)
	}

	c.mutex.Lock()
	c.registered[addr] = handle
	c.mutex.Unlock()
	return handle, nil
}

// Call submits a call against the contract from the session's account,
// serialized through the client's transaction queue.
func (h *ContractHandle) Call(ctx context.Context, calldata hexutil.Bytes, fee *pxe.FeeOptions) (*pxe.TxReceipt, error) {
	from, err := h.client.AztecAddress()
	if err != nil {
		return nil, err
	}

	return h.client.Submit(ctx, &pxe.TxRequest{
		Kind:     pxe.TxKindCall,
		From:     from,
		Contract: h.Address,
		Calldata: calldata,
		Fee:      fee,
	})
}
