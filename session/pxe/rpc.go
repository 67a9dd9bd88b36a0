// SPDX-License-Identifier: Apache-2.0
package pxe

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"vizard.network/vizard-aztec-bridge/wallet"
)

const (
	// DefaultReceiptPollInterval is how often a SentTx polls for its receipt.
	DefaultReceiptPollInterval = 2 * time.Second
	// DefaultProbeTimeout bounds the liveness probe during Connect.
	DefaultProbeTimeout = 10 * time.Second
)

// RPCClient talks JSON-RPC to a PXE endpoint.
type RPCClient struct {
	log.Embedding

	rpc          *rpc.Client
	pollInterval time.Duration
}

var _ Client = (*RPCClient)(nil)

// Connect dials the endpoint and probes it for liveness. A dial or probe
// failure is reported as ErrNetworkUnreachable.
func Connect(ctx context.Context, url string) (*RPCClient, error) {
	rc, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.WithMessagef(ErrNetworkUnreachable, "dialing %s: %v", url, err)
	}

	c := &RPCClient{
		Embedding:    log.MakeEmbedding(log.Default()),
		rpc:          rc,
		pollInterval: DefaultReceiptPollInterval,
	}

	probeCtx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()
	height, err := c.BlockNumber(probeCtx)
	if err != nil {
		rc.Close()
		return nil, errors.WithMessagef(ErrNetworkUnreachable, "probing %s: %v", url, err)
	}
	c.Log().Debugf("PXE reachable at %s, block height %d", url, height)

	return c, nil
}

func (c *RPCClient) BlockNumber(ctx context.Context) (uint64, error) {
	var height uint64
	err := c.rpc.CallContext(ctx, &height, "pxe_getBlockNumber")
	return height, errors.WithMessage(err, "querying block number")
}

func (c *RPCClient) NodeInfo(ctx context.Context) (*NodeInfo, error) {
	info := new(NodeInfo)
	if err := c.rpc.CallContext(ctx, info, "pxe_getNodeInfo"); err != nil {
		return nil, errors.WithMessage(err, "querying node info")
	}
	return info, nil
}

func (c *RPCClient) GetContractInstance(ctx context.Context, addr wallet.AztecAddress) (*ContractInstance, error) {
	inst := new(ContractInstance)
	err := c.rpc.CallContext(ctx, inst, "pxe_getContractInstance", addr)
	if err != nil {
		return nil, errors.WithMessagef(err, "querying contract instance %s", addr)
	}
	if inst.Address.IsZero() {
		// The endpoint reports absence as a null instance.
		return nil, nil
	}
	return inst, nil
}

func (c *RPCClient) RegisterContract(ctx context.Context, inst *ContractInstance, artifact *ContractArtifact) error {
	err := c.rpc.CallContext(ctx, nil, "pxe_registerContract", inst, artifact)
	return errors.WithMessagef(err, "registering contract %s", inst.Address)
}

func (c *RPCClient) RegisterSender(ctx context.Context, addr wallet.AztecAddress) error {
	err := c.rpc.CallContext(ctx, nil, "pxe_registerSender", addr)
	return errors.WithMessagef(err, "registering sender %s", addr)
}

func (c *RPCClient) SyncNotes(ctx context.Context, addrs []wallet.AztecAddress) error {
	err := c.rpc.CallContext(ctx, nil, "pxe_syncNotes", addrs)
	return errors.WithMessage(err, "syncing notes")
}

func (c *RPCClient) CurrentGasFees(ctx context.Context) (*GasFees, error) {
	fees := new(GasFees)
	if err := c.rpc.CallContext(ctx, fees, "pxe_getCurrentBaseFees"); err != nil {
		return nil, errors.WithMessage(err, "querying gas fees")
	}
	return fees, nil
}

func (c *RPCClient) SendTx(ctx context.Context, req *TxRequest) (SentTx, error) {
	var hash TxHash
	if err := c.rpc.CallContext(ctx, &hash, "pxe_sendTx", req); err != nil {
		return nil, errors.WithMessage(err, "submitting transaction")
	}
	return &sentTx{client: c, hash: hash}, nil
}

func (c *RPCClient) Close() {
	c.rpc.Close()
}

// sentTx polls the endpoint for the receipt of one submitted transaction.
type sentTx struct {
	client *RPCClient
	hash   TxHash
}

func (t *sentTx) Hash() TxHash {
	return t.hash
}

func (t *sentTx) Wait(ctx context.Context, timeout time.Duration) (*TxReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		receipt := new(TxReceipt)
		err := t.client.rpc.CallContext(ctx, receipt, "pxe_getTxReceipt", t.hash)
		switch {
		case err == nil && receipt.Status == TxStatusDropped:
			return receipt, errors.WithMessagef(ErrTxDropped, "tx %s: %s", t.hash, receipt.Error)
		case err == nil && receipt.Status.Settled():
			return receipt, nil
		case err != nil:
			t.client.Log().Debugf("receipt poll for %s failed: %v", t.hash, err)
		}

		select {
		case <-ctx.Done():
			return nil, errors.WithMessagef(ErrConfirmationTimeout, "tx %s", t.hash)
		case <-time.After(t.client.pollInterval):
		}
	}
}
