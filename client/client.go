// SPDX-License-Identifier: Apache-2.0

// Package client is the stable SDK surface of the bridge. VizardClient wraps
// a session with fee policy resolution, a contract registration cache and a
// serialized transaction queue; application code talks to it, not to the
// session directly.
package client // import "vizard.network/vizard-aztec-bridge/client"

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"perun.network/go-perun/log"

	"vizard.network/vizard-aztec-bridge/session"
	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/wallet"
)

// VizardClient is one application's handle to one private account.
// Two clients must not share a session.
type VizardClient struct {
	log.Embedding

	sess  *session.Session
	queue *txQueue

	mutex      sync.Mutex
	registered map[wallet.AztecAddress]*ContractHandle
}

// NewVizardClient wraps a session.
func NewVizardClient(sess *session.Session) *VizardClient {
	return &VizardClient{
		Embedding:  log.MakeEmbedding(log.Default()),
		sess:       sess,
		queue:      newTxQueue(),
		registered: make(map[wallet.AztecAddress]*ContractHandle),
	}
}

// Connect establishes the session and makes sure the fee payment method is
// resolved, whether or not account setup already needed it.
func (c *VizardClient) Connect(ctx context.Context) (*session.AccountHandle, error) {
	handle, err := c.sess.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := c.sess.ResolveFeeMethod(ctx); err != nil {
		return nil, err
	}
	return handle, nil
}

// Disconnect drops the registration cache and tears the session down.
func (c *VizardClient) Disconnect() {
	c.mutex.Lock()
	c.registered = make(map[wallet.AztecAddress]*ContractHandle)
	c.mutex.Unlock()

	c.sess.Disconnect()
}

// Subscribe forwards to the session's connection state hub.
func (c *VizardClient) Subscribe(fn func(session.ConnectionState)) func() {
	return c.sess.Subscribe(fn)
}

// State returns the current connection state.
func (c *VizardClient) State() session.ConnectionState {
	return c.sess.State()
}

// EVMAddress returns the signer address the account derives from.
func (c *VizardClient) EVMAddress() (common.Address, error) {
	return c.sess.EVMAddress()
}

// AztecAddress returns the account's on-network address.
func (c *VizardClient) AztecAddress() (wallet.AztecAddress, error) {
	return c.sess.AztecAddress()
}

// FeePaymentMethod returns the session's resolved payment method.
func (c *VizardClient) FeePaymentMethod() (*pxe.FeePaymentMethod, error) {
	if method := c.sess.FeePaymentMethod(); method != nil {
		return method, nil
	}
	return nil, session.ErrSessionNotConnected
}

// PXE returns the underlying network client.
func (c *VizardClient) PXE() (pxe.Client, error) {
	return c.sess.Client()
}

// Account returns the underlying account execution context.
func (c *VizardClient) Account() (*session.AccountHandle, error) {
	if handle := c.sess.Handle(); handle != nil {
		return handle, nil
	}
	return nil, session.ErrSessionNotConnected
}

// SyncPrivateState makes notes for the given addresses discoverable. Safe to
// call repeatedly; a no-op when nothing changed upstream.
func (c *VizardClient) SyncPrivateState(ctx context.Context, addrs []wallet.AztecAddress) error {
	client, err := c.sess.Client()
	if err != nil {
		return err
	}
	return client.SyncNotes(ctx, addrs)
}

// Submit funnels a mutating transaction through the account's serialized
// queue: it is submitted only after every previously queued operation has
// settled, and its fee options are filled in from the current quote when
// absent. Submission or confirmation failures propagate to this caller only;
// the session stays connected.
func (c *VizardClient) Submit(ctx context.Context, req *pxe.TxRequest) (*pxe.TxReceipt, error) {
	client, err := c.sess.Client()
	if err != nil {
		return nil, err
	}
	if _, err := c.Account(); err != nil {
		return nil, err
	}

	var receipt *pxe.TxReceipt
	err = c.queue.run(ctx, func(ctx context.Context) error {
		if req.Fee == nil {
			fee, err := c.BuildFeeOptions(ctx, FeeParams{})
			if err != nil {
				return err
			}
			req.Fee = fee
		}

		tx, err := client.SendTx(ctx, req)
		if err != nil {
			return err
		}
		c.Log().Debugf("tx %s submitted", tx.Hash())

		receipt, err = tx.Wait(ctx, c.sess.Config().TxWaitTimeout)
		return err
	})
	return receipt, err
}
