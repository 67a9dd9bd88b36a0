// SPDX-License-Identifier: Apache-2.0

// Package test provides an instrumented in-memory PXE client for tests. It
// records call counts and submission order so tests can assert idempotency
// and serialization properties.
package test

import (
	"context"
	"math/big"
	"sync"
	"time"

	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/wallet"
)

// MockClient implements pxe.Client against in-memory state.
type MockClient struct {
	mu sync.Mutex

	instances map[wallet.AztecAddress]*pxe.ContractInstance
	height    uint64
	info      pxe.NodeInfo
	fees      pxe.GasFees

	// Injectable failures; nil means success.
	BlockNumberErr    error
	RegisterSenderErr error
	SendTxErr         error
	WaitErr           error
	SyncErr           error

	// WaitDelay is how long a SentTx takes to settle.
	WaitDelay time.Duration

	sendCalls           int
	registerCalls       map[wallet.AztecAddress]int
	senderCalls         []wallet.AztecAddress
	syncCalls           [][]wallet.AztecAddress
	submissions         []pxe.TxRequest
	submissionStarts    []time.Time
	submissionSettledAt []time.Time
	nextHash            byte
	closed              bool
}

var _ pxe.Client = (*MockClient)(nil)

// NewMockClient returns a mock with a live chain at height 1 and nonzero fee
// quotes.
func NewMockClient() *MockClient {
	return &MockClient{
		instances:     make(map[wallet.AztecAddress]*pxe.ContractInstance),
		height:        1,
		registerCalls: make(map[wallet.AztecAddress]int),
		info: pxe.NodeInfo{
			NodeVersion:     "mock-0.1.0",
			L1ChainID:       31337,
			ProtocolVersion: 1,
		},
		fees: pxe.GasFees{
			FeePerDaGas: big.NewInt(100),
			FeePerL2Gas: big.NewInt(100),
		},
	}
}

// PutInstance preloads an instance, marking its address as already deployed.
func (m *MockClient) PutInstance(inst *pxe.ContractInstance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances[inst.Address] = inst
}

func (m *MockClient) BlockNumber(context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BlockNumberErr != nil {
		return 0, m.BlockNumberErr
	}
	return m.height, nil
}

func (m *MockClient) NodeInfo(context.Context) (*pxe.NodeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info := m.info
	return &info, nil
}

func (m *MockClient) GetContractInstance(_ context.Context, addr wallet.AztecAddress) (*pxe.ContractInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instances[addr], nil
}

func (m *MockClient) RegisterContract(_ context.Context, inst *pxe.ContractInstance, _ *pxe.ContractArtifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerCalls[inst.Address]++
	return nil
}

func (m *MockClient) RegisterSender(_ context.Context, addr wallet.AztecAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.senderCalls = append(m.senderCalls, addr)
	return m.RegisterSenderErr
}

func (m *MockClient) SyncNotes(_ context.Context, addrs []wallet.AztecAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncCalls = append(m.syncCalls, addrs)
	return m.SyncErr
}

func (m *MockClient) CurrentGasFees(context.Context) (*pxe.GasFees, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fees := m.fees
	return &fees, nil
}

func (m *MockClient) SendTx(_ context.Context, req *pxe.TxRequest) (pxe.SentTx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendTxErr != nil {
		return nil, m.SendTxErr
	}

	m.sendCalls++
	m.submissions = append(m.submissions, *req)
	m.submissionStarts = append(m.submissionStarts, time.Now())
	m.nextHash++

	var hash pxe.TxHash
	hash[pxe.TxHashLen-1] = m.nextHash

	idx := len(m.submissionSettledAt)
	m.submissionSettledAt = append(m.submissionSettledAt, time.Time{})

	return &mockTx{client: m, hash: hash, req: *req, idx: idx}, nil
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// SendCalls returns how many transactions were submitted.
func (m *MockClient) SendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendCalls
}

// RegisterCalls returns how often addr was registered as a contract.
func (m *MockClient) RegisterCalls(addr wallet.AztecAddress) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registerCalls[addr]
}

// SenderCalls returns the sender registrations in call order.
func (m *MockClient) SenderCalls() []wallet.AztecAddress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wallet.AztecAddress(nil), m.senderCalls...)
}

// SyncCalls returns the note-sync requests in call order.
func (m *MockClient) SyncCalls() [][]wallet.AztecAddress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]wallet.AztecAddress(nil), m.syncCalls...)
}

// Submissions returns the submitted requests in order.
func (m *MockClient) Submissions() []pxe.TxRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pxe.TxRequest(nil), m.submissions...)
}

// SubmissionTimes returns, per submission, when it was submitted and when it
// settled.
func (m *MockClient) SubmissionTimes() (starts, settles []time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.submissionStarts...),
		append([]time.Time(nil), m.submissionSettledAt...)
}

type mockTx struct {
	client *MockClient
	hash   pxe.TxHash
	req    pxe.TxRequest
	idx    int
}

func (t *mockTx) Hash() pxe.TxHash {
	return t.hash
}

func (t *mockTx) Wait(ctx context.Context, timeout time.Duration) (*pxe.TxReceipt, error) {
	t.client.mu.Lock()
	delay := t.client.WaitDelay
	waitErr := t.client.WaitErr
	t.client.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	t.client.mu.Lock()
	t.client.submissionSettledAt[t.idx] = time.Now()
	if waitErr == nil && t.req.Kind == pxe.TxKindDeployAccount {
		// Settling a deployment materializes the instance on-network.
		t.client.instances[t.req.Contract] = &pxe.ContractInstance{
			Address: t.req.Contract,
			Version: 1,
		}
	}
	t.client.mu.Unlock()

	if waitErr != nil {
		return nil, waitErr
	}
	return &pxe.TxReceipt{TxHash: t.hash, Status: pxe.TxStatusSuccess, BlockNumber: 2}, nil
}
