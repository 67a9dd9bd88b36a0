// SPDX-License-Identifier: Apache-2.0
package client_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"vizard.network/vizard-aztec-bridge/client"
	"vizard.network/vizard-aztec-bridge/session"
	"vizard.network/vizard-aztec-bridge/session/pxe"
	pxetest "vizard.network/vizard-aztec-bridge/session/pxe/test"
	"vizard.network/vizard-aztec-bridge/wallet"
	wtest "vizard.network/vizard-aztec-bridge/wallet/test"
)

const testSignerKey = "8da4ef21b864d2cc526dbdb2a120bd2874c36c9d0a1fb7f8c63d7f7a8b41de8f"

type fixture struct {
	mock *pxetest.MockClient
	vc   *client.VizardClient
}

type noopProver struct{}

func (noopProver) Start(context.Context, session.ProverConfig) error { return nil }

func newFixture(t *testing.T, cfg session.Config) *fixture {
	t.Helper()

	signer, err := wallet.LocalSignerFromHex(testSignerKey)
	require.NoError(t, err)
	mock := pxetest.NewMockClient()

	cfg.PXEURL = "http://localhost:8080"
	sess := session.NewCustomSession(cfg, signer, session.Deps{
		Dial:   func(context.Context, string) (pxe.Client, error) { return mock, nil },
		Prover: noopProver{},
		Guard:  new(session.ProverGuard),
	})

	return &fixture{mock: mock, vc: client.NewVizardClient(sess)}
}

func (f *fixture) connect(t *testing.T) *session.AccountHandle {
	t.Helper()
	handle, err := f.vc.Connect(context.Background())
	require.NoError(t, err)
	return handle
}

func TestConnect_ResolvesFeeMethodOnce(t *testing.T) {
	f := newFixture(t, session.Config{FeeMode: pxe.FeeModeNone})

	addr := wtest.NewRandomAztecAddress(pkgtest.Prng(t))
	f.mock.PutInstance(&pxe.ContractInstance{Address: addr, Version: 1})

	f.connect(t)

	method, err := f.vc.FeePaymentMethod()
	require.NoError(t, err)
	assert.Equal(t, pxe.FeeModeNone, method.Mode)
	assert.True(t, method.Sponsor.IsZero())
}

func TestContractAt_IdempotentRegistration(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.connect(t)

	rng := pkgtest.Prng(t)
	addr := wtest.NewRandomAztecAddress(rng)
	f.mock.PutInstance(&pxe.ContractInstance{Address: addr, Version: 1})

	h1, err := f.vc.ContractAt(context.Background(), addr, true)
	require.NoError(t, err)
	h2, err := f.vc.ContractAt(context.Background(), addr, true)
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, 1, f.mock.RegisterCalls(addr), "second call must not re-register")
}

func TestContractAt_NotFound(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.connect(t)

	addr := wtest.NewRandomAztecAddress(pkgtest.Prng(t))
	_, err := f.vc.ContractAt(context.Background(), addr, true)
	require.ErrorIs(t, err, pxe.ErrContractNotFound)
}

func TestContractAt_NoRegisterSkipsNetworkBinding(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.connect(t)

	addr := wtest.NewRandomAztecAddress(pkgtest.Prng(t))
	f.mock.PutInstance(&pxe.ContractInstance{Address: addr, Version: 1})

	h, err := f.vc.ContractAt(context.Background(), addr, false)
	require.NoError(t, err)
	require.NotNil(t, h.Instance)
	assert.Zero(t, f.mock.RegisterCalls(addr))
}

func TestContractAt_BeforeConnect(t *testing.T) {
	f := newFixture(t, session.Config{})

	addr := wtest.NewRandomAztecAddress(pkgtest.Prng(t))
	_, err := f.vc.ContractAt(context.Background(), addr, true)
	require.ErrorIs(t, err, session.ErrSessionNotConnected)
}

func TestBuildFeeOptions_Padding(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.connect(t)

	// The mock quotes 100 per gas dimension; default padding is 6/5.
	opts, err := f.vc.BuildFeeOptions(context.Background(), client.FeeParams{})
	require.NoError(t, err)
	assert.Zero(t, opts.MaxFeePerDaGas.Cmp(big.NewInt(120)))
	assert.Zero(t, opts.MaxFeePerL2Gas.Cmp(big.NewInt(120)))
	require.NotNil(t, opts.PaymentMethod)

	// Per-call override: 2x.
	opts, err = f.vc.BuildFeeOptions(context.Background(), client.FeeParams{PaddingNum: 2, PaddingDen: 1})
	require.NoError(t, err)
	assert.Zero(t, opts.MaxFeePerDaGas.Cmp(big.NewInt(200)))

	_, err = f.vc.BuildFeeOptions(context.Background(), client.FeeParams{PaddingNum: 1, PaddingDen: 2})
	require.Error(t, err, "padding below 1 must be rejected")
}

func TestSubmit_SerializesConcurrentCalls(t *testing.T) {
	f := newFixture(t, session.Config{})
	handle := f.connect(t)
	f.mock.WaitDelay = 30 * time.Millisecond

	var wg sync.WaitGroup
	submit := func() {
		defer wg.Done()
		_, err := f.vc.Submit(context.Background(), &pxe.TxRequest{
			Kind: pxe.TxKindCall,
			From: handle.Address,
		})
		assert.NoError(t, err)
	}
	wg.Add(2)
	go submit()
	go submit()
	wg.Wait()

	starts, settles := f.mock.SubmissionTimes()
	require.Len(t, starts, 3, "deployment plus two calls")
	// The second call's submission must begin only after the first settled.
	assert.False(t, starts[2].Before(settles[1]),
		"second submission started before the first settled")
}

func TestSubmit_FailureKeepsSessionConnected(t *testing.T) {
	f := newFixture(t, session.Config{})
	handle := f.connect(t)

	f.mock.WaitErr = pxe.ErrConfirmationTimeout
	_, err := f.vc.Submit(context.Background(), &pxe.TxRequest{
		Kind: pxe.TxKindCall,
		From: handle.Address,
	})
	require.ErrorIs(t, err, pxe.ErrConfirmationTimeout)
	assert.Equal(t, session.StatusConnected, f.vc.State().Status,
		"a failed transaction must not corrupt the session")

	f.mock.WaitErr = nil
	_, err = f.vc.Submit(context.Background(), &pxe.TxRequest{
		Kind: pxe.TxKindCall,
		From: handle.Address,
	})
	require.NoError(t, err, "the session stays usable after a failed transaction")
}

func TestDisconnect_ClearsRegistrationCache(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.connect(t)

	addr := wtest.NewRandomAztecAddress(pkgtest.Prng(t))
	f.mock.PutInstance(&pxe.ContractInstance{Address: addr, Version: 1})

	_, err := f.vc.ContractAt(context.Background(), addr, true)
	require.NoError(t, err)

	f.vc.Disconnect()
	f.connect(t)

	_, err = f.vc.ContractAt(context.Background(), addr, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.mock.RegisterCalls(addr), "cache must be cleared on disconnect")
}

func TestSyncPrivateState(t *testing.T) {
	f := newFixture(t, session.Config{})
	f.connect(t)

	addrs := []wallet.AztecAddress{wtest.NewRandomAztecAddress(pkgtest.Prng(t))}
	require.NoError(t, f.vc.SyncPrivateState(context.Background(), addrs))
	require.NoError(t, f.vc.SyncPrivateState(context.Background(), addrs), "resync is safe")
}
