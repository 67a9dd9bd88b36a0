// SPDX-License-Identifier: Apache-2.0
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/utils"
	"vizard.network/vizard-aztec-bridge/wallet"
)

// DialFunc connects a PXE client to an endpoint.
type DialFunc func(ctx context.Context, url string) (pxe.Client, error)

// Deps are the session's injectable collaborators. Zero-value fields fall
// back to the production implementations.
type Deps struct {
	Dial   DialFunc
	Prover ProverBackend
	Guard  *ProverGuard
}

// Session owns one connection lifecycle: one derived key set, one PXE
// client, one account handle. It is not shared across signers; a new signer
// means a new session.
type Session struct {
	log.Embedding

	cfg    Config
	signer wallet.EVMSigner
	dial   DialFunc
	prover ProverBackend
	guard  *ProverGuard

	connectMutex sync.Mutex // serializes Connect attempts

	mutex     sync.Mutex // guards the fields below
	hub       *StateHub
	client    pxe.Client
	nodeInfo  *pxe.NodeInfo
	source    common.Address
	handle    *AccountHandle
	feeMethod *pxe.FeePaymentMethod
}

// NewSession creates a session with production collaborators.
func NewSession(cfg Config, signer wallet.EVMSigner) *Session {
	return NewCustomSession(cfg, signer, Deps{})
}

// NewCustomSession creates a session with explicit collaborators; tests use
// it to inject mocks.
func NewCustomSession(cfg Config, signer wallet.EVMSigner, deps Deps) *Session {
	if deps.Dial == nil {
		deps.Dial = func(ctx context.Context, url string) (pxe.Client, error) {
			return pxe.Connect(ctx, url)
		}
	}
	if deps.Prover == nil {
		deps.Prover = NewNativeProver()
	}
	if deps.Guard == nil {
		deps.Guard = DefaultProverGuard()
	}

	return &Session{
		Embedding: log.MakeEmbedding(log.Default()),
		cfg:       cfg.WithDefaults(),
		signer:    signer,
		dial:      deps.Dial,
		prover:    deps.Prover,
		guard:     deps.Guard,
		hub:       NewStateHub(),
	}
}

// Subscribe registers a connection state observer; the current state is
// delivered immediately. The returned function unsubscribes.
func (s *Session) Subscribe(fn func(ConnectionState)) func() {
	return s.hub.Subscribe(fn)
}

// State returns the current connection state.
func (s *Session) State() ConnectionState {
	return s.hub.Current()
}

// Handle returns the account handle, or nil before Connect completed.
func (s *Session) Handle() *AccountHandle {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.handle
}

// Client returns the connected PXE client or an error before connection.
func (s *Session) Client() (pxe.Client, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.client == nil {
		return nil, ErrSessionNotConnected
	}
	return s.client, nil
}

// EVMAddress returns the source address the session's keys derive from.
func (s *Session) EVMAddress() (common.Address, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.handle == nil {
		return common.Address{}, ErrSessionNotConnected
	}
	return s.source, nil
}

// AztecAddress returns the account's on-network address.
func (s *Session) AztecAddress() (wallet.AztecAddress, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.handle == nil {
		return wallet.AztecAddress{}, ErrSessionNotConnected
	}
	return s.handle.Address, nil
}

// NodeInfo returns the connected network's description.
func (s *Session) NodeInfo() (*pxe.NodeInfo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.nodeInfo == nil {
		return nil, ErrSessionNotConnected
	}
	return s.nodeInfo, nil
}

// FeePaymentMethod returns the resolved method, or nil while unresolved.
func (s *Session) FeePaymentMethod() *pxe.FeePaymentMethod {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.feeMethod
}

// Config returns the session's effective configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Connect drives the full connection lifecycle and returns the ready account
// handle. Reconnecting an already connected session is a no-op returning the
// cached handle: no second signature request, no second deployment. On
// failure the session ends up disconnected and the error is returned.
func (s *Session) Connect(ctx context.Context) (*AccountHandle, error) {
	s.connectMutex.Lock()
	defer s.connectMutex.Unlock()

	if h := s.Handle(); h != nil {
		return h, nil
	}

	handle, err := s.runConnect(ctx)
	if err != nil {
		s.teardown()
		s.setState(StatusDisconnected, "connection failed: %v", err)
		return nil, err
	}

	s.setState(StatusConnected, "account %s ready", handle.Address)
	return handle, nil
}

// Disconnect tears the session down and zeroizes the derived key material.
func (s *Session) Disconnect() {
	s.connectMutex.Lock()
	defer s.connectMutex.Unlock()

	s.teardown()
	s.setState(StatusDisconnected, "disconnected")
}

func (s *Session) runConnect(ctx context.Context) (*AccountHandle, error) {
	if s.signer == nil {
		return nil, wallet.ErrSignerUnavailable
	}

	s.setState(StatusConnecting, "requesting EVM accounts")
	accounts, err := s.signer.RequestAccounts(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "requesting accounts")
	}
	if len(accounts) == 0 {
		return nil, wallet.ErrNoAccounts
	}
	source := accounts[0]

	s.setState(StatusDerivingKeys, "deriving Aztec keys for %s", source.Hex())
	ks, err := wallet.DeriveKeys(ctx, s.signer, source)
	if err != nil {
		return nil, err
	}

	s.setState(StatusInitializingPXE, "connecting to PXE at %s", s.cfg.PXEURL)
	client, err := s.dial(ctx, s.cfg.PXEURL)
	if err != nil {
		return nil, err
	}
	s.mutex.Lock()
	s.client = client
	s.source = source
	s.mutex.Unlock()

	info, err := client.NodeInfo(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "querying node info")
	}
	s.mutex.Lock()
	s.nodeInfo = info
	s.mutex.Unlock()
	s.Log().Infof("PXE attached to %s (L1 chain %d, rollup %s)",
		info.NodeVersion, info.L1ChainID, info.L1Contracts.Rollup.Hex())

	if err := s.guard.Init(ctx, s.prover, s.proverPolicy()); err != nil {
		return nil, err
	}

	s.setState(StatusRegistering, "setting up account")
	handle, err := s.setupAccount(ctx, ks, client)
	if err != nil {
		return nil, err
	}

	// Best effort: without sender registration the PXE cannot discover notes
	// addressed to the account, but the connection itself is fine.
	if err := client.RegisterSender(ctx, handle.Address); err != nil {
		s.Log().Warnf("sender registration failed, private state visibility degraded: %v", err)
	}

	if s.cfg.AutoSync {
		s.setState(StatusSyncing, "syncing private state")
		if err := client.SyncNotes(ctx, []wallet.AztecAddress{handle.Address}); err != nil {
			return nil, errors.WithMessage(err, "syncing private state")
		}
	}

	s.mutex.Lock()
	s.handle = handle
	s.mutex.Unlock()
	return handle, nil
}

// setupAccount computes the deterministic address and deploys the account
// unless an instance already exists there. The presence of a contract
// instance at the address is the canonical readiness signal.
func (s *Session) setupAccount(ctx context.Context, ks *wallet.DerivedKeySet, client pxe.Client) (*AccountHandle, error) {
	addr := ks.ComputeAddress()
	handle := &AccountHandle{
		Address: addr,
		Keys:    ks,
		Wallet:  wallet.NewSessionWallet(ks),
	}

	existing, err := client.GetContractInstance(ctx, addr)
	if err != nil {
		return nil, errors.WithMessage(err, "checking account instance")
	}
	if existing != nil {
		s.Log().Infof("account %s already deployed, reusing", utils.ShortHex(addr.String(), 8))
		handle.Instance = existing
		return handle, nil
	}

	fee, err := s.ResolveFeeMethod(ctx)
	if err != nil {
		return nil, err
	}

	inst := accountInstance(ks)
	if err := client.RegisterContract(ctx, inst, AccountContractArtifact); err != nil {
		return nil, errors.WithMessage(err, "registering account contract")
	}

	tx, err := client.SendTx(ctx, &pxe.TxRequest{
		Kind:     pxe.TxKindDeployAccount,
		From:     wallet.ZeroAztecAddress,
		Contract: addr,
		Fee:      &pxe.FeeOptions{PaymentMethod: fee},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "submitting account deployment")
	}
	s.Log().Infof("deployment tx %s submitted, awaiting confirmation",
		utils.ShortHex(tx.Hash().String(), 8))

	if _, err := tx.Wait(ctx, s.cfg.TxWaitTimeout); err != nil {
		if errors.Is(err, pxe.ErrConfirmationTimeout) {
			return nil, errors.WithMessagef(ErrDeploymentTimeout, "tx %s", tx.Hash())
		}
		return nil, errors.WithMessage(err, "awaiting account deployment")
	}

	handle.Instance = inst
	handle.Deployed = true
	return handle, nil
}

// ResolveFeeMethod resolves the configured fee policy into a concrete
// payment method, once per session. For the sponsored mode the well-known
// sponsor contract is verified and registered; verification failures degrade
// to a warning, never to a connection error.
func (s *Session) ResolveFeeMethod(ctx context.Context) (*pxe.FeePaymentMethod, error) {
	s.mutex.Lock()
	if s.feeMethod != nil {
		method := s.feeMethod
		s.mutex.Unlock()
		return method, nil
	}
	client := s.client
	s.mutex.Unlock()

	if client == nil {
		return nil, ErrSessionNotConnected
	}

	method := &pxe.FeePaymentMethod{Mode: s.cfg.FeeMode}
	if s.cfg.FeeMode == pxe.FeeModeSponsored {
		sponsor := s.cfg.FeeSponsorAddress
		if sponsor.IsZero() {
			sponsor = DefaultFeeSponsorAddress
		}
		method.Sponsor = sponsor

		inst, err := client.GetContractInstance(ctx, sponsor)
		switch {
		case err != nil || inst == nil:
			s.Log().Warnf("fee sponsor %s not verified on-network: %v", sponsor, err)
		default:
			if err := client.RegisterContract(ctx, inst, FeeSponsorArtifact); err != nil {
				s.Log().Warnf("registering fee sponsor %s failed: %v", sponsor, err)
			}
		}
	}

	s.mutex.Lock()
	s.feeMethod = method
	s.mutex.Unlock()
	return method, nil
}

func (s *Session) proverPolicy() ProverRetryPolicy {
	primary := ProverConfig{
		Kind:        s.cfg.ProverKind,
		Threads:     s.cfg.ProverThreads,
		Path:        s.cfg.ProverPath,
		LogsEnabled: s.cfg.ProverLogs,
	}
	fallback := primary
	fallback.Kind = ProverKindSingleThreaded
	fallback.Threads = 1
	return ProverRetryPolicy{Primary: primary, Fallback: fallback}
}

func (s *Session) teardown() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.handle != nil {
		s.handle.Wallet.LockAll()
		s.handle.Keys.Clear()
		s.handle = nil
	}
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	s.nodeInfo = nil
	s.feeMethod = nil
	s.source = common.Address{}
}

func (s *Session) setState(status Status, format string, args ...interface{}) {
	state := ConnectionState{Status: status, Message: fmt.Sprintf(format, args...)}
	s.Log().Debugf("state -> %s: %s", state.Status, state.Message)
	s.hub.set(state)
}
