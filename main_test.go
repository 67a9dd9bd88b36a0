// SPDX-License-Identifier: Apache-2.0

package main_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizard.network/vizard-aztec-bridge/client"
	"vizard.network/vizard-aztec-bridge/session"
	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/setup"
	"vizard.network/vizard-aztec-bridge/wallet"
)

const sandboxSignerKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

// TestSandboxConnect runs the full lifecycle against a local Aztec sandbox:
// derive keys, deploy the account, reconnect and reuse it. It needs the aztec
// CLI installed and is skipped unless VIZARD_SANDBOX_TEST is set.
func TestSandboxConnect(t *testing.T) {
	if os.Getenv("VIZARD_SANDBOX_TEST") == "" {
		t.Skip("set VIZARD_SANDBOX_TEST=1 to run sandbox integration tests")
	}

	sandbox := setup.NewSandbox(setup.DefaultSandboxConfig)
	require.NoError(t, sandbox.Start(), "starting the sandbox")
	defer func() {
		require.NoError(t, sandbox.Stop(), "stopping the sandbox")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	signer, err := wallet.LocalSignerFromHex(sandboxSignerKey)
	require.NoError(t, err)

	cfg := session.Config{
		PXEURL:   sandbox.URL(),
		FeeMode:  pxe.FeeModeSponsored,
		AutoSync: true,
	}

	vc := client.NewVizardClient(session.NewSession(cfg, signer))
	handle, err := vc.Connect(ctx)
	require.NoError(t, err, "connecting to the sandbox")
	assert.True(t, handle.Deployed, "first connect should deploy the account")
	assert.Equal(t, session.StatusConnected, vc.State().Status)

	block, err := mustPXE(t, vc).BlockNumber(ctx)
	require.NoError(t, err)
	assert.NotZero(t, block)

	vc.Disconnect()
	assert.Equal(t, session.StatusDisconnected, vc.State().Status)

	// The same signer lands on the same account and must not redeploy.
	vc2 := client.NewVizardClient(session.NewSession(cfg, signer))
	handle2, err := vc2.Connect(ctx)
	require.NoError(t, err, "reconnecting to the sandbox")
	assert.Equal(t, handle.Address, handle2.Address)
	assert.False(t, handle2.Deployed, "second connect should reuse the account")
	vc2.Disconnect()
}

func mustPXE(t *testing.T, vc *client.VizardClient) pxe.Client {
	t.Helper()
	c, err := vc.PXE()
	require.NoError(t, err)
	return c
}
