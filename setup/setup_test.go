// SPDX-License-Identifier: Apache-2.0
package setup_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizard.network/vizard-aztec-bridge/setup"
)

func TestSandboxLifecycle(t *testing.T) {
	if os.Getenv("VIZARD_SANDBOX_TEST") == "" {
		t.Skip("set VIZARD_SANDBOX_TEST=1 to run sandbox integration tests")
	}

	sandbox := setup.NewSandbox(setup.DefaultSandboxConfig)

	err := sandbox.Start()
	require.NoError(t, err, "starting the sandbox")
	assert.NotNil(t, sandbox.Cmd)

	err = sandbox.Stop()
	assert.NoError(t, err, "stopping the sandbox")
}
