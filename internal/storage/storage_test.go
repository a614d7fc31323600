package storage

import (
	"testing"

	"care-daily/internal/config"

	"github.com/stretchr/testify/require"
)

func TestOpenDefaultsToLocal(t *testing.T) {
	t.Parallel()

	st, err := Open(testConfig(t.TempDir()))
	require.NoError(t, err)
	require.Equal(t, LocalMode, st.Mode())
	require.NotNil(t, st.Backups())
}

func TestOpenSelectsRemoteWhenFullyConfigured(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	cfg.Remote = config.RemoteConfig{DSN: "db.example.com:3306/caredaily", AccessKey: "svc:secret", TimeoutSeconds: 5}

	// Dialing is lazy, so selecting the remote backend needs no server.
	st, err := Open(cfg)
	require.NoError(t, err)
	require.Equal(t, RemoteMode, st.Mode())
	require.Nil(t, st.Backups())
}

func TestOpenHalfConfiguredRemoteFallsBackToLocal(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	cfg.Remote.DSN = "db.example.com:3306/caredaily"

	st, err := Open(cfg)
	require.NoError(t, err)
	require.Equal(t, LocalMode, st.Mode())
}

func TestModeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "local", LocalMode.String())
	require.Equal(t, "remote", RemoteMode.String())
}
