package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Equal(t, 9820, c.Server.Port)
	require.Equal(t, "data", c.Storage.Dir)
	require.Equal(t, 30, c.Storage.Backups.Retain)
	require.Equal(t, 24*time.Hour, c.Storage.Backups.MinInterval())
	require.Equal(t, 0.5, c.Storage.Integrity.MaxInvalidFraction)
	require.Equal(t, 10*time.Second, c.Remote.Timeout())
	require.False(t, c.Remote.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8088
storage:
  dir: /var/lib/care-daily
  backups:
    retain: 7
remote:
  dsn: db.example.com:3306/caredaily
  access_key: svc:secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c := Load(path)
	require.Equal(t, 8088, c.Server.Port)
	require.Equal(t, "/var/lib/care-daily", c.Storage.Dir)
	require.Equal(t, 7, c.Storage.Backups.Retain)
	require.True(t, c.Remote.Enabled())
	require.False(t, c.Remote.PartiallyConfigured())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/override")
	t.Setenv("PORT", "7001")
	t.Setenv("REMOTE_DB_DSN", "other:3306/db")

	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Equal(t, "/tmp/override", c.Storage.Dir)
	require.Equal(t, 7001, c.Server.Port)
	require.Equal(t, "other:3306/db", c.Remote.DSN)
	require.True(t, c.Remote.PartiallyConfigured())
}

func TestRemoteConfigSplit(t *testing.T) {
	r := RemoteConfig{DSN: "db.example.com:3306/caredaily", AccessKey: "svc:s3cr3t"}
	addr, dbname, user, pass, err := r.Split()
	require.NoError(t, err)
	require.Equal(t, "db.example.com:3306", addr)
	require.Equal(t, "caredaily", dbname)
	require.Equal(t, "svc", user)
	require.Equal(t, "s3cr3t", pass)

	_, _, _, _, err = RemoteConfig{DSN: "nodb", AccessKey: "a:b"}.Split()
	require.Error(t, err)

	_, _, _, _, err = RemoteConfig{DSN: "h:1/db", AccessKey: "nopassword"}.Split()
	require.Error(t, err)
}
