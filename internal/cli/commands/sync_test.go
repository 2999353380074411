package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCommandUsage(t *testing.T) {
	cmd := NewSyncCommand()

	assert.Equal(t, "sync", cmd.Name())
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)

	for flag, def := range map[string]string{
		"objects":       "[]",
		"jwt-client-id": "",
		"jwt-username":  "",
		"jwt-login-url": "https://login.salesforce.com",
		"jwt-key-file":  "",
	} {
		f := cmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
}

func TestResolveSessionJWTNeedsKeyFile(t *testing.T) {
	syncJWTClientID = "3MVG9client"
	syncJWTKeyFile = ""
	defer func() { syncJWTClientID = "" }()

	_, err := resolveSession(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--jwt-key-file")
}

func TestResolveSessionJWTMissingKeyFile(t *testing.T) {
	syncJWTClientID = "3MVG9client"
	syncJWTKeyFile = filepath.Join(t.TempDir(), "absent.key")
	defer func() {
		syncJWTClientID = ""
		syncJWTKeyFile = ""
	}()

	_, err := resolveSession(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read jwt key file")
}

func TestResolveSessionFromEnv(t *testing.T) {
	syncJWTClientID = ""
	syncJWTKeyFile = ""
	t.Setenv("SF_INSTANCE_URL", "https://env.my.salesforce.com")
	t.Setenv("SF_ACCESS_TOKEN", "00Dtoken")

	session, err := resolveSession(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://env.my.salesforce.com", session.InstanceURL)
	assert.Equal(t, "00Dtoken", session.AccessToken)
}

func TestResolveSessionInvalidKey(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "bad.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("not a pem key"), 0o600))

	syncJWTClientID = "3MVG9client"
	syncJWTUsername = "ci@example.com"
	syncJWTKeyFile = keyFile
	defer func() {
		syncJWTClientID = ""
		syncJWTUsername = ""
		syncJWTKeyFile = ""
	}()

	_, err := resolveSession(context.Background(), "")
	require.Error(t, err)
}
