package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushub_back/pkg/chain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, chain.KindEVM, cfg.Chain.Kind)
	assert.Equal(t, chain.Sepolia, cfg.Chain.ID)
	assert.Equal(t, "mock", cfg.Tx.Mode)
	assert.Equal(t, 900*time.Millisecond, cfg.Tx.SignDelay)
	assert.Equal(t, 3200*time.Millisecond, cfg.Notify.Duration)
	assert.Equal(t, 10*time.Minute, cfg.Price.TTL)
	assert.Equal(t, 30*time.Second, cfg.Balance.TTL)
	assert.False(t, cfg.DB.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
chain:
  kind: TRON
  id: 728126428
  poll_interval: 2s
http:
  origins: ["https://nexushub.app"]
db:
  enabled: true
  dbname: hub
`)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("TRON_PRO_API_KEY", "tron-key")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, chain.KindTron, cfg.Chain.Kind)
	assert.Equal(t, chain.TronMainnet, cfg.Chain.ID)
	assert.Equal(t, 2*time.Second, cfg.Chain.PollInterval)
	assert.Equal(t, []string{"https://nexushub.app"}, cfg.HTTP.Origins)
	assert.Equal(t, "hub", cfg.DB.DBName)
	assert.Equal(t, "secret", cfg.DB.Password)
	assert.Equal(t, "tron-key", cfg.Chain.TronAPIKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "chain:\n  kind: solana\n"))
	assert.ErrorIs(t, err, chain.ErrUnsupportedChain)

	t.Setenv("SIGNER_PRIVATE_KEY", "")
	_, err = Load(writeConfig(t, "tx:\n  mode: evm\n"))
	assert.ErrorContains(t, err, "SIGNER_PRIVATE_KEY")

	_, err = Load(writeConfig(t, "tx:\n  mode: evm\nchain:\n  kind: tron\n"))
	assert.ErrorContains(t, err, "chain.kind evm")

	t.Setenv("MAILJET_API_KEY", "")
	_, err = Load(writeConfig(t, "mail:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "MAILJET")
}
