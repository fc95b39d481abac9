package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boilerrat/grant-attestoor/canonical"
	"github.com/boilerrat/grant-attestoor/compliance"
	"github.com/boilerrat/grant-attestoor/fingerprint"
)

func TestParseEnvDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, ParseEnv(&cfg, map[string]string{}))
	assert.Equal(t, Config{
		LogLevel:   "info",
		LogFormat:  "console",
		HashAlg:    "keccak256",
		Encoding:   "json",
		Compliance: "permissive",
	}, cfg)
}

func TestParseEnvError(t *testing.T) {
	var cfg struct {
		Port int `env:"GRANT_TEST_PORT"`
	}
	err := ParseEnv(&cfg, map[string]string{"GRANT_TEST_PORT": "not-an-int"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadReadsEnvFileAndProcessWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grant.env")
	content := "GRANT_HASH_ALG=sha3-256\nGRANT_ENCODING=cbor\nGRANT_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("GRANT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sha3-256", cfg.HashAlg)
	assert.Equal(t, "cbor", cfg.Encoding)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingNamedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestFormOptions(t *testing.T) {
	cfg := Config{HashAlg: "sha256", Encoding: "cbor", Compliance: "Strict"}
	opts, err := cfg.FormOptions(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, fingerprint.AlgSHA256, opts.Algorithm)
	assert.Equal(t, canonical.CBOR, opts.Encoding)
	assert.Equal(t, compliance.Strict, opts.Mode)
	assert.NotNil(t, opts.Logger)

	for _, bad := range []Config{
		{HashAlg: "md5"},
		{Encoding: "xml"},
		{Compliance: "lenient"},
	} {
		_, err := bad.FormOptions(nil)
		assert.Error(t, err, "%+v", bad)
	}
}
