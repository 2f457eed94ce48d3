package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "softskill-server version: unknown\n", out)
}

func TestBank_Default(t *testing.T) {
	out, err := run(t, "bank")
	require.NoError(t, err)
	assert.Contains(t, out, "symbols: 8\nquestions: 5\n")
	assert.Contains(t, out, "Teamwork: 2")
}

func TestBank_InvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(file, []byte("symbols: [a]\nquestions: []\n"), 0o644))
	_, err := run(t, "bank", file)
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := run(t, "migrate", "--database-url", filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
}

func TestServeFlags_AcceptedWithoutSubcommand(t *testing.T) {
	for _, name := range []string{"port", "quiz-bank-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
		assert.NotNil(t, serveCmd.InheritedFlags().Lookup(name), name)
	}

	t.Cleanup(func() { rootCmd.PersistentFlags().Set("port", "0") })
	_, err := run(t, "version", "--port", "9000")
	require.NoError(t, err)
	assert.Equal(t, 9000, viper.GetInt("port"))
}
