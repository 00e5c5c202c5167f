package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/retailload/internal/config"
	"github.com/vvka-141/retailload/pkg/retailload"
)

const sampleCSV = `Transaction ID,Customer ID,Category,Item,Price Per Unit,Quantity,Total Spent,Payment Method,Location,Transaction Date,Discount Applied
T1,C1,Grocery,I001,2.50,3,7.50,Cash,StoreA,2024-01-15,No
`

var dbEnvVars = []string{config.EnvHost, config.EnvUser, config.EnvPassword, config.EnvPort, config.EnvName}

// execute runs the root command with args in a scratch working directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	loadFlags = defaultLoadFlags()
	require.NoError(t, rootCmd.PersistentFlags().Set("verbose", "false"))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// unsetDBEnv removes the DB_* variables for the duration of the test.
func unsetDBEnv(t *testing.T) {
	t.Helper()
	for _, key := range dbEnvVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// setUnreachableDBEnv points DB_* at a port nothing listens on.
func setUnreachableDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHost, "127.0.0.1")
	t.Setenv(config.EnvUser, "loader")
	t.Setenv(config.EnvPassword, "secret")
	t.Setenv(config.EnvPort, "1")
	t.Setenv(config.EnvName, "retail")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	unsetDBEnv(t)

	stdout, stderr, err := execute(t)
	require.NoError(t, err, "a failed load exits 0 without --exit-code")

	assert.Equal(t, failureMessage+"\n", stdout)
	assert.NotContains(t, stdout, connectedMessage)
	assert.Contains(t, stderr, config.EnvHost)
}

func TestLoad_MissingEnvironment_ExitCode(t *testing.T) {
	chdir(t, t.TempDir())
	unsetDBEnv(t)

	stdout, _, err := execute(t, "load", "--exit-code")
	require.Error(t, err)

	assert.Equal(t, failureMessage+"\n", stdout)
	assert.ErrorIs(t, err, retailload.ErrInvalidConfig)
	assert.Equal(t, retailload.ExitConfigError, retailload.ExitCodeForError(err))
}

func TestLoad_InvalidPort(t *testing.T) {
	chdir(t, t.TempDir())
	setUnreachableDBEnv(t)
	t.Setenv(config.EnvPort, "postgres")

	stdout, stderr, err := execute(t, "--exit-code")
	require.Error(t, err)
	assert.Equal(t, failureMessage+"\n", stdout)
	assert.Contains(t, stderr, config.EnvPort)
	assert.Equal(t, retailload.ExitConfigError, retailload.ExitCodeForError(err))
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	unsetDBEnv(t)
	writeFile(t, dir, retailload.DefaultSourcePath, sampleCSV)
	envFile := writeFile(t, dir, "unreachable.env",
		"DB_HOST=127.0.0.1\nDB_USER=loader\nDB_PASSWORD=secret\nDB_PORT=1\nDB_NAME=retail\n")
	t.Cleanup(func() {
		for _, key := range dbEnvVars {
			os.Unsetenv(key) //nolint:errcheck
		}
	})

	stdout, _, err := execute(t, "--env-file", envFile, "--exit-code")
	require.Error(t, err)

	assert.Contains(t, stdout, connectedMessage, "variables from the env file must satisfy the contract")
	assert.ErrorIs(t, err, retailload.ErrConnectionFailed)
}

func TestLoad_UnreachableDatabase(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	setUnreachableDBEnv(t)
	writeFile(t, dir, retailload.DefaultSourcePath, sampleCSV)

	stdout, stderr, err := execute(t, "load", "--exit-code")
	require.Error(t, err)

	assert.Equal(t, connectedMessage+"\n"+failureMessage+"\n", stdout)
	assert.Contains(t, stderr, "DB_HOST or DB_PORT")
	assert.Equal(t, retailload.ExitConnectionError, retailload.ExitCodeForError(err))
}

func TestLoad_BadDateFailsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	setUnreachableDBEnv(t)
	writeFile(t, dir, "bad.csv", strings.Replace(sampleCSV, "2024-01-15", "15th of January", 1))

	stdout, stderr, err := execute(t, "--csv", "bad.csv", "--exit-code")
	require.Error(t, err)

	// The database is unreachable, so any write attempt would report a connection error.
	assert.ErrorIs(t, err, retailload.ErrCoercion)
	assert.NotErrorIs(t, err, retailload.ErrConnectionFailed)
	assert.Equal(t, connectedMessage+"\n"+failureMessage+"\n", stdout)
	assert.Contains(t, stderr, "trans_date")
	assert.Equal(t, retailload.ExitCoercionError, retailload.ExitCodeForError(err))
}

func TestLoad_MissingCSV(t *testing.T) {
	chdir(t, t.TempDir())
	setUnreachableDBEnv(t)

	stdout, _, err := execute(t, "--exit-code")
	require.Error(t, err)
	assert.Contains(t, stdout, failureMessage)
	assert.Equal(t, retailload.ExitSourceError, retailload.ExitCodeForError(err))
}

func TestLoad_InvalidMethod(t *testing.T) {
	chdir(t, t.TempDir())
	setUnreachableDBEnv(t)

	stdout, _, err := execute(t, "--method", "upsert", "--exit-code")
	require.Error(t, err)
	assert.Equal(t, failureMessage+"\n", stdout)
	assert.ErrorIs(t, err, retailload.ErrInvalidConfig)
}

func TestLoad_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"unexpected argument", []string{"load", "extra"}},
		{"bad chunk size", []string{"--chunk-size", "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, retailload.ExitUsageError, retailload.ExitCodeForError(err), "error: %v", err)
		})
	}
}

func TestLoadFlagValues_LoadConfig(t *testing.T) {
	flags := defaultLoadFlags()
	cfg, err := flags.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, retailload.DefaultLoadConfig(), cfg)

	flags.method = "INSERT"
	flags.chunkSize = 100
	flags.schema = "retail"
	flags.atomic = true
	cfg, err = flags.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, retailload.InsertMethodInsert, cfg.Method)
	assert.Equal(t, 100, cfg.ChunkSize)
	assert.Equal(t, "retail", cfg.Schema)
	assert.True(t, cfg.Atomic)

	flags.chunkSize = -1
	_, err = flags.loadConfig()
	assert.ErrorIs(t, err, retailload.ErrInvalidConfig)
}

func TestReportedError(t *testing.T) {
	err := &reportedError{err: retailload.ErrAppend}
	assert.ErrorIs(t, err, retailload.ErrAppend)
	assert.Equal(t, retailload.ErrAppend.Error(), err.Error())
	assert.Equal(t, retailload.ExitAppendError, retailload.ExitCodeForError(err))
}
