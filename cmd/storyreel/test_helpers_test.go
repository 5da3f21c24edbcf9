package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"

	"storyreel/internal/config"
	"storyreel/internal/testsupport"
)

// cliTestEnv is an isolated HOME plus a config file whose working
// directories live under baseDir.
type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	env := &cliTestEnv{cfg: cfg, baseDir: testsupport.BaseDir(cfg)}
	env.configPath = filepath.Join(env.baseDir, "config.toml")

	home := filepath.Join(env.baseDir, "home")
	require.NoError(t, os.MkdirAll(home, 0o755))
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv(config.EnvConfigPath, "")

	env.writeConfig(t)
	return env
}

// writeConfig persists env.cfg; call it again after mutating the config.
func (e *cliTestEnv) writeConfig(t *testing.T) {
	t.Helper()
	data, err := toml.Marshal(e.cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.configPath, data, 0o644))
}

// runCLI executes the root command and returns what it wrote to stdout and
// stderr.
func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	require.Contains(t, output, substr)
}
