package root_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/charity-mergers/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "charity-mergers", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "register of mergers")
	assert.Contains(t, root.Cmd.Long, "charity identity")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRunE)
	assert.True(t, root.Cmd.SilenceUsage)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	assert.NotPanics(t, root.Init)

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"input", "i", ""},
		{"output", "o", ""},
		{"config", "", ""},
		{"log-level", "", "info"},
		{"log-format", "", "text"},
		{"csv-delimiter", "", ","},
		{"encoding", "", "cp1252"},
		{"rules", "", ""},
		{"ai-enabled", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
			assert.NotEmpty(t, flag.Usage)
		})
	}
}

func TestGetContainer_NotInitialized(t *testing.T) {
	original := root.AppContainer
	defer func() { root.AppContainer = original }()

	root.AppContainer = nil
	c, err := root.GetContainer()
	assert.Nil(t, c)
	assert.EqualError(t, err, "container not initialized")
}

func TestRootCommand_Execute(t *testing.T) {
	root.Init()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	originalConfig := root.ConfigFile
	originalContainer := root.AppContainer
	defer func() {
		root.ConfigFile = originalConfig
		root.AppContainer = originalContainer
	}()

	t.Run("prints help", func(t *testing.T) {
		var out bytes.Buffer
		root.Cmd.SetOut(&out)
		root.Cmd.SetArgs([]string{"--log-level=error"})
		require.NoError(t, root.Cmd.Execute())
		assert.Contains(t, out.String(), "charity-mergers")
		assert.NotNil(t, root.AppContainer)
	})

	t.Run("missing config file", func(t *testing.T) {
		root.Cmd.SetOut(&bytes.Buffer{})
		root.Cmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml")})
		err := root.Cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid config value", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("review:\n  top: 0\n"), 0600))
		root.Cmd.SetOut(&bytes.Buffer{})
		root.Cmd.SetArgs([]string{"--config", path})
		err := root.Cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "review.top must be positive")
	})
}
