package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"nereid/pkg/util/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "graph")
	assert.Contains(t, names, "run")
}

func TestRootCommandConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"broker": {"type": "inmemory"}}`), 0644))

	cmd := NewRootCommand()
	require.NoError(t, cmd.PersistentFlags().Set("config", path))
	require.NoError(t, cmd.PersistentPreRunE(cmd, nil))
	assert.Equal(t, "inmemory", config.GetString("broker.type"))
}
