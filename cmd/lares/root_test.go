package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"tag-rules", "list-tags", "dry-run", "host", "copy", "no-color"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCommandRequiresManifest(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{})
	require.Error(t, err)

	err = rootCmd.Args(rootCmd, []string{"manifest.yml"})
	assert.NoError(t, err)
}

func TestVersionCommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version", cmd.Name())
}
