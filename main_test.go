package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseOnlyOnLookup(t *testing.T) {
	// The TUI draws on the same terminal stderr goes to.
	assert.Nil(t, rootCmd.Flags().Lookup("verbose"))
	assert.NotNil(t, lookupCmd.Flags().Lookup("verbose"))
}

func TestSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"sizes", "lookup", "convert", "debug", "version"} {
		assert.Contains(t, names, want)
	}
}
