package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersCommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "migrate", "import"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		if sub.Name() != name {
			t.Fatalf("command: want=%s got=%s", name, sub.Name())
		}
	}
}

func TestImportRejectsUnknownEntity(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"import", "--entity", "towers", "--file", "x.csv", "--env-file", ""})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "towers")
}

func TestImportRequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"import"})
	require.Error(t, cmd.Execute())
}
