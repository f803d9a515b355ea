package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_Canonicalize(t *testing.T) {
	out, err := runCLI(t, "canonicalize", "C(C)O")
	require.NoError(t, err)
	assert.Equal(t, "C(C)O", strings.TrimSpace(out))
}

func TestCLI_Parse(t *testing.T) {
	out, err := runCLI(t, "parse", "c1ccccc1")
	require.NoError(t, err)
	assert.Contains(t, out, "c1ccccc1")
	assert.Contains(t, out, "C6H6")
}

func TestCLI_ParseJSON(t *testing.T) {
	out, err := runCLI(t, "--json", "parse", "CCO")
	require.NoError(t, err)
	assert.Contains(t, out, `"formula": "C2H6O"`)
}

func TestCLI_Kekulize(t *testing.T) {
	out, err := runCLI(t, "kekulize", "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, "C1=CC=CC=C1", strings.TrimSpace(out))
}

func TestCLI_Similarity(t *testing.T) {
	out, err := runCLI(t, "similarity", "CCO", "CCO")
	require.NoError(t, err)
	assert.Equal(t, "1.0000", strings.TrimSpace(out))
}

func TestCLI_InvalidSMILESFails(t *testing.T) {
	_, err := runCLI(t, "parse", "CC.CC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMI_007")
}

func TestCLI_UnknownCommand(t *testing.T) {
	_, err := runCLI(t, "frobnicate")
	assert.Error(t, err)
}
