package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Buttje/aicheckin/internal/exitcode"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, Execute(context.Background()))

	assert.Contains(t, out.String(), "aicheckin")
	assert.Contains(t, out.String(), Version)
}

func TestUnknownFlagMapsToUsageFailure(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--frobnicate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := Execute(context.Background())

	require.Error(t, err)
	assert.Equal(t, exitcode.UsageFailure, exitcode.FromError(err))
}

func TestInvalidVCSFlagValue(t *testing.T) {
	forcedVCS = "hg"
	t.Cleanup(func() { forcedVCS = "" })

	_, err := detectRepository()

	require.Error(t, err)
	assert.Equal(t, exitcode.UsageFailure, exitcode.FromError(err))
}
