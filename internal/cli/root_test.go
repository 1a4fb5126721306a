package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "stratum", cmd.Use)
	assert.Contains(t, cmd.Long, "tuple domains")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"parse-type", "translate", "render", "scan"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestScanCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	scanCmd, _, err := cmd.Find([]string{"scan"})
	require.NoError(t, err)

	for _, name := range []string{"db", "schema", "table"} {
		flag := scanCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag %s should exist", name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestTranslateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	translateCmd, _, err := cmd.Find([]string{"translate"})
	require.NoError(t, err)

	require.NotNil(t, translateCmd.Flags().Lookup("schema"))
	require.NotNil(t, translateCmd.Flags().Lookup("table"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "parse-type", "bigint"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "boom", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
