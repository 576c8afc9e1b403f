package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	host := mcpServeCmd.Flags().Lookup("host")
	require.NotNil(t, host)
	assert.Equal(t, "localhost", host.DefValue)
}

func TestMCPServeCmd_PortOutOfRange(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetArgs([]string{"mcp", "serve", "--port", "70000"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "out of range")
}
