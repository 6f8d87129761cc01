package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidquiz/vidquiz-api/internal/config"
)

func TestSetupReturnsLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "error level", level: "error"},
		{name: "mixed case", level: "INFO"},
		{name: "invalid level falls back to info", level: "chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{Port: 3000, LogLevel: tt.level})
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestSetupWithLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "server.log")

	logger, err := Setup(config.ServerConfig{
		Port:     3000,
		LogLevel: "info",
		LogFile:  logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	// The rotated file is created lazily on first write.
	logger.Info("logging to file", "path", logFile)
	assert.FileExists(t, logFile)
}
