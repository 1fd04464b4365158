package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torchlight-games/chronicler/internal/config"
	"github.com/torchlight-games/chronicler/internal/observability"
)

// TestNewLogger verifies both formats build at every supported level.
func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			logger, err := observability.NewLogger(config.LoggingConfig{Level: level, Format: format})
			require.NoError(t, err, "format=%s level=%s", format, level)
			assert.NotNil(t, logger)
		}
	}
}

// TestNewLogger_Invalid verifies unknown levels and formats are rejected.
func TestNewLogger_Invalid(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = observability.NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
