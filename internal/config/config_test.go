package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := New()
	cfg.InputPath = "records.json"
	cfg.OutputPath = "out.nc"
	return cfg
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.SquashForecasts)
	assert.False(t, cfg.MissingBottomLevel)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg := New()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing input", func(t *testing.T) {
		cfg := validConfig()
		cfg.InputPath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing output", func(t *testing.T) {
		cfg := validConfig()
		cfg.OutputPath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("variable in both level lists", func(t *testing.T) {
		cfg := validConfig()
		cfg.MomentumVars = []string{"UU", "VV"}
		cfg.ThermodynamicVars = []string{"TT", "UU"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UU")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.LogLevel = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log format", func(t *testing.T) {
		cfg := validConfig()
		cfg.LogFormat = "xml"
		assert.Error(t, cfg.Validate())
	})
}

func TestSplitVarList(t *testing.T) {
	t.Run("comma separated", func(t *testing.T) {
		assert.Equal(t, []string{"TT", "HU", "UU"}, SplitVarList("TT,HU,UU"))
	})

	t.Run("whitespace separated", func(t *testing.T) {
		assert.Equal(t, []string{"TT", "HU"}, SplitVarList("TT  HU"))
	})

	t.Run("mixed with empty entries", func(t *testing.T) {
		assert.Equal(t, []string{"TT", "HU"}, SplitVarList(" TT,, HU, "))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, SplitVarList(""))
	})
}
