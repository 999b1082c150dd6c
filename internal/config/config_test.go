package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20000, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.SampleInterval)
	assert.Empty(t, cfg.Autostart)
	assert.Equal(t, 50, cfg.AutostartUtilization)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("listen", "127.0.0.1:9999")
	v.Set("log_level", "debug")
	v.Set("batch_size", 500)
	v.Set("sample_interval", "250ms")
	v.Set("autostart", "bursty")
	v.Set("autostart_utilization", 25)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, "bursty", cfg.Autostart)
	assert.Equal(t, 25, cfg.AutostartUtilization)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value any
	}{
		{"bad log level", "log_level", "verbose"},
		{"bad listen", "listen", "not a hostport"},
		{"negative batch", "batch_size", -1},
		{"bad autostart", "autostart", "forking"},
		{"utilization above range", "autostart_utilization", 101},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tc.key, tc.value)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
