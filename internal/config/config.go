package config

import (
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the startup-time configuration of the generator daemon, loaded
// from flags, config file and environment via viper. Defaults fill unset
// fields; validation rejects malformed values before anything starts.
type Config struct {
	Listen string `mapstructure:"listen" default:"0.0.0.0:8080" validate:"required,hostname_port"`

	LogLevel string `mapstructure:"log_level" default:"info" validate:"oneof=trace debug info warn error"`
	LogJSON  bool   `mapstructure:"log_json"`

	// BatchSize is the candidates tested per workload unit.
	BatchSize int `mapstructure:"batch_size" default:"20000" validate:"gt=0"`

	// SampleInterval is the throughput sampler period.
	SampleInterval time.Duration `mapstructure:"sample_interval" default:"1s" validate:"gt=0"`

	// Autostart begins generating load in the given mode at boot.
	Autostart            string `mapstructure:"autostart" validate:"omitempty,oneof=threaded process bursty"`
	AutostartUtilization int    `mapstructure:"autostart_utilization" default:"50" validate:"gte=0,lte=100"`
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "apply config defaults")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return cfg, nil
}
