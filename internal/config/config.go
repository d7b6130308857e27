package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	ColorMode string `mapstructure:"color_mode"`
	Workers   int    `mapstructure:"workers"`
	QueueSize int    `mapstructure:"queue_size"`
	OutputDir string `mapstructure:"output_dir"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

func Default() *Config {
	return &Config{
		ColorMode: "NATIVE",
		Workers:   4,
		QueueSize: 16,
		OutputDir: "out",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads cfgFile, or dxcam.yaml from the working directory when empty.
// DXCAM_* environment variables override file values.
func Load(cfgFile string) (*Config, error) {
	return load(viper.New(), cfgFile)
}

func load(v *viper.Viper, cfgFile string) (*Config, error) {
	cfg := Default()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("dxcam")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DXCAM")
	v.AutomaticEnv()

	// AutomaticEnv only overrides keys viper already knows about.
	v.SetDefault("color_mode", cfg.ColorMode)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("queue_size", cfg.QueueSize)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
