package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Kitchen KitchenConfig
	Log     LogConfig
}

type ServerConfig struct {
	Addr string
}

type KitchenConfig struct {
	CookDuration time.Duration
	PollInterval time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() (*Config, error) {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("kitchen.cook_duration_ms", 10000)
	viper.SetDefault("kitchen.poll_interval_ms", 100)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.max_size", 10)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 7)
	viper.SetDefault("log.compress", false)

	// A missing config file is fine; defaults cover every key.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
		Kitchen: KitchenConfig{
			CookDuration: time.Duration(viper.GetInt("kitchen.cook_duration_ms")) * time.Millisecond,
			PollInterval: time.Duration(viper.GetInt("kitchen.poll_interval_ms")) * time.Millisecond,
		},
		Log: LogConfig{
			Level:      viper.GetString("log.level"),
			Format:     viper.GetString("log.format"),
			Output:     viper.GetString("log.output"),
			MaxSize:    viper.GetInt("log.max_size"),
			MaxBackups: viper.GetInt("log.max_backups"),
			MaxAge:     viper.GetInt("log.max_age"),
			Compress:   viper.GetBool("log.compress"),
		},
	}

	return cfg, nil
}
