package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/bikeshare")
	}

	// Environment variable settings
	v.SetEnvPrefix("BIKESHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "bikeshare-dashboard")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	// Data defaults
	v.SetDefault("data.name", "bike-sharing")
	v.SetDefault("data.daily_path", "dashboard/main_data_day.csv")
	v.SetDefault("data.hourly_path", "dashboard/main_data_hour.csv")
	v.SetDefault("data.watch", false)
	v.SetDefault("data.watch_debounce", "500ms")
	v.SetDefault("data.reload_max_failures", 3)
	v.SetDefault("data.reload_cooldown", "30s")

	// Segmentation defaults keep clustering output reproducible
	v.SetDefault("segmentation.clusters", 3)
	v.SetDefault("segmentation.seed", 42)
	v.SetDefault("segmentation.restarts", 10)
	v.SetDefault("segmentation.max_iter", 300)
	v.SetDefault("segmentation.tolerance", 1e-4)

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 120)
	v.SetDefault("api.cors.allowed_origins", []string{"*"})

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 100)
	v.SetDefault("websocket.ping_interval", "54s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.max_message_size", 512)

	// Prometheus defaults
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.port", 9090)

	v.SetDefault("events.buffer_size", 100)
}
