package config

import (
	"time"
)

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Data         DataConfig         `mapstructure:"data"`
	Segmentation SegmentationConfig `mapstructure:"segmentation"`
	API          APIConfig          `mapstructure:"api"`
	WebSocket    WebSocketConfig    `mapstructure:"websocket"`
	Prometheus   PrometheusConfig   `mapstructure:"prometheus"`
	Events       EventsConfig       `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DataConfig points at the two input tables. Paths may be .csv or .xlsx.
type DataConfig struct {
	Name          string        `mapstructure:"name"`
	DailyPath     string        `mapstructure:"daily_path"`
	HourlyPath    string        `mapstructure:"hourly_path"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	// After ReloadMaxFailures failed reloads in a row, change events are
	// ignored for ReloadCooldown.
	ReloadMaxFailures int           `mapstructure:"reload_max_failures"`
	ReloadCooldown    time.Duration `mapstructure:"reload_cooldown"`
}

type SegmentationConfig struct {
	Clusters  int     `mapstructure:"clusters"`
	Seed      int64   `mapstructure:"seed"`
	Restarts  int     `mapstructure:"restarts"`
	MaxIter   int     `mapstructure:"max_iter"`
	Tolerance float64 `mapstructure:"tolerance"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}
