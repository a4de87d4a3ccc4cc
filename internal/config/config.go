package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Realtime RealtimeConfig `mapstructure:"realtime" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins lists the browser origins accepted for CORS and WebSocket upgrades.
	AllowedOrigins      []string `mapstructure:"allowed_origins"       validate:"required,min=1,dive,required"`
	ShutdownTimeoutSecs int      `mapstructure:"shutdown_timeout_secs" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                string `mapstructure:"url"                  validate:"required,url"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"       validate:"gt=0"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"       validate:"gte=0"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	RefreshSecret               string `mapstructure:"refresh_secret"                 validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// RealtimeConfig tunes the WebSocket relay.
type RealtimeConfig struct {
	MaxClientsPerRoom int           `mapstructure:"max_clients_per_room" validate:"gt=0"`
	SendBufferSize    int           `mapstructure:"send_buffer_size"     validate:"gt=0"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes"    validate:"gt=0"`
	PingInterval      time.Duration `mapstructure:"ping_interval"        validate:"gt=0"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"        validate:"gt=0"`

	// Inbound frames per second allowed on one connection, with bursts of
	// MessageBurst. Zero disables the limit.
	MessagesPerSecond float64 `mapstructure:"messages_per_second" validate:"gte=0"`
	MessageBurst      int     `mapstructure:"message_burst"       validate:"required_with=MessagesPerSecond,gte=0"`
}

// RedisConfig enables cross-instance fan-out of relayed events.
// An empty URL keeps the relay local to a single process.
type RedisConfig struct {
	URL           string `mapstructure:"url"            validate:"omitempty,url"`
	ChannelPrefix string `mapstructure:"channel_prefix" validate:"required_with=URL"`
}

// Enabled reports whether a Redis URL was configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// PongWait is how long the relay waits for a pong before dropping a client.
func (c RealtimeConfig) PongWait() time.Duration {
	return c.PingInterval * 10 / 9
}
