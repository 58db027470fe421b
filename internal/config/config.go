package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

var ErrInvalidLogLevel = errors.New("invalid log level")

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Game holds the rules every new match is created with. A zero board size or
// win length reads as unset and takes the default.
type Game struct {
	BoardSize   int           `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"10"`
	WinLength   int           `yaml:"win-length" env:"GAME_WIN_LENGTH" env-default:"5"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"GAME_SNAPSHOT_TTL" env-default:"0s"`
}

// Load reads the yaml file at path, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) Validate() error {
	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, that.LogLevel)
	}

	if err := gomoku.ValidateSettings(that.Game.BoardSize, that.Game.WinLength); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	if that.Game.SnapshotTTL < 0 {
		return fmt.Errorf("invalid game config: negative snapshot ttl %s", that.Game.SnapshotTTL)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
