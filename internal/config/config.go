package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var ErrUnknownStorage = errors.New("unknown storage driver")

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string        `yaml:"http-port" env:"PORT" env-default:"3000"`
	Mode         string        `yaml:"mode" env:"GAME_MODE" env-default:"rooms"`
	Scoring      string        `yaml:"scoring" env:"SCORING" env-default:"permissive"`
	TurnTimeout  time.Duration `yaml:"turn-timeout" env:"TURN_TIMEOUT" env-default:"0s"`
	RoomIDLength int           `yaml:"room-id-length" env:"ROOM_ID_LENGTH" env-default:"5"`
	PublicURL    string        `yaml:"public-url" env:"PUBLIC_URL"`
	Storage      Storage       `yaml:"storage"`
	Redis        Redis         `yaml:"redis"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Load reads path when it exists and the environment otherwise. Environment
// variables override the file either way.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); path != "" && statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else if path == "" || errors.Is(statErr, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(config)
	} else {
		err = statErr
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err = config.validate(); err != nil {
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

func (that *Config) SlogLevel() slog.Level {
	switch that.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (that *Config) validate() error {
	switch that.Storage.Driver {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStorage, that.Storage.Driver)
	}

	if that.RoomIDLength < 1 {
		return fmt.Errorf("room-id-length must be positive, got %d", that.RoomIDLength)
	}

	if that.TurnTimeout < 0 {
		return fmt.Errorf("turn-timeout must not be negative, got %s", that.TurnTimeout)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, strconv.Itoa(that.Port))
}
