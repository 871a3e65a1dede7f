package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	RelayServerPort    uint16 `env:"RELAY_SERVER_PORT"    envDefault:"8080" validate:"min=1000,max=65535"`
	RegistryServerPort uint16 `env:"REGISTRY_SERVER_PORT" envDefault:"3001" validate:"min=1000,max=65535,nefield=RelayServerPort"`

	// WorldsFile is the single JSON document holding every name -> seed binding.
	WorldsFile string `env:"WORLDS_FILE" envDefault:"worlds.json" validate:"required"`

	RelaySendBuffer int   `env:"RELAY_SEND_BUFFER" envDefault:"256"   validate:"min=1,max=65536"`
	RelayReadLimit  int64 `env:"RELAY_READ_LIMIT"  envDefault:"65536" validate:"min=512"`

	EventsEnabled   bool   `env:"EVENTS_ENABLED"    envDefault:"false"`
	RedisEventsHost string `env:"REDIS_EVENTS_HOST" envDefault:"localhost"`
	RedisEventsPort uint16 `env:"REDIS_EVENTS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	EventsArchiveEnabled bool   `env:"EVENTS_ARCHIVE_ENABLED" envDefault:"false"`
	PostgresHost         string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort         string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser         string `env:"POSTGRES_USER"     envDefault:"relay_user"`
	PostgresPassword     string `env:"POSTGRES_PASSWORD" envDefault:"relay_password"`
	PostgresDb           string `env:"POSTGRES_DB"       envDefault:"relay_db"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
