package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	SchemeLegacy = "legacy"
	SchemeBcrypt = "bcrypt"
)

type (
	Config struct {
		Host           string `mapstructure:"HOST"`
		Port           string `mapstructure:"PORT"`
		DBPath         string `mapstructure:"DB_PATH"`
		PasswordScheme string `mapstructure:"PASSWORD_SCHEME"`
	}
)

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetEnvPrefix("SCHOOLHOUSE")

	viper.SetDefault("HOST", "127.0.0.1")
	viper.SetDefault("PORT", "1323")
	viper.SetDefault("DB_PATH", "online_school.db")
	viper.SetDefault("PASSWORD_SCHEME", SchemeLegacy)

	envs := []string{"HOST", "PORT", "DB_PATH", "PASSWORD_SCHEME"}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	validSchemes := []string{SchemeLegacy, SchemeBcrypt}
	for _, validValue := range validSchemes {
		if cfg.PasswordScheme == validValue {
			return nil
		}
	}
	return errors.New(fmt.Sprintf("password scheme is invalid: %s", cfg.PasswordScheme))
}
