package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type ServerConfig struct {
	Address    string `mapstructure:"address"`
	Production bool   `mapstructure:"production"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// RetentionConfig controls the background purge of inactive students and
// stale non-template routines.
type RetentionConfig struct {
	InactiveStudentAge time.Duration `mapstructure:"inactive_student_age"`
	StaleRoutineAge    time.Duration `mapstructure:"stale_routine_age"`
	Schedule           string        `mapstructure:"schedule"` // cron spec
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION, ...
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.production", false)
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "archery_school")
	viper.SetDefault("jwt.expiration", "8h")
	viper.SetDefault("retention.inactive_student_age", "720h") // 30 days
	viper.SetDefault("retention.stale_routine_age", "720h")
	viper.SetDefault("retention.schedule", "0 3 * * *") // daily at 03:00

	err = viper.ReadInConfig()
	// Config file is optional; env vars and defaults may be enough.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
