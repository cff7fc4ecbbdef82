package config

import (
	"os"
	"sync"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

var (
	dbConfig *DBConfig
	dbOnce   sync.Once
)

func LoadDBConfig() *DBConfig {
	dbOnce.Do(func() {
		dbConfig = &DBConfig{
			Driver:   getString("DB_DRIVER", DBDriverPostgres),
			Host:     os.Getenv("DB_HOST"),
			Port:     getString("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getString("DB_SSLMODE", "disable"),
			TimeZone: getString("DB_TIMEZONE", "UTC"),
		}
	})
	return dbConfig
}
