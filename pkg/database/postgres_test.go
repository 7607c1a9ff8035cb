package database

import (
	"testing"
	"time"

	"community_hub/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:             "localhost",
		User:             "hub",
		Password:         "secret",
		DBName:           "hub",
		Port:             "5432",
		SSLMode:          "disable",
		TimeZone:         "UTC",
		ConnectTimeout:   5 * time.Second,
		StatementTimeout: 45 * time.Second,
	})

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "connect_timeout=5")
	assert.Contains(t, dsn, "statement_timeout=45000")
}
