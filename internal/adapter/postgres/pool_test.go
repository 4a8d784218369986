package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dossier-issuance/internal/config"
)

func TestPoolConfig(t *testing.T) {
	t.Parallel()
	cfg := config.DatabaseConfig{
		DSN:              "postgres://dossier:secret@db:5432/dossiers?sslmode=disable",
		MaxConns:         10,
		MinConns:         2,
		MaxConnLifetime:  time.Hour,
		MaxConnIdleTime:  time.Minute,
		StatementTimeout: 15 * time.Second,
		ConnectTimeout:   3 * time.Second,
	}

	got, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(10), got.MaxConns)
	assert.Equal(t, int32(2), got.MinConns)
	assert.Equal(t, 3*time.Second, got.ConnConfig.ConnectTimeout)
	assert.Equal(t, applicationName, got.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "15000", got.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestPoolConfig_DSNWins(t *testing.T) {
	t.Parallel()
	cfg := config.DatabaseConfig{
		DSN:              "postgres://db/dossiers?application_name=ops-shell&statement_timeout=500",
		MaxConns:         1,
		StatementTimeout: time.Minute,
	}

	got, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "ops-shell", got.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "500", got.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestPoolConfig_BadDSN(t *testing.T) {
	t.Parallel()
	_, err := poolConfig(config.DatabaseConfig{DSN: "postgres://%zz"})
	assert.Error(t, err)
}
