package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHealthy(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()

	db := &DB{sqlDB}
	hc := db.HealthCheck(context.Background())

	assert.True(t, hc.Healthy())
	assert.Empty(t, hc.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheckUnhealthy(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	db := &DB{sqlDB}
	hc := db.HealthCheck(context.Background())

	assert.False(t, hc.Healthy())
	assert.Equal(t, "unhealthy", hc.Status)
	assert.Contains(t, hc.Error, "connection refused")
}

func TestValidateConnectionPool(t *testing.T) {
	assert.Empty(t, ValidateConnectionPool(PoolStats{MaxOpenConns: 10, InUse: 3}))

	warnings := ValidateConnectionPool(PoolStats{
		MaxOpenConns: 10,
		InUse:        10,
		WaitCount:    4,
		WaitDuration: 2 * time.Second,
	})
	assert.Equal(t, []string{"high connection usage", "high wait times"}, warnings)
}
