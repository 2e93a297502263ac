package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-entity-demo/backend/pkg/logger"
)

func TestCheckerStartsWithSelfCheck(t *testing.T) {
	checker := NewChecker(logger.Discard(), time.Minute)
	checker.RunChecks()

	status := checker.GetStatus()
	require.Contains(t, status, "self")
	assert.Equal(t, StatusUp, status["self"].Status)
	assert.True(t, checker.IsSystemHealthy())
}

func TestCriticalCheckMarksSystemUnhealthy(t *testing.T) {
	checker := NewChecker(logger.Discard(), time.Minute)

	key := ""
	checker.RegisterCredentialsCheck(func() string { return key })
	checker.RunChecks()

	component := checker.GetStatus()["upstream_credentials"]
	require.NotNil(t, component)
	assert.True(t, component.Critical)
	assert.Equal(t, StatusDown, component.Status)
	assert.False(t, checker.IsSystemHealthy())

	key = "gsk_live"
	checker.RunChecks()
	assert.Equal(t, StatusUp, checker.GetStatus()["upstream_credentials"].Status)
	assert.True(t, checker.IsSystemHealthy())
}

func TestNonCriticalFailureKeepsSystemHealthy(t *testing.T) {
	checker := NewChecker(logger.Discard(), time.Minute)
	checker.RegisterCheck("tracing", func() (Status, string, error) {
		return StatusDown, "exporter unavailable", errors.New("connection refused")
	})
	checker.RunChecks()

	component := checker.GetStatus()["tracing"]
	assert.Equal(t, StatusDown, component.Status)
	assert.Equal(t, "connection refused", component.Error)
	assert.True(t, checker.IsSystemHealthy())
}

func TestGetStatusReturnsCopies(t *testing.T) {
	checker := NewChecker(logger.Discard(), time.Minute)
	checker.RunChecks()

	status := checker.GetStatus()
	status["self"].Status = StatusDown

	assert.Equal(t, StatusUp, checker.GetStatus()["self"].Status)
}

func TestStartRunsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := NewChecker(logger.Discard(), time.Hour)
	checker.Start(ctx)

	assert.False(t, checker.GetStatus()["self"].LastChecked.IsZero())
}
