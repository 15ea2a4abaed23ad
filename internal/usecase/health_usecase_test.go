package usecase_test

import (
	"context"
	"errors"
	"testing"

	"jobs-admin-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	result, healthy := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{"postgres": up}).Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, map[string]string{"status": "ok", "postgres": "up"}, result)

	result, healthy = usecase.NewHealthUsecase(map[string]usecase.HealthCheck{"postgres": up, "redis": down}).Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "degraded", result["status"])
	assert.Equal(t, "down", result["redis"])
}
