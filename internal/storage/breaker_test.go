package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docport/internal/config"
	"docport/internal/storage"
	"docport/internal/storage/mocks"
)

func breakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		Enabled:      true,
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
		HalfOpenMax:  1,
	}
}

func TestWithBreaker_Disabled(t *testing.T) {
	m := new(mocks.MockStorage)
	cfg := breakerConfig()
	cfg.Enabled = false

	assert.Same(t, m, storage.WithBreaker(m, cfg, zerolog.Nop()))
}

func TestWithBreaker_PassesThrough(t *testing.T) {
	m := new(mocks.MockStorage)
	s := storage.WithBreaker(m, breakerConfig(), zerolog.Nop())
	ctx := context.Background()

	m.On("PresignPut", mock.Anything, "documents/a.pdf", "application/pdf", 5*time.Minute).Return("https://put", nil)
	m.On("PresignGet", mock.Anything, "documents/a.pdf", time.Minute).Return("https://get", nil)
	m.On("Stat", mock.Anything, "documents/a.pdf").Return(storage.ObjectInfo{Key: "documents/a.pdf", Size: 42}, nil)

	u, err := s.PresignPut(ctx, "documents/a.pdf", "application/pdf", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://put", u)

	u, err = s.PresignGet(ctx, "documents/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://get", u)

	info, err := s.Stat(ctx, "documents/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(42), info.Size)
	m.AssertExpectations(t)
}

func TestWithBreaker_OpensWithoutRetrying(t *testing.T) {
	m := new(mocks.MockStorage)
	s := storage.WithBreaker(m, breakerConfig(), zerolog.Nop())
	ctx := context.Background()
	backendErr := errors.New("connection reset")

	m.On("PresignGet", mock.Anything, "documents/a.pdf", time.Minute).Return("", backendErr).Times(2)

	for i := 0; i < 2; i++ {
		_, err := s.PresignGet(ctx, "documents/a.pdf", time.Minute)
		assert.ErrorIs(t, err, backendErr)
		assert.False(t, storage.IsCircuitOpen(err))
	}

	_, err := s.PresignGet(ctx, "documents/a.pdf", time.Minute)
	assert.True(t, storage.IsCircuitOpen(err))
	m.AssertNumberOfCalls(t, "PresignGet", 2)
}

func TestWithBreaker_NotFoundIsHealthy(t *testing.T) {
	m := new(mocks.MockStorage)
	s := storage.WithBreaker(m, breakerConfig(), zerolog.Nop())

	m.On("Stat", mock.Anything, "documents/missing.pdf").Return(storage.ObjectInfo{}, storage.ErrObjectNotFound)

	for i := 0; i < 5; i++ {
		_, err := s.Stat(context.Background(), "documents/missing.pdf")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	}
	m.AssertNumberOfCalls(t, "Stat", 5)
}
