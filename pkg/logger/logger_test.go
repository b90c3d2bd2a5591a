package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrak/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		env         logger.Environment
		level       string
		expectError bool
	}{
		{name: "production with default level", env: logger.Production, level: ""},
		{name: "development with default level", env: logger.Development, level: ""},
		{name: "production with debug level", env: logger.Production, level: "debug"},
		{name: "development with error level", env: logger.Development, level: "error"},
		{name: "invalid level", env: logger.Production, level: "loudest", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.NewLogger(tt.env, tt.level)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, logger.ErrParseLevel)
				assert.Nil(t, log)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "")
	require.NoError(t, err)

	ctx := logger.NewContext(context.Background(), log)

	got, err := logger.FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, log, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := logger.FromContext(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
}

func TestLog_PrefersContextLogger(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "")
	require.NoError(t, err)

	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.Log(ctx))
}

func TestLog_FallsBackWithoutContextLogger(t *testing.T) {
	got := logger.Log(context.Background())

	require.NotNil(t, got, "Log must always return a usable logger")

	// Must not panic when used.
	got.Debug(context.Background(), "fallback message")
}

func TestRequestIDContext(t *testing.T) {
	ctx := logger.NewRequestIDContext(context.Background(), "req-123")

	id, ok := logger.GetRequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-123", id)
}

func TestRequestIDContext_GeneratesWhenEmpty(t *testing.T) {
	ctx := logger.NewRequestIDContext(context.Background(), "")

	id, ok := logger.GetRequestID(ctx)
	assert.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestGetRequestID_Missing(t *testing.T) {
	id, ok := logger.GetRequestID(context.Background())

	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestGenerateRequestID_Unique(t *testing.T) {
	first := logger.GenerateRequestID()
	second := logger.GenerateRequestID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestWithRequestID(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "")
	require.NoError(t, err)

	ctx := logger.NewRequestIDContext(context.Background(), "req-456")

	tagged := log.WithRequestID(ctx)
	require.NotNil(t, tagged)
	assert.NotSame(t, log, tagged)

	// Without an id in the context the logger is returned unchanged.
	assert.Same(t, log, log.WithRequestID(context.Background()))
}
