package observability

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestShutdownManager(t *testing.T) {
	t.Run("runs all registered functions", func(t *testing.T) {
		sm := NewShutdownManager(newTestLogger(), time.Second)

		var calls int32
		for i := 0; i < 3; i++ {
			sm.Register(func(ctx context.Context) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}

		require.NoError(t, sm.Shutdown(context.Background()))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("no registered functions", func(t *testing.T) {
		sm := NewShutdownManager(newTestLogger(), time.Second)
		assert.NoError(t, sm.Shutdown(context.Background()))
	})

	t.Run("collects errors", func(t *testing.T) {
		sm := NewShutdownManager(newTestLogger(), time.Second)
		sm.Register(func(ctx context.Context) error { return nil })
		sm.Register(func(ctx context.Context) error { return errors.New("close failed") })

		err := sm.Shutdown(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 errors")
	})

	t.Run("times out on stuck function", func(t *testing.T) {
		sm := NewShutdownManager(newTestLogger(), 50*time.Millisecond)
		sm.Register(func(ctx context.Context) error {
			<-ctx.Done()
			time.Sleep(time.Second)
			return nil
		})

		err := sm.Shutdown(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("nil logger defaults", func(t *testing.T) {
		sm := NewShutdownManager(nil, 0)
		assert.NoError(t, sm.Shutdown(context.Background()))
	})
}

func TestInitOTelDisabled(t *testing.T) {
	providers, err := InitOTel(context.Background(), OTelConfig{Enabled: false}, newTestLogger())
	require.NoError(t, err)
	assert.Nil(t, providers)

	// Shutdown of nil providers is a no-op.
	assert.NoError(t, ShutdownOTel(context.Background(), nil, newTestLogger()))
}

func TestLoggerWithTraceContextNoSpan(t *testing.T) {
	entry := LoggerWithTraceContext(context.Background(), newTestLogger())
	require.NotNil(t, entry)
	assert.NotContains(t, entry.Data, "trace_id")
}
