package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/lending-ledger/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	ok := func() error { return nil }
	boom := func() error { return errors.New("service error") }

	t.Run("stays closed on successes", func(t *testing.T) {
		cb := circuit_breaker.New(10, 50*time.Millisecond, 0.3, 2)
		for i := 0; i < 30; i++ {
			require.NoError(t, cb.Call(ok))
		}
	})

	t.Run("opens after failure percentile and rejects fast", func(t *testing.T) {
		cb := circuit_breaker.New(10, time.Minute, 0.3, 2)
		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(boom))
		}
		err := cb.Call(ok)
		require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	})

	t.Run("recovers through half-open", func(t *testing.T) {
		cb := circuit_breaker.New(10, 20*time.Millisecond, 0.3, 2)
		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(boom))
		}
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)

		time.Sleep(30 * time.Millisecond)

		// half-open: calls pass through again, enough successes close it
		for i := 0; i < 5; i++ {
			require.NoError(t, cb.Call(ok))
		}
		require.NoError(t, cb.Call(ok))
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		cb := circuit_breaker.New(10, 20*time.Millisecond, 0.3, 2)
		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(boom))
		}
		time.Sleep(30 * time.Millisecond)

		require.Error(t, cb.Call(boom))
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)
	})
}
