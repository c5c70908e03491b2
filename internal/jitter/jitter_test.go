package jitter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeNext(t *testing.T) {
	r := Range{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}
	for i := 0; i < 200; i++ {
		d := r.Next()
		require.GreaterOrEqual(t, d, r.Min)
		require.LessOrEqual(t, d, r.Max)
	}
}

func TestRangeNext_Degenerate(t *testing.T) {
	assert.Equal(t, 5*time.Millisecond, Range{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond}.Next())
	assert.Equal(t, 5*time.Millisecond, Range{Min: 5 * time.Millisecond, Max: time.Millisecond}.Next())
	assert.Equal(t, time.Duration(0), Range{}.Next())
}

func TestPick(t *testing.T) {
	assert.Equal(t, 42*time.Millisecond, Pick(DefaultRange, 42*time.Millisecond))

	d := Pick(Range{Min: time.Millisecond, Max: 2 * time.Millisecond})
	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.LessOrEqual(t, d, 2*time.Millisecond)
}

func TestSleep(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, Sleep(context.Background(), 5*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Sleep(ctx, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), 0))
	})
}

func TestScrollAmount(t *testing.T) {
	for i := 0; i < 200; i++ {
		n := ScrollAmount()
		require.GreaterOrEqual(t, n, 200)
		require.Less(t, n, 700)
	}
}
