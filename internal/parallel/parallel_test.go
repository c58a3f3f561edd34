package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	n := 1000

	err := ForEach(context.Background(), n, cfg, func(_ int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(n), counter)
}

func TestForEach_Sequential(t *testing.T) {
	var seen []int
	err := ForEach(context.Background(), 5, Sequential(), func(i int) error {
		seen = append(seen, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
		want []Range
	}{
		{"empty", 0, DefaultConfig(), nil},
		{"disabled", 10, Config{Enabled: false, NumWorkers: 4}, []Range{{0, 10}}},
		{"small", 5, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}, []Range{{0, 5}}},
		{"even", 8, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}, []Range{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"ragged", 10, Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}, []Range{{0, 4}, {4, 8}, {8, 10}}},
		{"min_chunk", 20, Config{Enabled: true, NumWorkers: 10, MinChunkSize: 8}, []Range{{0, 8}, {8, 16}, {16, 20}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunks(tt.n, tt.cfg))
		})
	}
}

func TestChunks_CoverEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 7, MinChunkSize: 3}
	hits := make([]int, 101)
	for _, r := range Chunks(len(hits), cfg) {
		for i := r.Start; i < r.End; i++ {
			hits[i]++
		}
	}
	for i, h := range hits {
		assert.Equal(t, 1, h, "index %d", i)
	}
}

func TestFor_ReturnsFirstError(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}
	boom := errors.New("boom")

	err := For(context.Background(), 8, cfg, func(_ context.Context, r Range) error {
		if r.Start == 4 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestFor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	err := For(ctx, 10, Sequential(), func(_ context.Context, _ Range) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func BenchmarkForEach(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = ForEach(context.Background(), n, cfg, func(k int) error {
				atomic.AddInt64(&sum, int64(k))
				return nil
			})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = ForEach(context.Background(), n, Sequential(), func(k int) error {
				sum += int64(k)
				return nil
			})
		}
	})
}
