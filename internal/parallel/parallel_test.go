package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversAllIndices(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 2}

	var sum atomic.Int64
	For(100, func(i int) {
		sum.Add(int64(i))
	}, cfg)

	if got := sum.Load(); got != 4950 {
		t.Errorf("For sum = %d, want 4950", got)
	}
}

func TestForSequentialFallback(t *testing.T) {
	cfg := Config{Enabled: false}

	order := make([]int, 0, 5)
	For(5, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, v := range order {
		if v != i {
			t.Fatalf("sequential fallback out of order: %v", order)
		}
	}
}

func TestForRowsSmallInput(t *testing.T) {
	cfg := DefaultConfig()

	seen := make([]atomic.Bool, 3)
	ForRows(3, func(y int) {
		seen[y].Store(true)
	}, cfg)

	for y := range seen {
		if !seen[y].Load() {
			t.Errorf("row %d not visited", y)
		}
	}
}
