package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT: every call adds the
// increment argument (or 1 for strict calls) to a counter.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.calls++
	return &mockRow{val: m.currentValue}
}

func year() string { return time.Now().Format("2006") }

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("RCP")

	num, err := svc.GetNextNumber(ctx, cfg, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("RCP-%s-00001", year()), num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("RCP-%s-00002", year()), num)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("TRF")

	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	// First call reserves 1..10 in one round trip.
	num, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TRF-%s-00001", year()), num)
	assert.EqualValues(t, 10, q.currentValue)
	assert.Equal(t, 1, q.calls)

	// Second call served from memory.
	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TRF-%s-00002", year()), num)
	assert.Equal(t, 1, q.calls)

	// Exhaust the range, next call reserves 11..20.
	for i := 0; i < 8; i++ {
		_, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
		require.NoError(t, err)
	}
	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TRF-%s-00011", year()), num)
	assert.EqualValues(t, 20, q.currentValue)
	assert.Equal(t, 2, q.calls)
}

func TestFormatNumber(t *testing.T) {
	svc := New(&mockQuerier{})
	period := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	cfg := Config{Prefix: "ADJ", IncludeYear: true, PadWidth: 5}
	assert.Equal(t, "ADJ-2026-00042", svc.formatNumber(cfg, period, 42))

	cfg.IncludeYear = false
	assert.Equal(t, "ADJ-00042", svc.formatNumber(cfg, period, 42))

	cfg.PadWidth = 0

	// Zero width falls back to the default of 5.
	assert.Equal(t, "ADJ-00007", svc.formatNumber(cfg, period, 7))
}

func TestParseNumber(t *testing.T) {
	assert.EqualValues(t, 42, ParseNumber("RCP-2026-00042"))
	assert.EqualValues(t, 7, ParseNumber("ADJ-00007"))
	assert.EqualValues(t, -1, ParseNumber("garbage"))
}
