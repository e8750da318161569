package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
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

// mockQuerier simulates the sys_sequences upsert: every call bumps the
// stored value by the increment argument (1 for strict calls).
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

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("TEST")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00001" {
		t.Errorf("expected TEST-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00002" {
		t.Errorf("expected TEST-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("ORD")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call reserves the range 1..10 in one DB round trip.
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00001" {
		t.Errorf("expected ORD-2026-00001, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// Second call is served from memory.
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00002" {
		t.Errorf("expected ORD-2026-00002, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call, got %d", q.calls)
	}

	// Exhaust the range; the next call must reserve 11..20.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, period)
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00011" {
		t.Errorf("expected ORD-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}

func TestFormatNumber_NoYear(t *testing.T) {
	svc := New(&mockQuerier{})
	cfg := Config{Prefix: "ADJ", PadWidth: 4}

	got := svc.formatNumber(cfg, time.Now(), 7)
	if got != "ADJ-0007" {
		t.Errorf("expected ADJ-0007, got %s", got)
	}
}

func TestParseNumber(t *testing.T) {
	if n := ParseNumber("INV-2026-00042"); n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if n := ParseNumber("ADJ-0007"); n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
	if n := ParseNumber("garbage"); n != -1 {
		t.Errorf("expected -1, got %d", n)
	}
}
