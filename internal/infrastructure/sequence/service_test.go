package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumaster/internal/core/apperror"
	coresequence "edumaster/internal/core/sequence"
)

// Mock objects
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

// mockQuerier simulates sys_sequences; the mutex plays the row lock.
type mockQuerier struct {
	mu    sync.Mutex
	rows  map[string]int64
	err   error
	calls int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{rows: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	switch sql {
	case reserveSQL:
		floor := args[1].(int64)
		cur, ok := m.rows[key]
		if !ok {
			m.rows[key] = floor
		} else {
			m.rows[key] = max(cur+1, floor)
		}
	case setSQL:
		m.rows[key] = args[1].(int64)
	case peekSQL:
		cur, ok := m.rows[key]
		if !ok {
			return &mockRow{err: pgx.ErrNoRows}
		}
		return &mockRow{val: cur}
	}
	return &mockRow{val: m.rows[key]}
}

var key2023 = coresequence.StudentKey("BT", time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), "F")

func TestNext_Sequential(t *testing.T) {
	svc := NewWithQuerier(newMockQuerier(), nil)
	ctx := context.Background()

	res, err := svc.Next(ctx, key2023)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Seq)
	assert.Equal(t, coresequence.OutcomeFresh, res.Outcome)

	res, err = svc.Next(ctx, key2023)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Seq)
	assert.Equal(t, coresequence.OutcomeContinued, res.Outcome)

	// Next year is an independent partition.
	key2024 := coresequence.StudentKey("BT", time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), "F")
	res, err = svc.Next(ctx, key2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Seq)
}

func TestNext_FloorFromRecords(t *testing.T) {
	lookup := &coresequence.MockLookup{Latest: map[string]string{key2023.String(): "BT2023F007"}}
	floor := coresequence.NewLookupCounter(lookup, coresequence.DefaultConfig())
	svc := NewWithQuerier(newMockQuerier(), floor)

	res, err := svc.Next(context.Background(), key2023)
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Seq)
	assert.Equal(t, coresequence.OutcomeContinued, res.Outcome)
	assert.Equal(t, "BT2023F007", res.Prior)
}

func TestNext_ConcurrentReservationsAreUnique(t *testing.T) {
	// Empty record table: every caller computes floor 1, as in the unguarded race.
	floor := coresequence.NewLookupCounter(&coresequence.MockLookup{}, coresequence.DefaultConfig())
	svc := NewWithQuerier(newMockQuerier(), floor)

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]int)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Next(context.Background(), key2023)
			assert.NoError(t, err)
			mu.Lock()
			seen[res.Seq]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers)
	for seq, n := range seen {
		assert.Equal(t, 1, n, "sequence %d issued %d times", seq, n)
	}
}

func TestNext_StoreUnavailable(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection reset by peer")
	svc := NewWithQuerier(q, nil)

	_, err := svc.Next(context.Background(), key2023)
	require.Error(t, err)
	assert.True(t, apperror.IsStoreUnavailable(err))
}

func TestNext_FloorErrorStopsReservation(t *testing.T) {
	q := newMockQuerier()
	floor := coresequence.NewLookupCounter(&coresequence.MockLookup{Err: errors.New("timeout")}, coresequence.DefaultConfig())
	svc := NewWithQuerier(q, floor)

	_, err := svc.Next(context.Background(), key2023)
	assert.True(t, apperror.IsStoreUnavailable(err))
	assert.Zero(t, q.calls)
}

func TestSetLastNumber(t *testing.T) {
	q := newMockQuerier()
	svc := NewWithQuerier(q, nil)
	ctx := context.Background()

	last, err := svc.LastNumber(ctx, key2023)
	require.NoError(t, err)
	assert.Zero(t, last)

	require.NoError(t, svc.SetLastNumber(ctx, key2023, 41))

	last, err = svc.LastNumber(ctx, key2023)
	require.NoError(t, err)
	assert.Equal(t, int64(41), last)

	res, err := svc.Next(ctx, key2023)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Seq)

	err = svc.SetLastNumber(ctx, key2023, -1)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
