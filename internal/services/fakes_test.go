package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// fakeDB implements DBConn with injectable behavior per call.
type fakeDB struct {
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc != nil {
		return f.QueryRowFunc(ctx, sql, args...)
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc != nil {
		return f.QueryFunc(ctx, sql, args...)
	}
	return &fakeRows{}, nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc != nil {
		return f.ExecFunc(ctx, sql, args...)
	}
	return fakeCommandTag{}, nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

func rowFromValues(values ...any) Row {
	return fakeRow{values: values}
}

func rowWithError(err error) Row {
	return fakeRow{err: err}
}

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.rows[r.pos-1])
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error { return r.err }

type fakeCommandTag struct {
	rowsAffected int64
}

func (t fakeCommandTag) RowsAffected() int64 { return t.rowsAffected }

func assign(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan expected %d values, got %d", len(dest), len(values))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		case *int:
			*d = v.(int)
		case *int64:
			*d = v.(int64)
		case *time.Time:
			*d = v.(time.Time)
		case *uuid.UUID:
			*d = v.(uuid.UUID)
		case *any:
			*d = v
		default:
			return fmt.Errorf("unsupported scan destination %T", dest[i])
		}
	}
	return nil
}

// fakeKV is an in-memory KVStore with a controllable clock.
type fakeKV struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Time
	now    func() time.Time

	setErr error
	getErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		values: map[string]string{},
		ttls:   map[string]time.Time{},
		now:    time.Now,
	}
}

func (f *fakeKV) expire(key string) {
	if deadline, ok := f.ttls[key]; ok && f.now().After(deadline) {
		delete(f.values, key)
		delete(f.ttls, key)
	}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	f.expire(key)
	val, ok := f.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.ttls[key] = f.now().Add(ttl)
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeKV) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expire(key)
	count, _ := strconv.ParseInt(f.values[key], 10, 64)
	count++
	f.values[key] = strconv.FormatInt(count, 10)
	return count, nil
}

func (f *fakeKV) ExpireNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ttls[key]; ok {
		return false, nil
	}
	f.ttls[key] = f.now().Add(ttl)
	return true, nil
}

func (f *fakeKV) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return false, nil
	}
	f.ttls[key] = f.now().Add(ttl)
	return true, nil
}

// fakeLimiter implements SendLimiter with canned counts.
type fakeLimiter struct {
	count      int64
	checkErr   error
	incrErr    error
	increments []string
	windows    []time.Duration
}

func (f *fakeLimiter) Check(ctx context.Context, key string) (int64, error) {
	return f.count, f.checkErr
}

func (f *fakeLimiter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.increments = append(f.increments, key)
	f.windows = append(f.windows, window)
	f.count++
	return f.count, nil
}
