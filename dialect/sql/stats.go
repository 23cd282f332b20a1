package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/querykit/dialect"
)

// QueryStats holds execution counters for a wrapped driver.
type QueryStats struct {
	// Queries counts row-returning statements.
	Queries atomic.Int64
	// Execs counts statements executed without a result set.
	Execs atomic.Int64
	// Duration is the accumulated execution time in nanoseconds.
	Duration atomic.Int64
	// Slow counts statements that exceeded the slow threshold.
	Slow atomic.Int64
	// Errors counts failed statements.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current counters.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		Queries:  s.Queries.Load(),
		Execs:    s.Execs.Load(),
		Duration: time.Duration(s.Duration.Load()),
		Slow:     s.Slow.Load(),
		Errors:   s.Errors.Load(),
	}
}

// Reset zeroes all counters.
func (s *QueryStats) Reset() {
	s.Queries.Store(0)
	s.Execs.Store(0)
	s.Duration.Store(0)
	s.Slow.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Queries  int64
	Execs    int64
	Duration time.Duration
	Slow     int64
	Errors   int64
}

// Avg returns the mean statement duration across queries and execs.
func (s StatsSnapshot) Avg() time.Duration {
	total := s.Queries + s.Execs
	if total == 0 {
		return 0
	}
	return s.Duration / time.Duration(total)
}

// String returns a one-line summary of the counters.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.Queries, s.Execs, s.Duration, s.Avg(), s.Slow, s.Errors,
	)
}

// SlowQueryHook is called for statements exceeding the slow threshold.
// The statement arrives in rebound form, exactly as the driver saw it.
type SlowQueryHook func(ctx context.Context, dialectName, query string, args []any, took time.Duration)

// StatsDriver wraps a Driver with counter collection and slow-statement
// detection. Statements surfaced to the hook carry driver-native
// placeholders, so the hook output can be pasted against the database
// as-is.
type StatsDriver struct {
	*Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration beyond which a statement counts as
// slow. Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog reports slow statements through the default slog
// logger, tagged with the dialect and the rebound SQL.
func WithSlowQueryLog() StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, dialectName, query string, args []any, took time.Duration) {
		slog.WarnContext(ctx, "slow statement",
			slog.String("dialect", dialectName),
			slog.Duration("took", took),
			slog.String("sql", query),
			slog.Any("args", args),
		)
	})
}

// NewStatsDriver wraps a Driver with counter collection.
//
// Example:
//
//	drv, _ := sql.Open(dialect.Postgres, dsn)
//	stats := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//
//	// Later:
//	fmt.Println(stats.QueryStats().Stats())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying counters.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow-statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow-statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Query executes a row-returning statement and records counters.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, query, args, start, err, true)
	return err
}

// Exec executes a statement and records counters.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, args, start, err, false)
	return err
}

func (d *StatsDriver) record(ctx context.Context, query string, args any, start time.Time, err error, isQuery bool) {
	took := time.Since(start)
	if isQuery {
		d.stats.Queries.Add(1)
	} else {
		d.stats.Execs.Add(1)
	}
	d.stats.Duration.Add(int64(took))
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if took > threshold {
		d.stats.Slow.Add(1)
		if hook != nil {
			argv, _ := args.([]any)
			hook(ctx, d.Dialect(), Rebind(d.Dialect(), query), argv, took)
		}
	}
}

// Tx starts a transaction whose statements feed the same counters.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

// StatsTx wraps a transaction with counter collection.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Query executes a row-returning statement within the transaction.
func (tx *StatsTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	tx.driver.record(ctx, query, args, start, err, true)
	return err
}

// Exec executes a statement within the transaction.
func (tx *StatsTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.driver.record(ctx, query, args, start, err, false)
	return err
}

// DebugDriver wraps a Driver and logs every statement through slog at
// debug level. Each record carries the dialect, the rebound SQL as the
// driver receives it, and the bound arguments.
type DebugDriver struct {
	*Driver
	log *slog.Logger
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLogger sets the logger. Default is slog.Default.
func DebugWithLogger(l *slog.Logger) DebugOption {
	return func(d *DebugDriver) {
		d.log = l
	}
}

// NewDebugDriver wraps a Driver with statement logging.
//
// Example:
//
//	drv, _ := sql.Open(dialect.Postgres, dsn)
//	dbg := sql.NewDebugDriver(drv, sql.DebugWithLogger(logger))
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DebugDriver) logStatement(ctx context.Context, op, query string, args any) {
	d.log.LogAttrs(ctx, slog.LevelDebug, op,
		slog.String("dialect", d.Dialect()),
		slog.String("sql", Rebind(d.Dialect(), query)),
		slog.Any("args", args),
	)
}

// Query logs and executes a row-returning statement.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.logStatement(ctx, "query", query, args)
	return d.Driver.Query(ctx, query, args, v)
}

// Exec logs and executes a statement.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.logStatement(ctx, "exec", query, args)
	return d.Driver.Exec(ctx, query, args, v)
}

// Tx starts a transaction whose statements are logged the same way.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.log.LogAttrs(ctx, slog.LevelDebug, "begin",
		slog.String("dialect", d.Dialect()),
	)
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, dialect: d.Dialect(), log: d.log}, nil
}

// DebugTx wraps a transaction with statement logging.
type DebugTx struct {
	dialect.Tx
	dialect string
	log     *slog.Logger
}

func (tx *DebugTx) logStatement(ctx context.Context, op, query string, args any) {
	tx.log.LogAttrs(ctx, slog.LevelDebug, op,
		slog.String("dialect", tx.dialect),
		slog.String("sql", Rebind(tx.dialect, query)),
		slog.Any("args", args),
	)
}

// Query logs and executes a row-returning statement within the transaction.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.logStatement(ctx, "tx query", query, args)
	return tx.Tx.Query(ctx, query, args, v)
}

// Exec logs and executes a statement within the transaction.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.logStatement(ctx, "tx exec", query, args)
	return tx.Tx.Exec(ctx, query, args, v)
}

// Commit commits the transaction and logs it.
func (tx *DebugTx) Commit() error {
	tx.log.LogAttrs(context.Background(), slog.LevelDebug, "commit",
		slog.String("dialect", tx.dialect),
	)
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and logs it.
func (tx *DebugTx) Rollback() error {
	tx.log.LogAttrs(context.Background(), slog.LevelDebug, "rollback",
		slog.String("dialect", tx.dialect),
	)
	return tx.Tx.Rollback()
}

// Ensure interfaces are implemented.
var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)

// OpenWithStats opens a database connection with counter collection
// enabled.
//
// Example:
//
//	drv, stats, err := sql.OpenWithStats(dialect.Postgres, dsn,
//	    sql.WithSlowThreshold(100*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	go func() {
//	    for range time.Tick(time.Minute) {
//	        slog.Info("db", "stats", stats.Stats().String())
//	    }
//	}()
func OpenWithStats(dialectName, source string, opts ...StatsOption) (*StatsDriver, *QueryStats, error) {
	db, err := sql.Open(dialectName, source)
	if err != nil {
		return nil, nil, err
	}
	drv := NewDriver(dialectName, Conn{db, dialectName})
	statsDriver := NewStatsDriver(drv, opts...)
	return statsDriver, statsDriver.QueryStats(), nil
}
