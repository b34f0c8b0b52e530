package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sedsgs/groundstation-data/internal/metrics"
	"github.com/sedsgs/groundstation-data/internal/router"
	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// Config holds batch writer settings.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	RecentSize    int
}

// DefaultConfig returns default writer settings.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: time.Second,
		RecentSize:    1000,
	}
}

// Metrics contains writer statistics.
type Metrics struct {
	Inserts int64
	Flushes int64
	Errors  int64
}

// Writer persists dispatched packets to the telemetry table.
type Writer struct {
	cfg    Config
	logger *slog.Logger

	// Database
	db *pgxpool.Pool

	// Clock injected by the router's collaborators.
	nowMS router.ClockFunc

	// Batching. The handler runs on the drain worker; the flush ticker runs
	// on its own goroutine, so the batch needs a lock.
	batchMu     sync.Mutex
	batch       []Row
	flushTicker *time.Ticker

	// Recent rows for the health endpoint.
	recent *ring

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	m Metrics
}

// NewWriter creates a telemetry store writer.
func NewWriter(cfg Config, db *pgxpool.Pool, nowMS router.ClockFunc, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.RecentSize < 1 {
		cfg.RecentSize = DefaultConfig().RecentSize
	}
	if nowMS == nil {
		nowMS = func() int64 { return time.Now().UnixMilli() }
	}
	return &Writer{
		cfg:    cfg,
		db:     db,
		nowMS:  nowMS,
		logger: logger,
		batch:  make([]Row, 0, cfg.BatchSize),
		recent: newRing(cfg.RecentSize),
	}
}

// Handler returns the router handler that feeds this writer. Register it on
// the GROUND_STATION endpoint.
func (w *Writer) Handler() router.Handler {
	return func(pkt *telemetry.Packet) error {
		w.add(transform(pkt, w.nowMS()))
		return nil
	}
}

// Start begins the flush ticker.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("telemetry store writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop shuts down the writer, flushing whatever is pending.
func (w *Writer) Stop(ctx context.Context) error {
	w.logger.Info("stopping telemetry store writer")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("telemetry store writer stopped")
	case <-ctx.Done():
		w.logger.Warn("telemetry store writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Stats returns current metrics.
func (w *Writer) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.m
}

// Recent returns up to n most recent rows, newest first.
func (w *Writer) Recent(n int) []Row {
	return w.recent.recent(n)
}

// add appends a row to the batch, flushing when the batch is full.
func (w *Writer) add(row Row) {
	w.recent.push(row)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// flushLoop periodically flushes the batch.
func (w *Writer) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// flush writes the current batch to the database.
func (w *Writer) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 || w.db == nil {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]Row, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	if err := w.batchInsert(batch); err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.m.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.m.Inserts += int64(len(batch))
	w.m.Flushes++
	w.batchMu.Unlock()

	metrics.StoreBatchFlushes.Inc()
	metrics.StoreBatchDuration.Observe(time.Since(start).Seconds())
	metrics.StoreRowsWritten.Add(float64(len(batch)))

	w.logger.Debug("flushed telemetry rows",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch.
func (w *Writer) batchInsert(rows []Row) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO telemetry (timestamp_ms, received_at, data_type,
				v0, v1, v2, v3, v4, v5, v6, v7, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, r.TimestampMS, r.ReceivedAt, r.DataType,
			r.Values[0], r.Values[1], r.Values[2], r.Values[3],
			r.Values[4], r.Values[5], r.Values[6], r.Values[7],
			r.Payload)
	}

	// The final flush runs after cancellation; fall back to a fresh context
	// so pending rows still reach the store.
	ctx := w.ctx
	if ctx == nil || ctx.Err() != nil {
		ctx = context.Background()
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
