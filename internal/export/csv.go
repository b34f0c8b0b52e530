package export

import (
	"context"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

const exportQuery = `
	SELECT timestamp_ms, received_at, data_type,
	       v0, v1, v2, v3, v4, v5, v6, v7, payload
	FROM telemetry
	ORDER BY timestamp_ms`

var header = []string{
	"timestamp_ms", "received_at", "data_type",
	"v0", "v1", "v2", "v3", "v4", "v5", "v6", "v7", "payload",
}

// Exporter streams the telemetry table to CSV, ordered by timestamp.
type Exporter struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewExporter creates an exporter on the given pool.
func NewExporter(db *pgxpool.Pool, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{db: db, logger: logger}
}

// ToFile writes all telemetry rows to a CSV file at path, creating parent
// directories as needed. Returns the number of rows written.
func (e *Exporter) ToFile(ctx context.Context, path string) (int64, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	n, err := e.Write(ctx, f)
	if err != nil {
		return n, err
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("closing output file: %w", err)
	}

	e.logger.Info("telemetry exported", "path", path, "rows", n)
	return n, nil
}

// Write streams all telemetry rows as CSV to w.
func (e *Exporter) Write(ctx context.Context, w io.Writer) (int64, error) {
	rows, err := e.db.Query(ctx, exportQuery)
	if err != nil {
		return 0, fmt.Errorf("querying telemetry: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	var count int64
	for rows.Next() {
		var (
			timestampMS int64
			receivedAt  int64
			dataType    string
			values      [8]*float32
			payload     []byte
		)
		if err := rows.Scan(&timestampMS, &receivedAt, &dataType,
			&values[0], &values[1], &values[2], &values[3],
			&values[4], &values[5], &values[6], &values[7],
			&payload); err != nil {
			return count, fmt.Errorf("scanning row: %w", err)
		}

		if err := cw.Write(formatRow(timestampMS, receivedAt, dataType, values, payload)); err != nil {
			return count, fmt.Errorf("writing row: %w", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("reading telemetry: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return count, fmt.Errorf("flushing csv: %w", err)
	}
	return count, nil
}

// formatRow renders one telemetry row as CSV fields. Absent values are empty
// fields and the raw payload is hex encoded.
func formatRow(timestampMS, receivedAt int64, dataType string, values [8]*float32, payload []byte) []string {
	fields := make([]string, 0, len(header))
	fields = append(fields,
		strconv.FormatInt(timestampMS, 10),
		strconv.FormatInt(receivedAt, 10),
		dataType,
	)
	for _, v := range values {
		if v == nil {
			fields = append(fields, "")
			continue
		}
		fields = append(fields, strconv.FormatFloat(float64(*v), 'g', -1, 32))
	}
	fields = append(fields, hex.EncodeToString(payload))
	return fields
}
