package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// telemetrySchema is the append-only telemetry table. v0..v7 hold decoded
// float values (meaning depends on data_type); payload keeps the raw bytes.
const telemetrySchema = `
CREATE TABLE IF NOT EXISTS telemetry (
	id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	timestamp_ms BIGINT NOT NULL,
	received_at  BIGINT NOT NULL,
	data_type    TEXT   NOT NULL,
	v0 REAL, v1 REAL, v2 REAL, v3 REAL,
	v4 REAL, v5 REAL, v6 REAL, v7 REAL,
	payload      BYTEA  NOT NULL
);
CREATE INDEX IF NOT EXISTS telemetry_timestamp_ms_idx ON telemetry (timestamp_ms);
CREATE INDEX IF NOT EXISTS telemetry_data_type_idx ON telemetry (data_type, timestamp_ms);
`

// Migrate creates the telemetry schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, telemetrySchema); err != nil {
		return fmt.Errorf("apply telemetry schema: %w", err)
	}
	return nil
}
