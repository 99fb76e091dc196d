// Package sqlstore persists finished calls in SQLite or PostgreSQL.
//
// Searchable columns are kept alongside the full record encoded as JSON, so
// the table can be queried by hand while ListCalls still returns everything.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	order_id       TEXT PRIMARY KEY,
	call_id        TEXT NOT NULL,
	started_at     BIGINT NOT NULL,
	ended_at       BIGINT NOT NULL,
	delivery_mode  TEXT NOT NULL,
	client_name    TEXT NOT NULL,
	client_phone   TEXT NOT NULL,
	payment_method TEXT NOT NULL,
	total_cents    BIGINT,
	low_confidence INTEGER NOT NULL DEFAULT 0,
	record         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calls_ended_at ON calls(ended_at);
`

type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("call store ready", "driver", driver)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind turns ? placeholders into $n for PostgreSQL.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) SaveCall(ctx context.Context, rec *domain.CallRecord) error {
	if rec.OrderID == "" {
		return fmt.Errorf("save call %s: missing order id", rec.CallID)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode call %s: %w", rec.CallID, err)
	}

	var total sql.NullInt64
	if rec.Order.Total != nil {
		total = sql.NullInt64{Int64: int64(*rec.Order.Total), Valid: true}
	}
	low := 0
	if rec.Order.LowConfidence {
		low = 1
	}

	q := rebind(s.driver, `INSERT INTO calls
		(order_id, call_id, started_at, ended_at, delivery_mode, client_name, client_phone, payment_method, total_cents, low_confidence, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = s.db.ExecContext(ctx, q,
		rec.OrderID,
		string(rec.CallID),
		rec.StartedAt.UnixMilli(),
		rec.EndedAt.UnixMilli(),
		string(rec.Order.DeliveryMode),
		rec.Order.ClientName,
		rec.Order.ClientPhone,
		string(rec.Order.PaymentMethod),
		total,
		low,
		string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert call %s: %w", rec.CallID, err)
	}
	return nil
}

// ListCalls returns records newest first.
func (s *Store) ListCalls(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	q := `SELECT record FROM calls ORDER BY ended_at DESC, order_id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, rebind(s.driver, q), args...)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	var out []*domain.CallRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		var rec domain.CallRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode call: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return out, nil
}

// Clear deletes every stored call.
func (s *Store) Clear() int {
	res, err := s.db.Exec(`DELETE FROM calls`)
	if err != nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}
