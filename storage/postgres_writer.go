package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"qsr-forecast/models"
	"qsr-forecast/utils"
)

const (
	salesColumns = 16
	// keeps every statement well under the 65535 bind parameter limit
	salesBatchSize = 500
)

// PostgresWriter exports the roster and the full sales table to PostgreSQL.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter opens a connection, waits for the database to accept
// it and runs schema migrations.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, logger: logger}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stores (
			store_id           VARCHAR(16)  PRIMARY KEY,
			store_type         VARCHAR(16)  NOT NULL,
			region             VARCHAR(16)  NOT NULL,
			avg_daily_baseline INTEGER      NOT NULL,
			size_factor        DOUBLE PRECISION NOT NULL
		);

		CREATE TABLE IF NOT EXISTS daily_sales (
			date             DATE          NOT NULL,
			store_id         VARCHAR(16)   NOT NULL REFERENCES stores(store_id),
			store_type       VARCHAR(16)   NOT NULL,
			region           VARCHAR(16)   NOT NULL,
			day_of_week      SMALLINT      NOT NULL,
			month            SMALLINT      NOT NULL,
			quarter          SMALLINT      NOT NULL,
			year             SMALLINT      NOT NULL,
			week_of_year     SMALLINT      NOT NULL,
			is_weekend       BOOLEAN       NOT NULL,
			is_holiday       BOOLEAN       NOT NULL,
			promotion_active BOOLEAN       NOT NULL,
			total_sales      NUMERIC(12,2) NOT NULL,
			guest_count      INTEGER       NOT NULL,
			avg_ticket       NUMERIC(8,2)  NOT NULL,
			weather_factor   NUMERIC(6,3)  NOT NULL,
			PRIMARY KEY (date, store_id)
		);

		CREATE INDEX IF NOT EXISTS idx_daily_sales_store ON daily_sales(store_id);
		CREATE INDEX IF NOT EXISTS idx_daily_sales_year  ON daily_sales(year);
	`)
	return err
}

// Export replaces the stored roster and sales in one transaction.
func (pw *PostgresWriter) Export(ctx context.Context, ds *models.Dataset) error {
	start := time.Now()

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_sales; DELETE FROM stores"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	if err := pw.insertStores(ctx, tx, ds.Stores); err != nil {
		return err
	}

	for i := 0; i < len(ds.Sales); i += salesBatchSize {
		end := min(i+salesBatchSize, len(ds.Sales))
		if err := pw.insertSales(ctx, tx, ds.Sales[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}

	pw.logger.Info("[postgres] Exported %d stores and %d sales rows in %v",
		len(ds.Stores), len(ds.Sales), time.Since(start).Round(time.Millisecond))
	return nil
}

func (pw *PostgresWriter) insertStores(ctx context.Context, tx *sql.Tx, stores []*models.StoreMetadata) error {
	if len(stores) == 0 {
		return nil
	}
	args := make([]any, 0, len(stores)*5)
	for _, s := range stores {
		args = append(args, s.StoreID, s.StoreType.String(), s.Region.String(), s.AvgDailyBaseline, s.SizeFactor)
	}
	query := fmt.Sprintf(`INSERT INTO stores (%s) VALUES %s`,
		strings.Join(StoreHeader, ", "), placeholders(len(stores), 5))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert stores: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) insertSales(ctx context.Context, tx *sql.Tx, batch []*models.SalesRecord) error {
	args := make([]any, 0, len(batch)*salesColumns)
	for _, r := range batch {
		args = append(args,
			r.Date, r.StoreID, r.StoreType.String(), r.Region.String(),
			r.DayOfWeek, r.Month, r.Quarter, r.Year, r.WeekOfYear,
			r.IsWeekend, r.IsHoliday, r.PromotionActive,
			r.TotalSales, r.GuestCount, r.AvgTicket, r.WeatherFactor)
	}
	query := fmt.Sprintf(`INSERT INTO daily_sales (%s) VALUES %s`,
		strings.Join(SalesHeader, ", "), placeholders(len(batch), salesColumns))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert sales batch: %w", err)
	}
	return nil
}

// CountSales returns the number of stored sales rows.
func (pw *PostgresWriter) CountSales(ctx context.Context) (int, error) {
	var n int
	if err := pw.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_sales").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count sales: %w", err)
	}
	return n, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// placeholders renders "($1,$2),($3,$4)" style value lists.
func placeholders(rows, cols int) string {
	var b strings.Builder
	n := 1
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for j := 0; j < cols; j++ {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
