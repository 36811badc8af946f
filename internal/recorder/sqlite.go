package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists runs and their series to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so a dashboard can read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	zap.S().Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                  TEXT PRIMARY KEY,
			timestamp           INTEGER NOT NULL,
			source              TEXT,
			seed                INTEGER,
			capital_per_asset   REAL,
			initial_capital     REAL,
			short_failure_rate  REAL,
			long_failure_rate   REAL,
			success_multiplier  REAL,
			time_horizon_hours  INTEGER,
			ev_per_asset        REAL,
			purchases           INTEGER,
			pending             INTEGER,
			short_success       INTEGER,
			failed              INTEGER,
			success             INTEGER,
			total_payout        REAL,
			final_cash          REAL,
			final_aum           REAL,
			final_equity        REAL,
			peak_cash           REAL,
			max_drawdown        REAL,
			return_multiple     REAL,
			first_payout_hour   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_series (
			run_id         TEXT NOT NULL REFERENCES runs(id),
			hour           INTEGER NOT NULL,
			cash_on_hand   REAL,
			aum            REAL,
			expected_value REAL,
			PRIMARY KEY (run_id, hour)
		)`,

		`CREATE TABLE IF NOT EXISTS batches (
			id                  TEXT PRIMARY KEY,
			timestamp           INTEGER NOT NULL,
			source              TEXT,
			seed                INTEGER,
			trials              INTEGER,
			capital_per_asset   REAL,
			initial_capital     REAL,
			short_failure_rate  REAL,
			long_failure_rate   REAL,
			success_multiplier  REAL,
			time_horizon_hours  INTEGER,
			ev_per_asset        REAL,
			mean_final_equity   REAL,
			median_final_equity REAL,
			p5_final_equity     REAL,
			p95_final_equity    REAL,
			mean_final_cash     REAL,
			prob_profit         REAL,
			mean_successes      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_ts ON batches(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	p, s := rec.Params, rec.Summary
	var evPerAsset float64
	if rec.Result != nil {
		evPerAsset = rec.Result.ExpectedValuePerAsset
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// seeds are stored as their int64 bit pattern; database/sql rejects
	// uint64 values with the high bit set
	_, err = tx.Exec(`INSERT INTO runs
		(id, timestamp, source, seed,
		 capital_per_asset, initial_capital, short_failure_rate, long_failure_rate,
		 success_multiplier, time_horizon_hours, ev_per_asset,
		 purchases, pending, short_success, failed, success,
		 total_payout, final_cash, final_aum, final_equity,
		 peak_cash, max_drawdown, return_multiple, first_payout_hour)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, time.Now().Unix(), string(rec.Source), int64(rec.Seed),
		p.CapitalPerAsset, p.InitialCapital, p.ShortFailureRate, p.LongFailureRate,
		p.SuccessMultiplier, p.TimeHorizonHours, evPerAsset,
		s.Purchases, s.Pending, s.ShortSuccess, s.Failed, s.Success,
		s.TotalPayout, s.FinalCash, s.FinalAUM, s.FinalEquity,
		s.PeakCash, s.MaxDrawdown, s.ReturnMultiple, s.FirstPayoutHour,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if res := rec.Result; res != nil {
		stmt, err := tx.Prepare(`INSERT INTO run_series
			(run_id, hour, cash_on_hand, aum, expected_value) VALUES (?,?,?,?,?)`)
		if err != nil {
			return fmt.Errorf("prepare series insert: %w", err)
		}
		defer stmt.Close()
		for i, h := range res.TimeAxis {
			if _, err := stmt.Exec(rec.ID, h, res.CashOnHand[i], res.AUM[i], res.ExpectedValue[i]); err != nil {
				return fmt.Errorf("insert series hour %d: %w", h, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordBatch(rec *BatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	p, s := rec.Params, rec.Summary
	_, err := r.db.Exec(`INSERT INTO batches
		(id, timestamp, source, seed, trials,
		 capital_per_asset, initial_capital, short_failure_rate, long_failure_rate,
		 success_multiplier, time_horizon_hours, ev_per_asset,
		 mean_final_equity, median_final_equity, p5_final_equity, p95_final_equity,
		 mean_final_cash, prob_profit, mean_successes)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, time.Now().Unix(), string(rec.Source), int64(s.Seed), s.Trials,
		p.CapitalPerAsset, p.InitialCapital, p.ShortFailureRate, p.LongFailureRate,
		p.SuccessMultiplier, p.TimeHorizonHours, s.ExpectedValuePerAsset,
		s.MeanFinalEquity, s.MedianFinalEquity, s.P5FinalEquity, s.P95FinalEquity,
		s.MeanFinalCash, s.ProbProfit, s.MeanSuccesses,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, source, seed, purchases, success,
		final_equity, return_multiple, ev_per_asset
		FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var row RunRow
		var ts, seed int64
		var source string
		if err := rows.Scan(&row.ID, &ts, &source, &seed, &row.Purchases, &row.Success,
			&row.FinalEquity, &row.ReturnMultiple, &row.ExpectedValuePerAsset); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		row.Timestamp = time.Unix(ts, 0)
		row.Source = Source(source)
		row.Seed = uint64(seed)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	zap.S().Info("closing sqlite recorder")
	return r.db.Close()
}
