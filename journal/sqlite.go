package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrRunNotFound = errors.New("run not found")

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

const runColumns = `run_id, created, strategy, pair, timeframe, dataset, config,
	start_time, end_time, row_count, warmup_rows,
	enter_long, enter_short, exit_long, exit_short`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func (j *SQLiteJournal) RecordRun(ctx context.Context, r SignalRun) error {
	return insertRun(ctx, j.db, r)
}

// RecordRows inserts rows in a single transaction.
func (j *SQLiteJournal) RecordRows(ctx context.Context, rows []SignalRow) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRows(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

// Record stores a run and its rows in one transaction. If any row fails
// the run is not kept either.
func (j *SQLiteJournal) Record(ctx context.Context, run SignalRun, rows []SignalRow) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRun(ctx, tx, run); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRun(ctx context.Context, db execer, r SignalRun) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO signal_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Strategy, r.Pair, r.Timeframe, r.Dataset, r.Config,
		r.Start.UTC(), r.End.UTC(), r.Rows, r.Warmup,
		r.EnterLong, r.EnterShort, r.ExitLong, r.ExitShort,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}
	return nil
}

func insertRows(ctx context.Context, db execer, rows []SignalRow) error {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO signal_rows
		(run_id, time, close, volume, ema9, ema21, macd, macdsignal, rsi, adx,
		 bb_upperband, bb_lowerband, enter_long, enter_short, exit_long, exit_short)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.RunID, r.Time.UTC(), r.Close, r.Volume,
			nullable(r.EMA9), nullable(r.EMA21), nullable(r.MACD), nullable(r.MACDSignal),
			nullable(r.RSI), nullable(r.ADX), nullable(r.BBUpper), nullable(r.BBLower),
			r.EnterLong, r.EnterShort, r.ExitLong, r.ExitShort,
		)
		if err != nil {
			return fmt.Errorf("insert row %s@%s: %w", r.RunID, r.Time.Format(time.RFC3339), err)
		}
	}
	return nil
}

// GetRun returns a single run by ID.
func (j *SQLiteJournal) GetRun(ctx context.Context, runID string) (SignalRun, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM signal_runs
		WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SignalRun{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return SignalRun{}, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (j *SQLiteJournal) ListRuns(ctx context.Context, limit int) ([]SignalRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM signal_runs
		ORDER BY created DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRows returns a run's rows in time order.
func (j *SQLiteJournal) ListRows(ctx context.Context, runID string) ([]SignalRow, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, time, close, volume, ema9, ema21, macd, macdsignal, rsi, adx,
		       bb_upperband, bb_lowerband, enter_long, enter_short, exit_long, exit_short
		FROM signal_rows
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRow
	for rows.Next() {
		var (
			r    SignalRow
			vals [8]sql.NullFloat64
		)
		if err := rows.Scan(
			&r.RunID, &r.Time, &r.Close, &r.Volume,
			&vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5], &vals[6], &vals[7],
			&r.EnterLong, &r.EnterShort, &r.ExitLong, &r.ExitShort,
		); err != nil {
			return nil, err
		}
		r.EMA9 = orNaN(vals[0])
		r.EMA21 = orNaN(vals[1])
		r.MACD = orNaN(vals[2])
		r.MACDSignal = orNaN(vals[3])
		r.RSI = orNaN(vals[4])
		r.ADX = orNaN(vals[5])
		r.BBUpper = orNaN(vals[6])
		r.BBLower = orNaN(vals[7])
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (SignalRun, error) {
	var r SignalRun
	err := s.Scan(
		&r.RunID, &r.Created, &r.Strategy, &r.Pair, &r.Timeframe, &r.Dataset, &r.Config,
		&r.Start, &r.End, &r.Rows, &r.Warmup,
		&r.EnterLong, &r.EnterShort, &r.ExitLong, &r.ExitShort,
	)
	return r, err
}

// nullable stores NaN and ±Inf as NULL.
func nullable(x float64) any {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
