package journal

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	rowHeader = []string{"run_id", "time", "close", "volume", "ema9", "ema21", "macd", "macdsignal",
		"rsi", "adx", "bb_upperband", "bb_lowerband", "enter_long", "enter_short", "exit_long", "exit_short"}
	runHeader = []string{"run_id", "created", "strategy", "pair", "timeframe", "dataset",
		"start", "end", "rows", "warmup", "enter_long", "enter_short", "exit_long", "exit_short"}
)

// CSVJournal appends runs and rows to two CSV files.
type CSVJournal struct {
	runs   *csv.Writer
	rows   *csv.Writer
	rf, wf *os.File
}

// RunsPathFor derives the runs file next to a rows file:
// signals.csv -> signals.runs.csv.
func RunsPathFor(rowsPath string) string {
	ext := filepath.Ext(rowsPath)
	return strings.TrimSuffix(rowsPath, ext) + ".runs" + ext
}

func NewCSV(rowsPath, runsPath string) (*CSVJournal, error) {
	wf, err := os.Create(rowsPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		wf.Close()
		return nil, err
	}

	j := &CSVJournal{
		runs: csv.NewWriter(rf),
		rows: csv.NewWriter(wf),
		rf:   rf,
		wf:   wf,
	}
	if err := j.writeFlush(j.rows, rowHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if err := j.writeFlush(j.runs, runHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordRun(_ context.Context, r SignalRun) error {
	return j.writeFlush(j.runs, []string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339),
		r.Strategy,
		r.Pair,
		r.Timeframe,
		r.Dataset,
		r.Start.UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339),
		strconv.Itoa(r.Rows),
		strconv.Itoa(r.Warmup),
		strconv.Itoa(r.EnterLong),
		strconv.Itoa(r.EnterShort),
		strconv.Itoa(r.ExitLong),
		strconv.Itoa(r.ExitShort),
	})
}

func (j *CSVJournal) RecordRows(ctx context.Context, rows []SignalRow) error {
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := j.rows.Write([]string{
			r.RunID,
			r.Time.UTC().Format(time.RFC3339),
			f(r.Close), f(r.Volume),
			f(r.EMA9), f(r.EMA21), f(r.MACD), f(r.MACDSignal),
			f(r.RSI), f(r.ADX), f(r.BBUpper), f(r.BBLower),
			b(r.EnterLong), b(r.EnterShort), b(r.ExitLong), b(r.ExitShort),
		})
		if err != nil {
			return err
		}
	}
	j.rows.Flush()
	return j.rows.Error()
}

// Record appends the run line, then its rows. A failure in the rows
// leaves the run line in place.
func (j *CSVJournal) Record(ctx context.Context, run SignalRun, rows []SignalRow) error {
	if err := j.RecordRun(ctx, run); err != nil {
		return err
	}
	return j.RecordRows(ctx, rows)
}

func (j *CSVJournal) Close() error {
	j.rows.Flush()
	if err := j.rows.Error(); err != nil {
		j.closeFiles()
		return err
	}
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		j.closeFiles()
		return err
	}
	return j.closeFiles()
}

func (j *CSVJournal) writeFlush(w *csv.Writer, rec []string) error {
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) closeFiles() error {
	err := j.wf.Close()
	if rerr := j.rf.Close(); err == nil {
		err = rerr
	}
	return err
}

// f leaves undefined values as empty cells.
func f(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func b(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
