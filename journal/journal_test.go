package journal

import (
	"context"
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/momentum/market"
	"github.com/rustyeddy/momentum/market/strategies"
	"github.com/rustyeddy/momentum/pkg/id"
)

var t0 = time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func sampleRun(runID string, created time.Time) SignalRun {
	return SignalRun{
		RunID:      runID,
		Created:    created,
		Strategy:   strategies.MomentumName,
		Pair:       "BTC/USDT",
		Timeframe:  "5m",
		Dataset:    "btc.csv",
		Config:     []byte(`{"ema_fast":9}`),
		Start:      t0,
		End:        t0.Add(time.Hour),
		Rows:       13,
		Warmup:     50,
		EnterLong:  2,
		EnterShort: 0,
		ExitLong:   5,
		ExitShort:  1,
	}
}

func sampleRows(runID string) []SignalRow {
	return []SignalRow{
		{RunID: runID, Time: t0, Close: 100, Volume: 10,
			EMA9: math.NaN(), EMA21: math.NaN(), MACD: math.NaN(), MACDSignal: math.NaN(),
			RSI: math.NaN(), ADX: math.NaN(), BBUpper: math.NaN(), BBLower: math.NaN()},
		{RunID: runID, Time: t0.Add(5 * time.Minute), Close: 101, Volume: 12,
			EMA9: 100.5, EMA21: 100.1, MACD: 0.2, MACDSignal: 0.1, RSI: 61, ADX: 30,
			BBUpper: 103, BBLower: 97, EnterLong: true, ExitShort: true},
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('signal_runs','signal_rows')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())
	assert.True(t, found["signal_runs"])
	assert.True(t, found["signal_rows"])
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	runID := id.NewAt(t0)
	want := sampleRun(runID, t0)
	require.NoError(t, j.RecordRun(ctx, want))

	got, err := j.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, want.RunID, got.RunID)
	assert.True(t, want.Created.Equal(got.Created))
	assert.True(t, want.End.Equal(got.End))
	assert.Equal(t, want.Config, got.Config)
	assert.Equal(t, want.Rows, got.Rows)
	assert.Equal(t, want.Warmup, got.Warmup)
	assert.Equal(t, want.ExitLong, got.ExitLong)

	_, err = j.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	// duplicate run IDs are rejected
	assert.Error(t, j.RecordRun(ctx, want))
}

func TestSQLiteListRuns(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	var ids []string
	for i := 0; i < 3; i++ {
		created := t0.Add(time.Duration(i) * time.Minute)
		runID := id.NewAt(created)
		ids = append(ids, runID)
		require.NoError(t, j.RecordRun(ctx, sampleRun(runID, created)))
	}

	runs, err := j.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].RunID)
	assert.Equal(t, ids[0], runs[2].RunID)

	runs, err = j.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLiteRows(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	runID := id.New()
	require.NoError(t, j.RecordRun(ctx, sampleRun(runID, t0)))
	require.NoError(t, j.RecordRows(ctx, sampleRows(runID)))

	got, err := j.ListRows(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, math.IsNaN(got[0].RSI), "NaN stored as NULL reads back as NaN")
	assert.Equal(t, 100.0, got[0].Close)
	assert.False(t, got[0].EnterLong)

	assert.Equal(t, 61.0, got[1].RSI)
	assert.True(t, got[1].EnterLong)
	assert.True(t, got[1].ExitShort)
	assert.False(t, got[1].ExitLong)
	assert.True(t, t0.Add(5*time.Minute).Equal(got[1].Time))

	none, err := j.ListRows(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRecordIsAtomic(t *testing.T) {
	ctx := context.Background()
	j, _ := newTestSQLite(t)

	runID := id.New()
	require.NoError(t, j.Record(ctx, sampleRun(runID, t0), sampleRows(runID)))
	_, err := j.GetRun(ctx, runID)
	require.NoError(t, err)
	rows, err := j.ListRows(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// A repeated bar time violates the rows primary key.
	badID := id.New()
	bad := sampleRows(badID)
	bad[1].Time = bad[0].Time
	assert.Error(t, j.Record(ctx, sampleRun(badID, t0), bad))

	_, err = j.GetRun(ctx, badID)
	assert.ErrorIs(t, err, ErrRunNotFound)
	rows, err = j.ListRows(ctx, badID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVJournal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rowsPath := filepath.Join(dir, "signals.csv")
	runsPath := RunsPathFor(rowsPath)
	assert.Equal(t, filepath.Join(dir, "signals.runs.csv"), runsPath)

	j, err := NewCSV(rowsPath, runsPath)
	require.NoError(t, err)

	runID := id.New()
	require.NoError(t, j.Record(ctx, sampleRun(runID, t0), sampleRows(runID)))
	require.NoError(t, j.Close())

	readAll := func(path string) [][]string {
		fh, err := os.Open(path)
		require.NoError(t, err)
		defer fh.Close()
		recs, err := csv.NewReader(fh).ReadAll()
		require.NoError(t, err)
		return recs
	}

	rows := readAll(rowsPath)
	require.Len(t, rows, 3)
	assert.Equal(t, rowHeader, rows[0])
	assert.Equal(t, "", rows[1][8], "NaN rsi is an empty cell")
	assert.Equal(t, "61.000000", rows[2][8])
	assert.Equal(t, "1", rows[2][12])
	assert.Equal(t, "0", rows[2][14])

	runs := readAll(runsPath)
	require.Len(t, runs, 2)
	assert.Equal(t, runID, runs[1][0])
	assert.Equal(t, "13", runs[1][8])
}

func TestNewRows(t *testing.T) {
	cs := make([]market.Candle, 80)
	p := 100.0
	for i := range cs {
		p += math.Sin(float64(i) / 3)
		cs[i] = market.Candle{Time: t0.Add(time.Duration(i) * 5 * time.Minute),
			Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 100}
	}
	f := market.NewFrame("BTC/USDT", "5m", cs)

	// bare frame: indicators undefined, no signals
	bare := NewRows("r0", f)
	require.Len(t, bare, 80)
	assert.True(t, math.IsNaN(bare[79].RSI))
	assert.False(t, bare[79].ExitLong)

	s, err := strategies.NewShortTermMomentum(strategies.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, strategies.Populate(s, f))

	rows := NewRows("r1", f)
	require.Len(t, rows, 80)
	assert.Equal(t, "r1", rows[0].RunID)
	assert.Equal(t, f.Column(strategies.ColRSI)[79], rows[79].RSI)
	assert.Equal(t, f.Flags(strategies.ExitLong)[79], rows[79].ExitLong)
	assert.True(t, math.IsNaN(rows[0].EMA9))
}

func TestFormatRunOrg(t *testing.T) {
	run := sampleRun("01HQ0000000000000000000000", t0)
	out, err := FormatRunOrg(run)
	require.NoError(t, err)

	assert.Contains(t, out, "* SIGNALS: BTC/USDT 5m (01HQ0000)")
	assert.Contains(t, out, ":RUN_ID:      01HQ0000000000000000000000")
	assert.Contains(t, out, ":WARMUP:      50")
	assert.Contains(t, out, "| exit_long   | 5 |")
	assert.Contains(t, out, `{"ema_fast":9}`)

	table := FormatRowsOrg(sampleRows("x"))
	assert.Contains(t, table, "| X |  |  | X |")
	// the first row has no signals and is left out
	assert.NotContains(t, table, "100.00000")
}
