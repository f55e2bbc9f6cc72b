package market

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandles(n int) []Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Candle, n)
	for i := range out {
		p := 100 + float64(i)
		out[i] = Candle{
			Time:   base.Add(time.Duration(i) * 5 * time.Minute),
			Open:   p,
			High:   p + 1,
			Low:    p - 1,
			Close:  p + 0.5,
			Volume: 1000 + float64(i),
		}
	}
	return out
}

func TestNewFrame(t *testing.T) {
	cs := testCandles(5)
	f := NewFrame("BTC/USDT", "5m", cs)

	assert.Equal(t, 5, f.Len())
	assert.Equal(t, cs[3], f.Candle(3))
	assert.Equal(t, cs, f.Candles())
	assert.Equal(t, f.Close, f.Column(ColClose))
	assert.Nil(t, f.Column("ema9"))
	assert.Empty(t, f.Columns())
}

func TestFrameAppendOnly(t *testing.T) {
	f := NewFrame("BTC/USDT", "5m", testCandles(4))

	require.NoError(t, f.AddColumn("x", Series{1, 2, 3, 4}))
	require.NoError(t, f.AddFlags("go", []bool{true, false, true, false}))

	err := f.AddColumn("x", Series{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrColumnExists)

	err = f.AddColumn(ColClose, Series{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrColumnExists)

	err = f.AddFlags("x", []bool{true, true, true, true})
	assert.ErrorIs(t, err, ErrColumnExists)

	err = f.AddColumn("short", Series{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = f.AddFlags("short", []bool{true})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	assert.Equal(t, []string{"x"}, f.Columns())
	assert.Equal(t, []string{"go"}, f.FlagNames())
	assert.Equal(t, 2, f.Count("go"))
	assert.Equal(t, 0, f.Count("missing"))
}

func TestFrameRequire(t *testing.T) {
	f := NewFrame("ETH/USDT", "5m", nil)
	assert.NoError(t, f.Require(ColOpen, ColHigh, ColLow, ColClose, ColVolume))

	err := f.Require(ColClose, "rsi")
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "rsi")
}

func TestFrameSkipAndTail(t *testing.T) {
	f := NewFrame("BTC/USDT", "5m", testCandles(6))
	require.NoError(t, f.AddColumn("x", Series{0, 1, 2, 3, 4, 5}))
	require.NoError(t, f.AddFlags("b", []bool{false, false, false, true, false, true}))

	s := f.Skip(4)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, Series{4, 5}, s.Column("x"))
	assert.Equal(t, []bool{false, true}, s.Flags("b"))
	assert.Equal(t, f.Time[4], s.Time[0])

	tl := f.Tail(3)
	assert.Equal(t, Series{3, 4, 5}, tl.Column("x"))
	assert.Equal(t, 2, tl.Count("b"))

	// copies do not alias the source
	tl.Column("x")[0] = 99
	assert.Equal(t, 3.0, f.Column("x")[3])

	assert.Equal(t, 0, f.Skip(100).Len())
	assert.Equal(t, 6, f.Tail(100).Len())
	assert.Equal(t, 6, f.Skip(-1).Len())
}

func TestSeriesValid(t *testing.T) {
	s := Series{1, math.NaN(), math.Inf(1)}
	assert.True(t, s.Valid(0))
	assert.False(t, s.Valid(1))
	assert.False(t, s.Valid(2))
	assert.False(t, s.Valid(3))
	assert.False(t, s.Valid(-1))
	assert.True(t, math.IsNaN(s.At(9)))

	n := NaNSeries(3)
	assert.Len(t, n, 3)
	for i := range n {
		assert.False(t, n.Valid(i))
	}
}

func TestReadCandlesCSV(t *testing.T) {
	in := `time,open,high,low,close,volume
2024-01-01T00:00:00Z,1,2,0.5,1.5,10
2024-01-01T00:05:00Z,1.5,2.5,1,2,12
1704067800,2,3,1.5,2.5,14
`
	cs, err := ReadCandlesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cs, 3)
	assert.Equal(t, 2.5, cs[1].High)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC), cs[2].Time)
	assert.Equal(t, 14.0, cs[2].Volume)
}

func TestReadCandlesCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"short row", "2024-01-01T00:00:00Z,1,2,3\n", "need 6 columns"},
		{"bad price", "2024-01-01T00:00:00Z,1,x,0,1,1\n", "bad high"},
		{"bad time", "yesterday,1,2,0,1,1\n", "bad time"},
		{"out of order", "1704067800,1,2,0,1,1\n1704067500,1,2,0,1,1\n", "not after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCandlesCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestCandlesCSVRoundTrip(t *testing.T) {
	cs := testCandles(10)
	path := filepath.Join(t.TempDir(), "candles.csv")

	var buf bytes.Buffer
	require.NoError(t, WriteCandlesCSV(&buf, cs))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	got, err := LoadCandlesCSV(path)
	require.NoError(t, err)
	assert.Equal(t, cs, got)

	_, err = LoadCandlesCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestTimeframes(t *testing.T) {
	for _, tf := range []string{"5m", "M5"} {
		d, err := ParseTimeframe(tf)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, d)
	}

	_, err := TFStringToSeconds("7m")
	assert.Error(t, err)

	tests := []struct {
		sec  int32
		want string
	}{
		{300, "M5"},
		{900, "M15"},
		{3600, "H1"},
		{14400, "H4"},
		{86400, "D1"},
		{604800, "W1"},
	}
	for _, tt := range tests {
		got, err := SecondsToTFString(tt.sec)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err = SecondsToTFString(0)
	assert.Error(t, err)
	_, err = SecondsToTFString(90)
	assert.Error(t, err)

	for _, tf := range []string{"5m", "M5"} {
		got, err := BrokerTimeframe(tf)
		require.NoError(t, err)
		assert.Equal(t, "M5", got)
	}
	_, err = BrokerTimeframe("7m")
	assert.Error(t, err)
}
