package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
)

// ErrMalformedSeries indicates a historical data file that could not be
// parsed. Loading is all-or-nothing: a single bad numeric cell fails the
// whole load rather than skipping the row.
var ErrMalformedSeries = errors.New("malformed series data")

// Series is an immutable, column-oriented view of a historical OHLC
// sequence. It is built once at load time and never mutated afterwards;
// accessors hand out copies so callers cannot reach the backing arrays.
type Series struct {
	open  []float64
	high  []float64
	low   []float64
	close []float64
}

// NewSeries builds a Series from candles, oldest first.
func NewSeries(candles []Candle) *Series {
	s := &Series{
		open:  make([]float64, len(candles)),
		high:  make([]float64, len(candles)),
		low:   make([]float64, len(candles)),
		close: make([]float64, len(candles)),
	}
	for i, c := range candles {
		s.open[i] = c.Open
		s.high[i] = c.High
		s.low[i] = c.Low
		s.close[i] = c.Close
	}
	return s
}

func (s *Series) Len() int { return len(s.close) }

func (s *Series) Open(i int) float64  { return s.open[i] }
func (s *Series) High(i int) float64  { return s.high[i] }
func (s *Series) Low(i int) float64   { return s.low[i] }
func (s *Series) Close(i int) float64 { return s.close[i] }

// CloseRange returns a copy of close[from:to], oldest first.
func (s *Series) CloseRange(from, to int) []float64 {
	out := make([]float64, to-from)
	copy(out, s.close[from:to])
	return out
}

// LoadCSV reads a historical series from a row-oriented file with columns
//
//	date,open,high,low,close[,...]
//
// A single header row is allowed. Only the four OHLC columns are parsed;
// trailing columns are ignored. Files ending in .xz are decompressed
// transparently.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz stream %s: %w", path, err)
		}
		src = xr
	}

	return ReadCSV(src)
}

// ReadCSV parses series rows from r. See LoadCSV for the format.
func ReadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	s := &Series{}
	sawFirst := false

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSeries, err)
		}

		// Allow a single header row.
		if !sawFirst {
			sawFirst = true
			if isHeaderRow(row) {
				continue
			}
		}

		if len(row) < 5 {
			return nil, fmt.Errorf("%w: row has %d columns, need at least 5", ErrMalformedSeries, len(row))
		}

		var vals [4]float64
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad value %q in column %d", ErrMalformedSeries, row[i+1], i+1)
			}
			vals[i] = v
		}

		s.open = append(s.open, vals[0])
		s.high = append(s.high, vals[1])
		s.low = append(s.low, vals[2])
		s.close = append(s.close, vals[3])
	}

	if s.Len() == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedSeries)
	}
	return s, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "date" || first == "time" || first == "timestamp"
}
