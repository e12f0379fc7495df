package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const sampleCSV = `date,open,high,low,close,volume
2024-01-02,10,11,9,10,1000
2024-01-03,11,12,10,11,1100
2024-01-04,12,13,11,12,1200
`

func TestReadCSV(t *testing.T) {
	s, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, 10.0, s.Open(0))
	assert.Equal(t, 13.0, s.High(2))
	assert.Equal(t, 10.0, s.Low(1))
	assert.Equal(t, 12.0, s.Close(2))
}

func TestReadCSVWithoutHeader(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("2024-01-02,10,11,9,10,1000\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestReadCSVMalformedCellIsFatal(t *testing.T) {
	csv := "date,open,high,low,close\n2024-01-02,10,oops,9,10\n"

	_, err := ReadCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSeries)
}

func TestReadCSVShortRowIsFatal(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("2024-01-02,10,11\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSeries)
}

func TestReadCSVEmptyInputIsFatal(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("date,open,high,low,close\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSeries)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestLoadCSVTransparentXZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv.xz")

	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 12.0, s.Close(2))
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestNewSeriesFromCandles(t *testing.T) {
	s := NewSeries([]Candle{
		{Open: 9.5, High: 11, Low: 9, Close: 10},
		{Open: 10.5, High: 12, Low: 10, Close: 11},
	})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, 9.5, s.Open(0))
	assert.Equal(t, 12.0, s.High(1))
	assert.Equal(t, 9.0, s.Low(0))
	assert.Equal(t, 11.0, s.Close(1))
}

func TestCloseRangeReturnsCopy(t *testing.T) {
	s := NewSeries([]Candle{
		{Close: 1}, {Close: 2}, {Close: 3},
	})

	window := s.CloseRange(0, 3)
	assert.Equal(t, []float64{1, 2, 3}, window)

	window[0] = -1
	assert.Equal(t, 1.0, s.Close(0), "series must stay immutable")
}
