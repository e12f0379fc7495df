package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"step_id", "time", "ticker", "action",
		"requested", "executed", "price",
		"account_before", "account_after", "holdings",
	}); err != nil {
		f.Close()
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordStep(s StepRecord) error {
	err := j.w.Write([]string{
		s.StepID,
		s.Time.Format(time.RFC3339),
		s.Ticker,
		s.Action,
		f(s.Requested),
		f(s.Executed),
		f(s.Price),
		f(s.AccountBefore),
		f(s.AccountAfter),
		f(s.Holdings),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
