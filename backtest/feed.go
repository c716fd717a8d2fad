// Package backtest streams bars from datasets through the simulation
// engine and reports per-run and cross-run results.
package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/market"
)

// BarFeed is a forward-only, non-restartable bar stream.
type BarFeed interface {
	// Next returns the next bar. ok=false means clean end of stream.
	Next() (b market.Bar, ok bool, err error)
	Close() error
}

// CSVFeed reads OHLCV CSV rows:
//
//	timestamp,open,high,low,close,volume
//
// where timestamp is unix milliseconds or RFC3339. A header row is
// allowed, short/empty rows are skipped, and a `.xz` dataset is
// decompressed transparently. Rows are optionally filtered to [From, To).
type CSVFeed struct {
	f    *os.File
	r    *csv.Reader
	from time.Time
	to   time.Time

	sawFirst bool
}

func NewCSVFeed(path string, from, to time.Time) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		src = xr
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	return &CSVFeed{f: f, r: r, from: from, to: to}, nil
}

func (f *CSVFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVFeed) Next() (market.Bar, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return market.Bar{}, false, nil
		}
		if err != nil {
			return market.Bar{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "timestamp") {
				continue
			}
		}

		b, ok, err := parseBarRow(row)
		if err != nil {
			return market.Bar{}, false, err
		}
		if !ok {
			continue
		}
		if !inRange(b.Time, f.from, f.to) {
			continue
		}
		return b, true, nil
	}
}

func parseBarRow(row []string) (market.Bar, bool, error) {
	// Need at least: timestamp,open,high,low,close,volume
	if len(row) < 6 {
		return market.Bar{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Bar{}, false, nil
	}

	var b market.Bar
	if ms, err := strconv.ParseInt(ts, 10, 64); err == nil {
		b.Time = time.UnixMilli(ms).UTC()
	} else {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad timestamp %q: %w", ts, err)
		}
		b.Time = t
	}

	fields := []*float64{&b.Open, &b.High, &b.Low, &b.Close, &b.Volume}
	names := []string{"open", "high", "low", "close", "volume"}
	for i, dst := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		*dst = v
	}

	return b, true, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// SliceFeed serves bars from memory, for tests and pre-annotated series.
type SliceFeed struct {
	bars []market.Bar
	next int
}

func NewSliceFeed(bars []market.Bar) *SliceFeed {
	return &SliceFeed{bars: bars}
}

func (f *SliceFeed) Next() (market.Bar, bool, error) {
	if f.next >= len(f.bars) {
		return market.Bar{}, false, nil
	}
	b := f.bars[f.next]
	f.next++
	return b, true, nil
}

func (f *SliceFeed) Close() error { return nil }
