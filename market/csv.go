package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a bar series for a single symbol from a CSV file with
// columns time,open,high,low,close,volume. A header row is detected by the
// first column reading "time" (case-insensitive). Timestamps are RFC3339.
// The returned series is sorted by timestamp ascending.
func LoadCSV(path, symbol string) (Bars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bars, err := ReadCSV(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// ReadCSV parses bar rows from r. See LoadCSV for the expected format.
func ReadCSV(r io.Reader, symbol string) (Bars, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars Bars

	firstRow, err := cr.Read()
	if err == io.EOF {
		return bars, nil
	}
	if err != nil {
		return nil, err
	}

	hasHeader := len(firstRow) > 0 && strings.EqualFold(strings.TrimSpace(firstRow[0]), "time")
	if !hasHeader {
		b, err := parseBarRow(firstRow, symbol)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		b, err := parseBarRow(row, symbol)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	bars.SortByTime()
	return bars, nil
}

func parseBarRow(row []string, symbol string) (Bar, error) {
	if len(row) < 5 {
		return Bar{}, fmt.Errorf("bad row (need at least time,open,high,low,close): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Bar{}, fmt.Errorf("bad time %q: %w", row[0], err)
		}
		t = t2
	}

	vals := make([]float64, 4)
	names := []string{"open", "high", "low", "close"}
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		vals[i] = v
	}

	var volume float64
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		volume, err = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
	}

	return Bar{
		Time:   t,
		Symbol: symbol,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: volume,
	}, nil
}
