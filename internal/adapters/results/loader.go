// Package results loads structured race result rows from CSV and groups
// them into chronologically ordered races for the rating engine.
//
// Rows arrive pre-scraped; this package owns the boundary cleanups the
// engine is entitled to assume: disqualified riders removed, places
// normalized to a distinct 1-based sequence, unparseable times recovered as
// zero gaps.
package results

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/SamMorton123/velo-research/pkg/logger"
)

// Expected CSV header columns. Extra columns are ignored.
const (
	colYear  = "year"
	colMonth = "month"
	colDay   = "day"
	colName  = "name"
	colClass = "type"
	colPlace = "place"
	colRider = "rider"
	colAge   = "age"
	colTime  = "time"
)

// RaceResults is one race's cleaned result sheet.
type RaceResults struct {
	Race model.Race
	Rows []model.Result
}

// Loader reads race results from CSV files.
type Loader struct {
	log logger.Logger
}

// NewLoader creates a results loader.
func NewLoader(log logger.Logger) *Loader {
	return &Loader{log: log}
}

// LoadFile reads and groups a results CSV from disk.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]RaceResults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenResults, err)
	}
	defer f.Close()

	return l.Load(ctx, f)
}

// Load reads and groups a results CSV. Races come back sorted by date, then
// name, so the caller can feed them straight into a rating system.
func (l *Loader) Load(ctx context.Context, r io.Reader) ([]RaceResults, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrMalformedResults, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{colYear, colMonth, colDay, colName, colPlace, colRider} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedResults, required)
		}
	}

	grouped := make(map[string]*RaceResults)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedResults, line, err)
		}
		line++

		race, row, err := l.parseRow(ctx, cols, record)
		if err != nil {
			// Data-quality fault: drop the row, keep the run alive.
			l.log.Warn(ctx, "dropping malformed results row",
				logger.Int("line", line),
				logger.Error(err),
			)
			continue
		}

		key := race.Key()
		if _, ok := grouped[key]; !ok {
			grouped[key] = &RaceResults{Race: race}
		}
		grouped[key].Rows = append(grouped[key].Rows, row)
	}

	out := make([]RaceResults, 0, len(grouped))
	for _, rr := range grouped {
		rr.Rows = clean(rr.Rows)
		out = append(out, *rr)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Race.Date.Equal(out[j].Race.Date) {
			return out[i].Race.Date.Before(out[j].Race.Date)
		}
		return out[i].Race.Name < out[j].Race.Name
	})
	return out, nil
}

func (l *Loader) parseRow(_ context.Context, cols map[string]int, record []string) (model.Race, model.Result, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	year, err := strconv.Atoi(field(colYear))
	if err != nil {
		return model.Race{}, model.Result{}, fmt.Errorf("bad year %q", field(colYear))
	}
	month, err := strconv.Atoi(field(colMonth))
	if err != nil || month < 1 || month > 12 {
		return model.Race{}, model.Result{}, fmt.Errorf("bad month %q", field(colMonth))
	}
	day, err := strconv.Atoi(field(colDay))
	if err != nil || day < 1 || day > 31 {
		return model.Race{}, model.Result{}, fmt.Errorf("bad day %q", field(colDay))
	}

	name := field(colName)
	if name == "" {
		return model.Race{}, model.Result{}, fmt.Errorf("missing race name")
	}
	rider := field(colRider)
	if rider == "" {
		return model.Race{}, model.Result{}, fmt.Errorf("missing rider name")
	}

	place, err := strconv.Atoi(field(colPlace))
	if err != nil || place < 0 {
		return model.Race{}, model.Result{}, fmt.Errorf("bad place %q", field(colPlace))
	}

	// Unparseable or absent times fall back to "no time advantage" rather
	// than dropping the row.
	var gap time.Duration
	if secs, err := strconv.Atoi(field(colTime)); err == nil && secs > 0 && place != 0 {
		gap = time.Duration(secs) * time.Second
	}

	// A missing age is recoverable; zero stands in as the sentinel.
	age, _ := strconv.Atoi(field(colAge))

	race := model.Race{
		Name:  name,
		Date:  time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		Class: field(colClass),
	}
	row := model.Result{
		Rider: rider,
		Place: place,
		Gap:   gap,
		Age:   age,
	}
	return race, row, nil
}

// clean removes disqualified riders and normalizes places.
//
// When a rider is disqualified after publication, the row that follows them
// in the table repeats their place; the earlier row is the removed rider
// and is dropped. Surviving rows are then re-numbered into a distinct
// 1-based sequence (winner sentinel 0 sorts first), which is the contract
// the rating engine assumes.
func clean(rows []model.Result) []model.Result {
	kept := make([]model.Result, 0, len(rows))
	for i, row := range rows {
		if i+1 < len(rows) && rows[i+1].Place == row.Place {
			continue
		}
		kept = append(kept, row)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Place < kept[j].Place })
	for i := range kept {
		kept[i].Place = i + 1
	}
	return kept
}
