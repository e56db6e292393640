package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// historyHeader is the column layout of an exported rating timeline.
var historyHeader = []string{"rider", "date", "rating", "deviation", "volatility", "new_season"}

// ExportHistory writes the rating timelines of the given snapshots as CSV,
// one row per rating point, riders in the order given.
func ExportHistory(w io.Writer, snaps []Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return fmt.Errorf("%w: header: %w", ErrArchiveWrite, err)
	}

	for _, snap := range snaps {
		for _, point := range snap.History {
			row := []string{
				snap.Name,
				point.Date.Format("2006-01-02"),
				strconv.FormatFloat(point.Rating, 'f', 2, 64),
				strconv.FormatFloat(point.Deviation, 'f', 2, 64),
				strconv.FormatFloat(point.Volatility, 'f', 4, 64),
				strconv.FormatBool(point.NewSeason),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("%w: rider %q: %w", ErrArchiveWrite, snap.Name, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flushing: %w", ErrArchiveWrite, err)
	}
	return nil
}
