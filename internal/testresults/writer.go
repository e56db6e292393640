package testresults

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/SamMorton123/velo-research/pkg/logger"
)

const outputFilePermission = 0o600

// Run generates synthetic results per the config and writes them as CSV to
// the configured output file.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Stats, error) {
	g := newGenerator(cfg, log)
	rows, stats, err := g.generate(ctx)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := write(f, rows); err != nil {
		return nil, err
	}
	log.Info(ctx, "wrote synthetic results", logger.String("file", cfg.OutputFile))
	return stats, nil
}

// write emits rows in the loader's expected column order.
func write(w io.Writer, rows []row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "month", "day", "name", "type", "place", "rider", "age", "time"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.year),
			strconv.Itoa(r.month),
			strconv.Itoa(r.day),
			r.race,
			r.class,
			strconv.Itoa(r.place),
			r.rider,
			strconv.Itoa(r.age),
			strconv.Itoa(r.gapSeconds),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
