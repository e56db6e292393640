package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/SamMorton123/velo-research/internal/testresults"
	"github.com/SamMorton123/velo-research/pkg/logger"
)

// Default generation constants.
const (
	defaultRiders     = 500
	defaultStartYear  = 2016
	defaultSeasons    = 5
	defaultRacesPerYr = 40
	defaultMaxField   = 150
	defaultGenTimeout = 5 * time.Minute
	defaultOutputFile = "generated_results.csv"
)

func main() {
	var (
		riders    = flag.Int("riders", defaultRiders, "Size of the rider pool")
		startYear = flag.Int("start-year", defaultStartYear, "First season year")
		seasons   = flag.Int("seasons", defaultSeasons, "Number of consecutive seasons")
		races     = flag.Int("races", defaultRacesPerYr, "Races generated per season")
		maxField  = flag.Int("max-field", defaultMaxField, "Upper bound on riders per race")
		output    = flag.String("output", defaultOutputFile, "Output CSV file")
		seed      = flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultGenTimeout)
	defer cancel()

	cfg := &testresults.Config{
		NumRiders:      *riders,
		StartYear:      *startYear,
		Seasons:        *seasons,
		RacesPerSeason: *races,
		MaxFieldSize:   *maxField,
		OutputFile:     *output,
		Seed:           *seed,
	}

	if _, err := testresults.Run(ctx, cfg, logger.Get()); err != nil {
		os.Stderr.WriteString("generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
