// Package service provides the core business service that replays race
// results through a rating system and implements the dependencies required
// by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/SamMorton123/velo-research/internal/adapters/archive"
	"github.com/SamMorton123/velo-research/internal/adapters/results"
	"github.com/SamMorton123/velo-research/internal/config"
	"github.com/SamMorton123/velo-research/internal/domain/decay"
	"github.com/SamMorton123/velo-research/internal/domain/dedupe"
	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/SamMorton123/velo-research/internal/domain/rating"
	"github.com/SamMorton123/velo-research/internal/domain/types"
	"github.com/SamMorton123/velo-research/pkg/logger"
	"github.com/SamMorton123/velo-research/pkg/metrics"
)

// Service owns the rating system and replays race results through it.
// Replay is strictly sequential; the mutex only guards reads issued by the
// HTTP layer against a concurrent replay.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	system  rating.System
	deduper dedupe.Deduper
	loader  *results.Loader
	store   *archive.Store

	// currentSeason tracks the year of the race most recently fed to the
	// system, so season regression fires exactly once per boundary.
	currentSeason int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithSystem injects a pre-built rating system, overriding the one the
// configuration selects.
func WithSystem(sys rating.System) Option {
	return func(s *Service) {
		if sys != nil {
			s.system = sys
		}
	}
}

// WithDeduper injects a custom deduper.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithArchive attaches a snapshot store written to after each replay.
func WithArchive(store *archive.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// New constructs a Service around the configured rating system.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper()
	}
	if s.loader == nil {
		s.loader = results.NewLoader(s.logger)
	}
	if s.system == nil {
		sys, err := buildSystem(cfg)
		if err != nil {
			return nil, err
		}
		s.system = sys
	}

	return s, nil
}

// buildSystem assembles the configured rating engine.
func buildSystem(cfg *config.Config) (rating.System, error) {
	decayFn, err := decay.ByName(cfg.DecayFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildSystem, err)
	}

	switch cfg.System {
	case config.SystemElo:
		return rating.NewElo(
			rating.WithDecayExponents(cfg.DecayAlpha, cfg.DecayBeta),
			rating.WithDecayFunc(decayFn),
			rating.WithEloCurve(cfg.EloQBase, cfg.EloQDenom),
			rating.WithTimegapMultiplier(cfg.TimegapMultiplier),
		), nil
	case config.SystemGlicko:
		return rating.NewGlicko(
			rating.WithGlickoDecayExponents(cfg.DecayAlpha, cfg.DecayBeta),
			rating.WithGlickoDecayFunc(decayFn),
			rating.WithGlickoSeeds(cfg.GlickoInitialRating, cfg.GlickoInitialDeviation, cfg.GlickoInitialVolatility),
			rating.WithTau(cfg.GlickoTau),
			rating.WithPlaceDiffLimit(cfg.GlickoPlaceDiffLimit),
			rating.WithMatchupScale(cfg.GlickoMatchupScale),
		), nil
	default:
		return nil, fmt.Errorf("%w: unknown system %q", ErrBuildSystem, cfg.System)
	}
}

// Replay loads the configured results file and feeds every race through the
// rating system in chronological order.
func (s *Service) Replay(ctx context.Context) error {
	races, err := s.loader.LoadFile(ctx, s.cfg.ResultsPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReplay, err)
	}
	return s.ReplayRaces(ctx, races)
}

// ReplayRaces feeds pre-loaded races through the rating system. Races must
// already be in chronological order.
func (s *Service) ReplayRaces(ctx context.Context, races []results.RaceResults) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rr := range races {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrReplay, ctx.Err())
		default:
		}

		s.rollSeasons(rr.Race.Date.Year())

		race := rr.Race
		weight, ok := s.cfg.RaceClassWeights[race.Class]
		if !ok {
			s.logger.Warn(ctx, "skipping race with unknown class",
				logger.String("race", race.Name),
				logger.String("class", race.Class),
			)
			metrics.RecordRaceSkipped()
			continue
		}
		race.Weight = weight

		if s.deduper.SeenAndRecord(ctx, race.Key()) {
			s.logger.Debug(ctx, "skipping duplicate race",
				logger.String("race", race.Key()),
			)
			metrics.RecordRaceDuplicate()
			continue
		}

		s.system.SimulateRace(race, rr.Rows)
		s.system.ResolveRace(race)
		metrics.RecordRaceProcessed()

		s.logger.Debug(ctx, "processed race",
			logger.String("race", race.Key()),
			logger.Int("rows", len(rr.Rows)),
		)
	}

	metrics.UpdateRidersTracked(len(s.system.Riders()))

	if s.store != nil {
		if err := s.archiveLocked(ctx); err != nil {
			return err
		}
	}
	return nil
}

// rollSeasons fires season regression for every year boundary crossed since
// the last processed race. The first race seen only pins the season.
func (s *Service) rollSeasons(year int) {
	if s.currentSeason == 0 {
		s.currentSeason = year
		return
	}
	for y := s.currentSeason + 1; y <= year; y++ {
		s.system.NewSeason(y, s.cfg.SeasonRegression)
		metrics.RecordSeasonRollover()
	}
	if year > s.currentSeason {
		s.currentSeason = year
	}
}

// Archive snapshots every rider and the processed race log to the attached
// store. It is a no-op without one.
func (s *Service) Archive(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil
	}
	return s.archiveLocked(ctx)
}

func (s *Service) archiveLocked(ctx context.Context) error {
	riders := s.system.Riders()
	snaps := make([]archive.Snapshot, 0, len(riders))
	for _, r := range riders {
		snaps = append(snaps, archive.SnapshotOf(r))
	}
	if err := s.store.PutRiders(ctx, snaps); err != nil {
		return fmt.Errorf("%w: %w", ErrReplay, err)
	}
	if err := s.store.PutRaces(ctx, s.system.Races()); err != nil {
		return fmt.Errorf("%w: %w", ErrReplay, err)
	}
	return nil
}

// Rankings lists riders by rating descending as of the given year.
func (s *Service) Rankings(_ context.Context, asOfYear int, minRating float64, limit int) ([]types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system.Rankings(asOfYear, minRating, limit), nil
}

// RiderProfile returns the current state of one rider.
func (s *Service) RiderProfile(_ context.Context, name string) (types.RiderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.system.Rider(name)
	if !ok {
		return types.RiderProfile{}, fmt.Errorf("%w: %q", ErrUnknownRider, name)
	}
	return types.RiderProfile{
		Rider:      r.Name,
		Age:        r.Age,
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
		ActiveYear: r.MostRecentActiveYear,
		LastChange: r.LastChange(),
		Races:      len(r.RaceHistory()),
	}, nil
}

// RiderHistory returns one rider's full rating timeline.
func (s *Service) RiderHistory(_ context.Context, name string) ([]model.RatingPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.system.Rider(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRider, name)
	}
	return r.History(), nil
}

// Races returns the chronological log of processed races, season markers
// included.
func (s *Service) Races(_ context.Context) ([]model.Race, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system.Races(), nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"system":        s.cfg.System,
		"riders":        len(s.system.Riders()),
		"races":         len(s.system.Races()),
		"currentSeason": s.currentSeason,
		"dedupeSize":    s.deduper.Size(),
	}
}
