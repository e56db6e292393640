// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and environment overrides in Load.
// - External errors are wrapped via this package's sentinel errors.
package config

// Rating system selectors.
const (
	SystemElo    = "elo"
	SystemGlicko = "glicko2"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ResultsPath points at the CSV of structured race results.
	ResultsPath string `koanf:"results_path"`

	// ArchivePath is the bolt database file for rating snapshots. Empty
	// disables archiving.
	ArchivePath string `koanf:"archive_path"`

	// System selects the rating engine: "elo" or "glicko2".
	System string `koanf:"system"`

	// DecayAlpha and DecayBeta steepen decay with absolute and relative
	// finishing place respectively.
	DecayAlpha float64 `koanf:"decay_alpha"`
	DecayBeta  float64 `koanf:"decay_beta"`

	// DecayFunc selects the decay curve: power, logistic, linear, piecewise.
	DecayFunc string `koanf:"decay_func"`

	// EloQBase and EloQDenom shape the Elo win-probability curve.
	EloQBase  float64 `koanf:"elo_q_base"`
	EloQDenom float64 `koanf:"elo_q_denom"`

	// SeasonRegression is the mean-reversion weight applied at season
	// boundaries, in [0,1].
	SeasonRegression float64 `koanf:"season_regression"`

	// TimegapMultiplier weights margin of victory; 0 disables it.
	TimegapMultiplier float64 `koanf:"timegap_multiplier"`

	// Glicko-2 parameters.
	GlickoInitialRating     float64 `koanf:"glicko_initial_rating"`
	GlickoInitialDeviation  float64 `koanf:"glicko_initial_deviation"`
	GlickoInitialVolatility float64 `koanf:"glicko_initial_volatility"`
	GlickoTau               float64 `koanf:"glicko_tau"`
	GlickoPlaceDiffLimit    int     `koanf:"glicko_place_diff_limit"`
	GlickoMatchupScale      float64 `koanf:"glicko_matchup_scale"`

	// RaceClassWeights maps race classification labels to importance
	// weights. A race whose class is absent here is skipped.
	RaceClassWeights map[string]float64 `koanf:"race_class_weights"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		ResultsPath:             "data/velodata.csv",
		System:                  SystemElo,
		DecayAlpha:              1.5,
		DecayBeta:               1.8,
		DecayFunc:               "power",
		EloQBase:                10,
		EloQDenom:               400,
		SeasonRegression:        0.4,
		TimegapMultiplier:       0,
		GlickoInitialRating:     1500,
		GlickoInitialDeviation:  350,
		GlickoInitialVolatility: 0.06,
		GlickoTau:               0.2,
		GlickoPlaceDiffLimit:    50,
		GlickoMatchupScale:      0.2,
		RaceClassWeights: map[string]float64{
			"grand-tour":  12,
			"monument":    10,
			"world-tour":  7,
			"pro-series":  4,
			"continental": 2,
		},
		MaxRankingLimit: 100,
	}
}
