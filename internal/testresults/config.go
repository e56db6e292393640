package testresults

// Config holds configuration for synthetic results generation.
type Config struct {
	NumRiders      int    // size of the rider pool
	StartYear      int    // first season year
	Seasons        int    // number of consecutive seasons
	RacesPerSeason int    // races generated per season
	MaxFieldSize   int    // upper bound on riders per race
	OutputFile     string // CSV destination
	Seed           int64  // RNG seed, 0 means time-based
}

// Stats holds generation statistics.
type Stats struct {
	RidersGenerated int
	RacesGenerated  int
	RowsWritten     int
}
