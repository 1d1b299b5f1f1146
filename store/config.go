package store

// Config holds table and index names for the Store.
type Config struct {
	// MoviesTable is the name of the movies table.
	// Default: "movies"
	MoviesTable string

	// InterestsTable is the name of the interests table.
	// Default: "interests"
	InterestsTable string

	// InterestsByMovieIndex is the name of the global secondary index on the
	// interests table keyed by (movieId, userId).
	// Default: "interests-by-movie"
	InterestsByMovieIndex string
}

// DefaultConfig returns the default table and index names.
func DefaultConfig() Config {
	return Config{
		MoviesTable:           "movies",
		InterestsTable:        "interests",
		InterestsByMovieIndex: "interests-by-movie",
	}
}

// validate fills in defaults for unset fields.
func (c *Config) validate() {
	if c.MoviesTable == "" {
		c.MoviesTable = "movies"
	}
	if c.InterestsTable == "" {
		c.InterestsTable = "interests"
	}
	if c.InterestsByMovieIndex == "" {
		c.InterestsByMovieIndex = "interests-by-movie"
	}
}
