package runner

const (
	DefaultWarmupRuns = 0
	DefaultRuns       = 1
)

type Config struct {
	WarmupRuns int
	Runs       int
	// TimeoutSeconds bounds each statement; zero means no timeout.
	TimeoutSeconds int
}

func DefaultConfig() Config {
	return Config{
		WarmupRuns: DefaultWarmupRuns,
		Runs:       DefaultRuns,
	}
}
