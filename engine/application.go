package engine

type ApplicationConfig struct {
	// The application name used in log output.
	Name string
	// Log level, one of debug, info, warn, error and fatal.
	LogLevel string
	// Directory indexed by the asset manager.
	AssetsDir string
	// Reload assets when their files change.
	Watch bool
	// Size of the decoding worker pool.
	Workers int
	// Frames per second the loop is limited to.
	TargetFPS int
	// Stop after that many seconds. 0 runs until the quit event.
	DurationSeconds float64
}
