package engine

// Options represents configuration options for the Engine.
type Options struct {
	// Instrument names the single instrument this engine's book manages.
	Instrument string
	// AutoExport writes the trade log and a book snapshot when a command
	// session ends.
	AutoExport bool
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		Instrument: "BTC-USD",
		AutoExport: false,
	}
}
