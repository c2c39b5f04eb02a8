package config

import "io"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithStartFEN sets the starting position.
func (b *ConfigBuilder) WithStartFEN(fen string) *ConfigBuilder {
	b.cfg.StartFEN = fen
	return b
}

// WithTimeControl sets the clock's start time and increment.
func (b *ConfigBuilder) WithTimeControl(minutes, incrementSeconds int) *ConfigBuilder {
	b.cfg.Clock.StartMinutes = minutes
	b.cfg.Clock.IncrementSeconds = incrementSeconds
	return b
}

// WithStoreDir enables archiving into dir.
func (b *ConfigBuilder) WithStoreDir(dir string) *ConfigBuilder {
	b.cfg.StoreDir = dir
	return b
}

// WithMemoryStore enables archiving into an in-memory store.
func (b *ConfigBuilder) WithMemoryStore(enabled bool) *ConfigBuilder {
	b.cfg.MemoryStore = enabled
	return b
}

// WithWorkers sets the number of replay workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Workers = n
	return b
}

// WithJSONOutput enables JSON output.
func (b *ConfigBuilder) WithJSONOutput(enabled bool) *ConfigBuilder {
	b.cfg.Output.JSONFormat = enabled
	return b
}

// WithSignature enables the repetition signature in reports.
func (b *ConfigBuilder) WithSignature(enabled bool) *ConfigBuilder {
	b.cfg.Output.ShowSignature = enabled
	return b
}

// WithLegalFrom requests the legal destinations of a square.
func (b *ConfigBuilder) WithLegalFrom(square string) *ConfigBuilder {
	b.cfg.Output.LegalFrom = square
	return b
}

// WithOutput sets the output writer.
func (b *ConfigBuilder) WithOutput(w io.Writer) *ConfigBuilder {
	b.cfg.OutputFile = w
	return b
}

// WithLog sets the log writer.
func (b *ConfigBuilder) WithLog(w io.Writer) *ConfigBuilder {
	b.cfg.LogFile = w
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}
