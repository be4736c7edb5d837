// Package config loads csvsniff settings from environment variables.
// Command-line flags override these values.
package config

// Config holds all csvsniff configuration.
type Config struct {
	Ingest  IngestConfig
	Logging LoggingConfig
}

// IngestConfig holds sniffing and reading settings.
type IngestConfig struct {
	// Separators are the candidate separators in order of preference.
	// The two-character sequence \t stands for a tab (default: ",;\t|")
	Separators string `env:"CSVSNIFF_SEPARATORS" default:",;\\t|"`

	// FallbackEncoding is tried when a file is not valid UTF-8 (default: windows-1252)
	FallbackEncoding string `env:"CSVSNIFF_FALLBACK_ENCODING" default:"windows-1252"`

	// ChunkSize is the number of bytes read per step (default: 1024)
	ChunkSize int `env:"CSVSNIFF_CHUNK_SIZE" default:"1024"`

	// Mmap maps input files into memory instead of reading them (default: false)
	Mmap bool `env:"CSVSNIFF_MMAP" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log output format: text, json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
