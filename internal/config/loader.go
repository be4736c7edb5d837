package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/shapestone/shape-csv-ingest/pkg/csv"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := os.Getenv(envName)
		if value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(int64(i))

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if _, err := ParseSeparators(c.Ingest.Separators); err != nil {
		errs = append(errs, fmt.Sprintf("CSVSNIFF_SEPARATORS: %v", err))
	}
	if c.Ingest.FallbackEncoding != "" {
		if _, err := csv.LookupEncoding(c.Ingest.FallbackEncoding); err != nil {
			errs = append(errs, fmt.Sprintf("CSVSNIFF_FALLBACK_ENCODING: %v", err))
		}
	}
	if c.Ingest.ChunkSize <= 0 {
		errs = append(errs, fmt.Sprintf("CSVSNIFF_CHUNK_SIZE (%d) must be positive", c.Ingest.ChunkSize))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q must be one of debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT %q must be text or json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// ParseSeparators turns a separator list such as ",;\t" into runes.
// The two-character sequence \t is read as a tab.
func ParseSeparators(s string) ([]rune, error) {
	seps := []rune(strings.ReplaceAll(s, `\t`, "\t"))
	if len(seps) == 0 {
		return nil, csv.ErrNoSeparators
	}
	for _, r := range seps {
		if r == '"' || r == '\r' || r == '\n' {
			return nil, fmt.Errorf("%w: %q", csv.ErrInvalidSeparator, r)
		}
	}
	return seps, nil
}

// Options builds reader options from the configuration. An empty fallback
// encoding disables the retry.
func (c *Config) Options() (csv.Options, error) {
	seps, err := ParseSeparators(c.Ingest.Separators)
	if err != nil {
		return csv.Options{}, err
	}

	opts := csv.DefaultOptions()
	opts.Separators = seps
	opts.ChunkSize = c.Ingest.ChunkSize
	opts.FallbackEncoding = csv.Encoding{}
	if c.Ingest.FallbackEncoding != "" {
		enc, err := csv.LookupEncoding(c.Ingest.FallbackEncoding)
		if err != nil {
			return csv.Options{}, err
		}
		opts.FallbackEncoding = enc
	}
	return opts, nil
}
