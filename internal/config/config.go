package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrRootMissing     = errors.New("directory does not exist")
	ErrBadDestination  = errors.New("destination must be a single relative directory name")
	ErrMissingRequired = errors.New("missing required flag")
)

type Config struct {
	Directory   string
	Destination string

	MaxWorkers   int
	PollInterval time.Duration
	IdlePolls    int
	DcrawPath    string
	JPEGQuality  int
	LogLevel     string
}

// Default returns the fixed conversion policy: 2 workers, 5s polls, 3 idle polls.
func Default() *Config {
	return &Config{
		MaxWorkers:   2,
		PollInterval: 5 * time.Second,
		IdlePolls:    3,
		DcrawPath:    "dcraw",
		JPEGQuality:  95,
		LogLevel:     "info",
	}
}

// Load parses the command line (without the program name). Pool size, poll
// interval, idle polls and JPEG quality always come from Default.
func Load(args []string, usageOut io.Writer) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("rawbatch", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	fs.StringVar(&cfg.Directory, "directory", "", "Directory to scan (required)")
	fs.StringVar(&cfg.Destination, "destination", "", "Sub directory to place converted files (required)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Directory == "" {
		return nil, fmt.Errorf("%w: -directory", ErrMissingRequired)
	}
	if cfg.Destination == "" {
		return nil, fmt.Errorf("%w: -destination", ErrMissingRequired)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	// deployment knobs only; the conversion policy itself is not overridable
	cfg.DcrawPath = getEnv("DCRAW_PATH", cfg.DcrawPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.checkDestination(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the preconditions that must hold before any work starts.
func (c *Config) Validate() error {
	fi, err := os.Stat(c.Directory)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootMissing, c.Directory)
		}
		return fmt.Errorf("stat %s: %w", c.Directory, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootMissing, c.Directory)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max workers must be at least 1, got %d", c.MaxWorkers)
	}
	if c.IdlePolls < 1 {
		return fmt.Errorf("idle polls must be at least 1, got %d", c.IdlePolls)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be within 1-100, got %d", c.JPEGQuality)
	}
	return nil
}

func (c *Config) checkDestination() error {
	d := c.Destination
	if filepath.IsAbs(d) || d == "." || d == ".." || strings.ContainsRune(d, '/') || strings.ContainsRune(d, filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrBadDestination, d)
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
