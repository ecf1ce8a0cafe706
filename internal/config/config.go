// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings. Log records go to
// stderr, stdout is reserved for the encoded output.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = os.Stderr
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// File is the content of a TOML config file. Unset values keep the defaults
// of the command line flags.
type File struct {
	Format         *string `toml:"format"`
	MaxSize        *int    `toml:"max_size"`
	Truncate       *bool   `toml:"truncate"`
	Verify         *bool   `toml:"verify"`
	NoOffsets      *bool   `toml:"no_offsets"`
	NoInstructions *bool   `toml:"no_instructions"`
}

// LoadFile reads a TOML config file.
func LoadFile(path string) (File, error) {
	var file File
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return File{}, fmt.Errorf("decoding config file '%s': %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("unknown key '%s' in config file '%s'", undecoded[0], path)
	}
	return file, nil
}
