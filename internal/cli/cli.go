// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/prog41bar/internal/config"
	"github.com/retroenv/prog41bar/internal/options"
	"github.com/retroenv/prog41bar/internal/program"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Config != "" {
		if err := applyConfigFile(flags, &opts); err != nil {
			return opts, err
		}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: prog41bar [options] <HP-41 program file, - for stdin>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && len(arg) > 1 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to encode, please pass the file to encode as last argument", arg),
			}
		}
	}
	return nil
}

// applyConfigFile sets all options from the config file that were not set on the command line
func applyConfigFile(flags *flag.FlagSet, opts *options.Program) error {
	file, err := config.LoadFile(opts.Config)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if file.Format != nil && !set["f"] {
		opts.Format = *file.Format
	}
	if file.MaxSize != nil && !set["max"] {
		opts.MaxSize = *file.MaxSize
	}
	if file.Truncate != nil && !set["truncate"] {
		opts.Truncate = *file.Truncate
	}
	if file.Verify != nil && !set["verify"] {
		opts.Verify = *file.Verify
	}
	if file.NoOffsets != nil && !set["nooffsets"] {
		opts.NoOffsets = *file.NoOffsets
	}
	if file.NoInstructions != nil && !set["noinstructions"] {
		opts.NoInstructions = *file.NoInstructions
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.MaxSize < 1 || opts.MaxSize > program.MaxSize {
		return fmt.Errorf("invalid maximum program size %d, valid range is 1-%d", opts.MaxSize, program.MaxSize)
	}

	opts.Format = strings.ToLower(opts.Format)
	validFormats := []string{options.FormatBinary, options.FormatListing}
	for _, valid := range validFormats {
		if opts.Format == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported output format: %s. Valid options: %s",
		opts.Format, strings.Join(validFormats, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output barcode file, printed on console if no name given")
	flags.StringVar(&opts.Format, "f", options.FormatBinary, "output format (bin/hex), hex writes a readable row listing")
	flags.StringVar(&opts.Config, "c", "", "TOML config file to read default options from")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically name output files, for example *.raw")
	flags.IntVar(&opts.MaxSize, "max", program.MaxSize, "maximum program size in bytes")
	flags.BoolVar(&opts.Truncate, "truncate", false, "drop program bytes beyond the maximum size instead of failing")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated barcode by decoding it and comparing it to the program")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output program offsets in listing comments")
	flags.BoolVar(&opts.NoInstructions, "noinstructions", false, "do not mark instruction boundaries in the listing")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
