// Package loader handles program file loading operations.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/prog41bar/internal/options"
	"github.com/retroenv/prog41bar/internal/program"
)

// ErrCapacityExceeded is returned when the input is larger than the maximum program size.
var ErrCapacityExceeded = errors.New("program exceeds maximum size")

// StdinName is the input name that reads the program from standard input.
const StdinName = "-"

// Result contains a loaded program and details about the loading.
type Result struct {
	Program   *program.Program
	Truncated bool // input was longer than the maximum size and got cut off
}

// Loader handles loading program files.
type Loader struct {
	stdin io.Reader
}

// New creates a new program loader.
func New() *Loader {
	return &Loader{
		stdin: os.Stdin,
	}
}

// Load opens the input file of the options and reads the program from it.
func (l *Loader) Load(opts options.Program) (Result, error) {
	if opts.Input == StdinName {
		return Read(l.stdin, opts.MaxSize, opts.Truncate)
	}

	file, err := os.Open(opts.Input)
	if err != nil {
		return Result{}, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	return Read(file, opts.MaxSize, opts.Truncate)
}

// Read reads a program of at most maxSize bytes. Input beyond maxSize
// returns ErrCapacityExceeded unless truncate is set.
func Read(reader io.Reader, maxSize int, truncate bool) (Result, error) {
	if maxSize < 1 {
		maxSize = program.MaxSize
	}

	// one byte more than allowed is enough to detect oversized input
	data, err := io.ReadAll(io.LimitReader(bufio.NewReader(reader), int64(maxSize)+1))
	if err != nil {
		return Result{}, fmt.Errorf("reading program: %w", err)
	}

	var result Result
	if len(data) > maxSize {
		if !truncate {
			return Result{}, fmt.Errorf("%w: more than %d bytes", ErrCapacityExceeded, maxSize)
		}
		data = data[:maxSize]
		result.Truncated = true
	}

	result.Program = program.New(data)
	return result, nil
}
