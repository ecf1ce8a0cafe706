// Package pipeline orchestrates the barcode encoding workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/retroenv/prog41bar/internal/barcode"
	"github.com/retroenv/prog41bar/internal/loader"
	"github.com/retroenv/prog41bar/internal/options"
	"github.com/retroenv/prog41bar/internal/program"
	"github.com/retroenv/prog41bar/internal/verification"
	"github.com/retroenv/prog41bar/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Result contains the outcome of encoding one program.
type Result struct {
	Program   *program.Program
	Rows      []barcode.Row
	Stats     barcode.Stats
	Truncated bool
}

// Pipeline orchestrates the complete encoding workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new encoding pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
	}
}

// Execute runs the complete encoding pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, output io.Writer) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("encoding %s: %w", opts.Input, err)
	}

	loaded, err := p.loader.Load(opts)
	if err != nil {
		return Result{}, fmt.Errorf("loading program: %w", err)
	}
	if loaded.Truncated {
		p.logger.Warn("Program truncated to maximum size",
			log.String("file", opts.Input),
			log.Int("max_size", opts.MaxSize))
	}

	result, err := p.ExecuteWithProgram(ctx, loaded.Program, opts, output)
	if err != nil {
		return Result{}, err
	}
	result.Truncated = loaded.Truncated
	return result, nil
}

// ExecuteWithProgram runs the encoding pipeline with a pre-loaded program.
// This is useful for testing and programmatic usage where the program is already in memory.
func (p *Pipeline) ExecuteWithProgram(ctx context.Context, prog *program.Program, opts options.Program,
	output io.Writer) (Result, error) {

	normalizeResult := prog.Normalize()
	p.logger.Debug("Normalized program END",
		log.Stringer("terminator", normalizeResult),
		log.Int("size", prog.Len()))

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("encoding %s: %w", opts.Input, err)
	}

	var encoded bytes.Buffer
	result, err := p.encode(prog, opts, output, &encoded)
	if err != nil {
		return Result{}, err
	}

	p.printInfo(opts, result)

	if opts.Verify {
		if err := verification.VerifyOutput(p.logger, prog, encoded.Bytes()); err != nil {
			return Result{}, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return result, nil
}

// encode writes the barcode in the selected format to output and the raw rows to encoded.
func (p *Pipeline) encode(prog *program.Program, opts options.Program, output io.Writer,
	encoded *bytes.Buffer) (Result, error) {

	var rowWriter io.Writer
	switch opts.Format {
	case options.FormatBinary, "":
		rowWriter = io.MultiWriter(output, encoded)
	case options.FormatListing:
		rowWriter = encoded
	default:
		return Result{}, fmt.Errorf("unsupported output format '%s'", opts.Format)
	}

	rows, stats, err := barcode.Encode(rowWriter, prog)
	if err != nil {
		return Result{}, fmt.Errorf("encoding barcode: %w", err)
	}

	if opts.Format == options.FormatListing {
		listing := writer.New(prog, output, writer.Options{
			OffsetComments:     !opts.NoOffsets,
			InstructionMarkers: !opts.NoInstructions,
		})
		if err := listing.Write(rows); err != nil {
			return Result{}, fmt.Errorf("writing listing: %w", err)
		}
	}

	return Result{
		Program: prog,
		Rows:    rows,
		Stats:   stats,
	}, nil
}

// printInfo prints information about the encoded program.
func (p *Pipeline) printInfo(opts options.Program, result Result) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Encoded HP-41 program",
		log.String("file", opts.Input),
		log.Int("program_bytes", result.Stats.ProgramBytes),
		log.Int("rows", result.Stats.Rows),
		log.String("format", opts.Format),
	)
	for _, row := range result.Rows {
		p.logger.Debug("Row", log.Stringer("row", row))
	}
}
