// Package writer implements the human readable barcode row listing.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/prog41bar/internal/barcode"
	"github.com/retroenv/prog41bar/internal/program"
	"github.com/retroenv/retrogolib/set"
)

const instructionSeparator = " |"

// Options of the writer.
type Options struct {
	OffsetComments     bool // output program offsets of every row
	InstructionMarkers bool // separate the instructions inside the payload
}

// Writer writes a listing of barcode rows.
type Writer struct {
	prog    *program.Program
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(prog *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		prog:    prog,
		options: options,
		writer:  writer,
	}
}

// Write writes the listing of all rows.
func (w *Writer) Write(rows []barcode.Row) error {
	starts, err := w.instructionStarts()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w.writer, "; HP-41 program barcode, %d program bytes in %d rows\n",
		w.prog.Len(), len(rows)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		if err := w.writeRow(row, starts); err != nil {
			return fmt.Errorf("writing row %d: %w", row.Sequence, err)
		}
	}
	return nil
}

func (w *Writer) writeRow(row barcode.Row, starts set.Set[int]) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%02X %02X %02X %02X :", row.LengthByte(), row.Checksum, row.TypeByte(), row.OverflowByte())

	for i, b := range row.Payload {
		if i > 0 && w.options.InstructionMarkers {
			if starts.Contains(row.Offset + i) {
				sb.WriteString(instructionSeparator)
			}
		}
		fmt.Fprintf(&sb, " %02X", b)
	}

	if w.options.OffsetComments {
		end := row.Offset + len(row.Payload) - 1
		fmt.Fprintf(&sb, " ; row %d $%04X-$%04X", row.Sequence, row.Offset, end)
		if row.NStart > 0 || row.NEnd > 0 {
			fmt.Fprintf(&sb, " continues %d/%d", row.NStart, row.NEnd)
		}
	}
	sb.WriteByte('\n')

	if _, err := io.WriteString(w.writer, sb.String()); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w *Writer) instructionStarts() (set.Set[int], error) {
	if !w.options.InstructionMarkers {
		return nil, nil
	}

	instructions, err := w.prog.Instructions()
	if err != nil {
		return nil, fmt.Errorf("splitting program into instructions: %w", err)
	}

	starts := set.New[int]()
	for _, ins := range instructions {
		starts.Add(ins.Offset)
	}
	return starts, nil
}
