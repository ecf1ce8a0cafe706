package barcode

import (
	"errors"
	"io"

	"github.com/retroenv/prog41bar/internal/program"
)

var errNotNormalized = errors.New("program is not normalized")

// Stats contains information about an encoded program.
type Stats struct {
	Rows         int
	ProgramBytes int
	OutputBytes  int64
}

// Encode writes the barcode rows of a normalized program to the writer.
// The returned rows are in output order.
func Encode(w io.Writer, prog *program.Program) ([]Row, Stats, error) {
	if !prog.Normalized() {
		return nil, Stats{}, errNotNormalized
	}

	stats := Stats{
		ProgramBytes: prog.Len(),
	}
	packer := NewPacker(prog.Bytes())

	var rows []Row
	for {
		row, ok, err := packer.Next()
		if err != nil {
			return nil, stats, err
		}
		if !ok {
			break
		}

		n, err := row.WriteTo(w)
		stats.OutputBytes += n
		if err != nil {
			return nil, stats, err
		}
		stats.Rows++
		rows = append(rows, row)
	}
	return rows, stats, nil
}
