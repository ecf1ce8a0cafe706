// Package verification verifies that a generated barcode recreates the program.
package verification

import (
	"errors"
	"fmt"

	"github.com/retroenv/prog41bar/internal/barcode"
	"github.com/retroenv/prog41bar/internal/checksum"
	"github.com/retroenv/prog41bar/internal/program"
	"github.com/retroenv/retrogolib/log"
)

// ErrMismatch is returned when the barcode does not match the program.
var ErrMismatch = errors.New("barcode does not match program")

// maxLoggedMismatches limits the number of logged mismatches per check.
const maxLoggedMismatches = 10

// VerifyOutput decodes the encoded barcode rows and verifies that they
// recreate the normalized program, including checksums and continuation counters.
func VerifyOutput(logger *log.Logger, prog *program.Program, encoded []byte) error {
	rows, err := barcode.Decode(encoded)
	if err != nil {
		return fmt.Errorf("decoding barcode: %w", err)
	}

	if err := checkRows(logger, rows); err != nil {
		return err
	}

	payload := make([]byte, 0, prog.Len())
	for _, row := range rows {
		payload = append(payload, row.Payload...)
	}
	if err := checkBufferEqual(logger, prog.Bytes(), payload); err != nil {
		return fmt.Errorf("payload mismatch: %w", err)
	}

	instructions, err := prog.Instructions()
	if err != nil {
		return fmt.Errorf("splitting program into instructions: %w", err)
	}
	if err := checkContinuation(logger, rows, instructions); err != nil {
		return fmt.Errorf("continuation mismatch: %w", err)
	}
	return nil
}

// checkRows checks sequence numbers, row sizes and replays the running checksum.
func checkRows(logger *log.Logger, rows []barcode.Row) error {
	var sum checksum.Accumulator

	for i, row := range rows {
		if row.Sequence != uint8(i&0xf) {
			return fmt.Errorf("%w: row %d has sequence number %d", ErrMismatch, i, row.Sequence)
		}
		if i < len(rows)-1 && len(row.Payload) != barcode.RowLength {
			return fmt.Errorf("%w: row %d has %d payload bytes", ErrMismatch, i, len(row.Payload))
		}

		sum.Add(row.TypeByte())
		sum.Add(row.OverflowByte())
		sum.AddBytes(row.Payload)
		if sum.Sum() != row.Checksum {
			logger.Error("Checksum mismatch",
				log.Int("row", i),
				log.Hex("expected", sum.Sum()),
				log.Hex("got", row.Checksum))
			return fmt.Errorf("%w: checksum of row %d", ErrMismatch, i)
		}
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("%w: mismatched lengths, %d != %d", ErrMismatch, len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < maxLoggedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d offset mismatches", ErrMismatch, diffs)
}

// checkContinuation compares the continuation counters of every row with
// the instructions crossing its boundaries.
func checkContinuation(logger *log.Logger, rows []barcode.Row, instructions []program.Instruction) error {
	var diffs uint64
	next := 0 // first instruction that could cross the current row start

	for i, row := range rows {
		rowEnd := row.Offset + len(row.Payload)
		var nStart, nEnd int

		for next < len(instructions) && instructions[next].End() <= row.Offset {
			next++
		}
		for j := next; j < len(instructions) && instructions[j].Offset < rowEnd; j++ {
			ins := instructions[j]
			if ins.Offset < row.Offset && ins.End() > row.Offset {
				nStart = min(barcode.RowLength, ins.End()-row.Offset)
			}
			if ins.End() > rowEnd {
				nEnd = rowEnd - max(ins.Offset, row.Offset)
			}
		}

		if int(row.NStart) == nStart && int(row.NEnd) == nEnd {
			continue
		}
		diffs++
		if diffs < maxLoggedMismatches {
			logger.Error("Continuation mismatch",
				log.Int("row", i),
				log.Int("expected_start", nStart),
				log.Int("got_start", int(row.NStart)),
				log.Int("expected_end", nEnd),
				log.Int("got_end", int(row.NEnd)))
		}
	}

	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d rows with wrong continuation counters", ErrMismatch, diffs)
}
