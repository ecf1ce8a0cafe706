package barcode

import (
	"fmt"

	"github.com/retroenv/prog41bar/internal/checksum"
	"github.com/retroenv/prog41bar/internal/opcode"
)

// Packer splits a normalized program into barcode rows. It holds the complete
// state of one packing pass, including the running checksum.
type Packer struct {
	data []byte

	pc        int // next program byte to pack
	startPC   int // program offset of the first byte of the current row
	spaceLeft int // free bytes in the current row
	instLeft  int // bytes of the current instruction not yet packed
	nStart    int // continuation bytes at the start of the current row
	sequence  uint8

	checksum checksum.Accumulator
}

// NewPacker returns a packer for the given program bytes.
func NewPacker(data []byte) *Packer {
	return &Packer{
		data:      data,
		spaceLeft: RowLength,
	}
}

// Next packs the next row. It returns false once all program bytes are packed.
func (p *Packer) Next() (Row, bool, error) {
	for p.pc < len(p.data) {
		if p.spaceLeft == RowLength {
			p.nStart = min(RowLength, p.instLeft)
			p.startPC = p.pc
		}

		if p.instLeft == 0 {
			length, err := opcode.Length(p.data, p.pc)
			if err != nil {
				return Row{}, false, fmt.Errorf("packing row %d: %w", p.sequence, err)
			}
			p.instLeft = length
		}

		bytesFit := min(p.spaceLeft, p.instLeft)
		p.pc += bytesFit
		p.spaceLeft -= bytesFit
		p.instLeft -= bytesFit

		if p.spaceLeft == 0 {
			// continuation is only reported for an unfinished instruction
			nEnd := 0
			if p.instLeft > 0 {
				nEnd = bytesFit
			}
			row := p.emit(RowLength, nEnd)
			p.spaceLeft = RowLength
			return row, true, nil
		}
	}

	if p.spaceLeft < RowLength {
		row := p.emit(RowLength-p.spaceLeft, 0)
		p.spaceLeft = RowLength
		return row, true, nil
	}
	return Row{}, false, nil
}

// emit creates the row starting at startPC and folds it into the running checksum.
func (p *Packer) emit(length, nEnd int) Row {
	row := Row{
		Sequence: p.sequence,
		NStart:   uint8(p.nStart),
		NEnd:     uint8(nEnd),
		Offset:   p.startPC,
		Payload:  p.data[p.startPC : p.startPC+length],
	}

	p.checksum.Add(row.TypeByte())
	p.checksum.Add(row.OverflowByte())
	p.checksum.AddBytes(row.Payload)
	row.Checksum = p.checksum.Sum()

	p.sequence = (p.sequence + 1) & 0xf
	return row
}

// Pack splits the program bytes into barcode rows.
func Pack(data []byte) ([]Row, error) {
	packer := NewPacker(data)

	var rows []Row
	for {
		row, ok, err := packer.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, row)
	}
}
