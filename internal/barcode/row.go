// Package barcode packs HP-41 programs into program barcode rows.
//
// Every row holds up to RowLength program bytes and is written as
//
//	[length][checksum][type/sequence][n_start/n_end][payload...]
//
// where the length byte is the payload length plus 2 and the checksum is
// the running end-around carry sum over all header and payload bytes of
// this and all previous rows.
package barcode

import (
	"fmt"
	"io"
)

// RowLength is the maximum number of program bytes in a row.
const RowLength = 13

// TypeProgram is the barcode type code of program barcode.
const TypeProgram = 1

// headerSize is the number of bytes in front of the payload.
const headerSize = 4

// Row is one row of program barcode.
type Row struct {
	Sequence uint8  // row counter, modulo 16
	NStart   uint8  // bytes at the start continuing an instruction of the previous row
	NEnd     uint8  // bytes at the end of an instruction continued in the next row
	Offset   int    // program offset of the first payload byte
	Payload  []byte // program bytes of this row
	Checksum byte   // running checksum after this row
}

// TypeByte returns the type code and sequence number byte.
func (r Row) TypeByte() byte {
	return TypeProgram<<4 | r.Sequence&0xf
}

// OverflowByte returns the byte encoding the continuation counters.
func (r Row) OverflowByte() byte {
	return (r.NStart&0xf)<<4 | r.NEnd&0xf
}

// LengthByte returns the length byte of the row, which is the number of
// bytes following it.
func (r Row) LengthByte() byte {
	return byte(len(r.Payload) + 2)
}

// Bytes returns the encoded row.
func (r Row) Bytes() []byte {
	buf := make([]byte, 0, headerSize+len(r.Payload))
	buf = append(buf, r.LengthByte(), r.Checksum, r.TypeByte(), r.OverflowByte())
	return append(buf, r.Payload...)
}

// WriteTo writes the encoded row to the writer.
func (r Row) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("writing row %d: %w", r.Sequence, err)
	}
	return int64(n), nil
}

// String returns a short description of the row.
func (r Row) String() string {
	return fmt.Sprintf("row %2d offset %04X start %2d end %2d checksum %02X length %2d",
		r.Sequence, r.Offset, r.NStart, r.NEnd, r.Checksum, len(r.Payload))
}
