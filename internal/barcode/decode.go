package barcode

import (
	"errors"
	"fmt"
)

// ErrInvalidRow is returned when a row of a barcode stream can not be parsed.
var ErrInvalidRow = errors.New("invalid barcode row")

var errNoRows = errors.New("no rows")

// Decode parses a stream of encoded rows. It checks the framing of every row
// but not its checksum, which depends on all previous rows.
func Decode(data []byte) ([]Row, error) {
	var rows []Row

	for offset := 0; offset < len(data); {
		if len(data)-offset < headerSize {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrInvalidRow, offset)
		}

		length := int(data[offset])
		payloadLength := length - 2
		if payloadLength < 1 || payloadLength > RowLength {
			return nil, fmt.Errorf("%w: length byte 0x%02X at offset %d", ErrInvalidRow, data[offset], offset)
		}
		end := offset + headerSize + payloadLength
		if end > len(data) {
			return nil, fmt.Errorf("%w: row at offset %d needs %d bytes, %d available",
				ErrInvalidRow, offset, end-offset, len(data)-offset)
		}

		typeByte := data[offset+2]
		if typeByte>>4 != TypeProgram {
			return nil, fmt.Errorf("%w: type %d at offset %d is not program barcode", ErrInvalidRow, typeByte>>4, offset)
		}
		overflow := data[offset+3]

		rows = append(rows, Row{
			Sequence: typeByte & 0xf,
			NStart:   overflow >> 4,
			NEnd:     overflow & 0xf,
			Payload:  data[offset+headerSize : end],
			Checksum: data[offset+1],
		})
		offset = end
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRow, errNoRows)
	}

	// program offsets are implied by the payload lengths
	position := 0
	for i := range rows {
		rows[i].Offset = position
		position += len(rows[i].Payload)
	}
	return rows, nil
}
