package barcode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/prog41bar/internal/program"
	"github.com/retroenv/retrogolib/assert"
)

func TestEncode(t *testing.T) {
	prog := program.New(append(repeat(0x40, 12), 0xE0, 0x07, 0x05))
	prog.Normalize()

	var buf bytes.Buffer
	rows, stats, err := Encode(&buf, prog)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 18, stats.ProgramBytes)
	assert.Equal(t, int64(17+9), stats.OutputBytes)

	expected := []byte{0x0F, 0xF4, 0x10, 0x01}
	expected = append(expected, repeat(0x40, 12)...)
	expected = append(expected, 0xE0)
	expected = append(expected, 0x07, 0x22, 0x11, 0x20, 0x07, 0x05, 0xC0, 0x00, 0x2F)
	assert.Equal(t, expected, buf.Bytes())
}

func TestEncode_NotNormalized(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := Encode(&buf, program.New([]byte{0x01}))
	assert.Error(t, err)
	assert.Equal(t, 0, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full") //nolint:err113 // test error
}

func TestEncode_WriteError(t *testing.T) {
	prog := program.New([]byte{0x01})
	prog.Normalize()

	_, _, err := Encode(failingWriter{}, prog)
	assert.ErrorContains(t, err, "disk full")
}

func TestDecode(t *testing.T) {
	prog := program.New(propertyPrograms["mixed"])
	prog.Normalize()

	var buf bytes.Buffer
	encoded, _, err := Encode(&buf, prog)
	assert.NoError(t, err)

	decoded, err := Decode(buf.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, len(encoded), len(decoded))
	for i := range encoded {
		assert.Equal(t, encoded[i].Sequence, decoded[i].Sequence)
		assert.Equal(t, encoded[i].NStart, decoded[i].NStart)
		assert.Equal(t, encoded[i].NEnd, decoded[i].NEnd)
		assert.Equal(t, encoded[i].Offset, decoded[i].Offset)
		assert.Equal(t, encoded[i].Checksum, decoded[i].Checksum)
		assert.Equal(t, encoded[i].Payload, decoded[i].Payload)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated header", []byte{0x06, 0x01}},
		{"zero payload length", []byte{0x02, 0x00, 0x10, 0x00}},
		{"payload too long", append([]byte{0x10, 0x00, 0x10, 0x00}, repeat(0x40, 14)...)},
		{"truncated payload", []byte{0x06, 0x01, 0x10, 0x00, 0x01, 0xC0}},
		{"data barcode type", []byte{0x03, 0x00, 0x60, 0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRow))
		})
	}
}

func TestRow_String(t *testing.T) {
	row := Row{Sequence: 3, NStart: 2, NEnd: 1, Offset: 0x27, Payload: repeat(0x40, 13), Checksum: 0xAB}
	assert.Equal(t, "row  3 offset 0027 start  2 end  1 checksum AB length 13", row.String())
	assert.Equal(t, byte(15), row.LengthByte())
	assert.Equal(t, byte(0x13), row.TypeByte())
	assert.Equal(t, byte(0x21), row.OverflowByte())
}
