package program

import (
	"errors"
	"testing"

	"github.com/retroenv/prog41bar/internal/opcode"
	"github.com/retroenv/retrogolib/assert"
)

func TestNew_CopiesInput(t *testing.T) {
	data := []byte{0x01, 0x02}
	prog := New(data)
	data[0] = 0xff

	assert.Equal(t, []byte{0x01, 0x02}, prog.Bytes())
	assert.Equal(t, 2, prog.Len())
	assert.False(t, prog.Normalized())
}

//nolint:funlen // table driven test
func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected []byte
		result   NormalizeResult
	}{
		{
			name:     "single byte program",
			data:     []byte{0x01},
			expected: []byte{0x01, 0xC0, 0x00, 0x2F},
			result:   TerminatorAppended,
		},
		{
			name:     "empty program",
			data:     nil,
			expected: []byte{0xC0, 0x00, 0x2F},
			result:   TerminatorAppended,
		},
		{
			name:     "two byte program",
			data:     []byte{0x90, 0x01},
			expected: []byte{0x90, 0x01, 0xC0, 0x00, 0x2F},
			result:   TerminatorAppended,
		},
		{
			name:     "compiled END",
			data:     []byte{0x40, 0xC1, 0x23, 0x0D},
			expected: []byte{0x40, 0xC0, 0x00, 0x2F},
			result:   TerminatorRewritten,
		},
		{
			name:     "canonical END",
			data:     []byte{0x40, 0xC0, 0x00, 0x2F},
			expected: []byte{0x40, 0xC0, 0x00, 0x2F},
			result:   TerminatorCanonical,
		},
		{
			name:     "ends with global label text flag",
			data:     []byte{0xC0, 0x00, 0xF1},
			expected: []byte{0xC0, 0x00, 0xF1, 0xC0, 0x00, 0x2F},
			result:   TerminatorAppended,
		},
		{
			name:     "ends mid instruction",
			data:     []byte{0x40, 0xD0, 0x00},
			expected: []byte{0x40, 0xD0, 0x00, 0xC0, 0x00, 0x2F},
			result:   TerminatorAppended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := New(tt.data)
			result := prog.Normalize()
			assert.Equal(t, tt.result, result)
			assert.Equal(t, tt.expected, prog.Bytes())
			assert.True(t, prog.Normalized())
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := [][]byte{
		{0x01},
		{0x40, 0xC1, 0x23, 0x0D},
		{0xF3, 'A', 'B', 'C'},
		{},
	}

	for _, data := range inputs {
		prog := New(data)
		prog.Normalize()
		once := append([]byte(nil), prog.Bytes()...)

		assert.Equal(t, TerminatorCanonical, prog.Normalize())
		assert.Equal(t, once, prog.Bytes())
	}
}

func TestInstructions(t *testing.T) {
	prog := New([]byte{0x01, 0x11, 0x12, 0x90, 0x05, 0xF2, 'H', 'I'})
	prog.Normalize()

	instructions, err := prog.Instructions()
	assert.NoError(t, err)
	assert.Equal(t, []Instruction{
		{Offset: 0, Length: 1, Class: opcode.ClassSingle},
		{Offset: 1, Length: 2, Class: opcode.ClassDigitAlpha},
		{Offset: 3, Length: 2, Class: opcode.ClassTwoByte},
		{Offset: 5, Length: 3, Class: opcode.ClassText},
		{Offset: 8, Length: 3, Class: opcode.ClassGlobal},
	}, instructions)
	assert.Equal(t, 11, instructions[4].End())
}

func TestInstructions_MalformedTail(t *testing.T) {
	// global label claiming 5 text bytes with a compiled END that was not recognized
	prog := New([]byte{0xC0, 0x00, 0xF5, 0x00, 'A'})

	_, err := prog.Instructions()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, opcode.ErrMalformedTail))
}
