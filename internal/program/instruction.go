package program

import (
	"fmt"

	"github.com/retroenv/prog41bar/internal/opcode"
)

// Instruction is the span of one instruction inside the program.
type Instruction struct {
	Offset int
	Length int
	Class  opcode.Class
}

// End returns the offset of the first byte after the instruction.
func (i Instruction) End() int {
	return i.Offset + i.Length
}

// Instructions splits the program into its instructions.
func (p *Program) Instructions() ([]Instruction, error) {
	var instructions []Instruction
	for offset := 0; offset < len(p.data); {
		length, err := opcode.Length(p.data, offset)
		if err != nil {
			return nil, fmt.Errorf("resolving instruction length: %w", err)
		}

		instructions = append(instructions, Instruction{
			Offset: offset,
			Length: length,
			Class:  opcode.ClassOf(p.data[offset]),
		})
		offset += length
	}
	return instructions, nil
}
