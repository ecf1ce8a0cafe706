// Package opcode resolves the length of HP-41 instructions from their opcode bytes.
package opcode

import (
	"errors"
	"fmt"
)

// ErrMalformedTail is returned when an instruction would need bytes past the end of the program.
var ErrMalformedTail = errors.New("instruction extends past end of program")

// Class is the instruction class selected by the high nibble of an opcode.
type Class uint8

// instruction classes.
const (
	ClassSingle     Class = iota // short labels, short RCL/STO and single byte functions
	ClassDigitAlpha              // digit entry or alpha GTO/XEQ
	ClassTwoByte                 // two byte functions and short GTOs
	ClassGlobal                  // global labels, END, exchanges and local labels
	ClassThreeByte               // numeric GTO and XEQ
	ClassText                    // inline text literal
)

const (
	digitEntryFirst  = 0x10
	digitEntryLast   = 0x1c
	globalShortMask  = 0x0e
	labelTextFlag    = 0x80
	lowNibble        = 0x0f
	endInstructionSz = 3
)

var classNames = map[Class]string{
	ClassSingle:     "single",
	ClassDigitAlpha: "digit/alpha",
	ClassTwoByte:    "two byte",
	ClassGlobal:     "global",
	ClassThreeByte:  "three byte",
	ClassText:       "text",
}

// String returns the name of the class.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ClassOf returns the instruction class of the given opcode byte.
func ClassOf(b byte) Class {
	switch b >> 4 {
	case 0x0, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8:
		return ClassSingle
	case 0x1:
		return ClassDigitAlpha
	case 0x9, 0xa, 0xb:
		return ClassTwoByte
	case 0xc:
		return ClassGlobal
	case 0xd, 0xe:
		return ClassThreeByte
	default:
		return ClassText
	}
}

// Length returns the length in bytes of the instruction starting at offset.
// All lookahead reads are bounds checked; an instruction that does not fit
// into data returns an error wrapping ErrMalformedTail.
func Length(data []byte, offset int) (int, error) {
	if offset < 0 || offset >= len(data) {
		return 0, fmt.Errorf("%w: offset %d outside program of %d bytes", ErrMalformedTail, offset, len(data))
	}

	op := data[offset]
	var length int

	switch ClassOf(op) {
	case ClassSingle:
		length = 1

	case ClassDigitAlpha:
		if op > digitEntryLast {
			// alpha GTO/XEQ, text length in the following byte
			next, err := lookahead(data, offset, 1)
			if err != nil {
				return 0, err
			}
			length = 2 + int(next&lowNibble)
		} else {
			length = digitEntryLength(data, offset)
		}

	case ClassTwoByte:
		length = 2

	case ClassGlobal:
		if op&globalShortMask == globalShortMask {
			length = 2
			break
		}
		flag, err := lookahead(data, offset, 2)
		if err != nil {
			return 0, err
		}
		if flag&labelTextFlag != 0 {
			length = endInstructionSz + int(flag&lowNibble)
		} else {
			length = endInstructionSz
		}

	case ClassThreeByte:
		length = 3

	case ClassText:
		length = 1 + int(op&lowNibble)
	}

	if offset+length > len(data) {
		return 0, fmt.Errorf("%w: opcode 0x%02X at offset %d needs %d bytes, %d available",
			ErrMalformedTail, op, offset, length, len(data)-offset)
	}
	return length, nil
}

// digitEntryLength counts the run of digit entry bytes starting at offset.
// A run reaching the end of data ends there.
func digitEntryLength(data []byte, offset int) int {
	length := 0
	for i := offset; i < len(data); i++ {
		b := data[i]
		if b < digitEntryFirst || b > digitEntryLast {
			break
		}
		length++
	}
	return length
}

func lookahead(data []byte, offset, distance int) (byte, error) {
	i := offset + distance
	if i >= len(data) {
		return 0, fmt.Errorf("%w: opcode 0x%02X at offset %d needs byte at offset %d, program has %d bytes",
			ErrMalformedTail, data[offset], offset, i, len(data))
	}
	return data[i], nil
}
