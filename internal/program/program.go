// Package program represents an HP-41 program image.
package program

// MaxSize is the largest program image that is loaded. It is larger than the
// memory of any HP-41, so every valid program fits.
const MaxSize = 4096

// Terminator is the canonical END instruction with the "GTOs not compiled" flag set.
var Terminator = [3]byte{0xC0, 0x00, 0x2F}

const (
	terminatorSize   = len(Terminator)
	globalOpcodeMask = 0xf0
	globalOpcode     = 0xc0
	labelTextFlag    = 0x80
)

// NormalizeResult describes what normalization changed.
type NormalizeResult uint8

// normalization results.
const (
	TerminatorCanonical NormalizeResult = iota // program already ended with the canonical END
	TerminatorRewritten                        // existing END had its compiled GTO distance cleared
	TerminatorAppended                         // no END found, canonical END appended
)

func (r NormalizeResult) String() string {
	switch r {
	case TerminatorCanonical:
		return "canonical"
	case TerminatorRewritten:
		return "rewritten"
	case TerminatorAppended:
		return "appended"
	default:
		return "unknown"
	}
}

// Program defines an HP-41 program as a linear stream of opcode bytes.
type Program struct {
	data       []byte
	normalized bool
}

// New creates a new program from a copy of the given opcode bytes.
func New(data []byte) *Program {
	buf := make([]byte, len(data), len(data)+terminatorSize)
	copy(buf, data)
	return &Program{
		data: buf,
	}
}

// Bytes returns the opcode bytes of the program.
func (p *Program) Bytes() []byte {
	return p.data
}

// Len returns the length of the program in bytes.
func (p *Program) Len() int {
	return len(p.data)
}

// Normalized returns whether Normalize has been run on the program.
func (p *Program) Normalized() bool {
	return p.normalized
}

// Normalize makes sure that the program ends with exactly one canonical END.
// An existing END has its compiled GTO distance cleared, otherwise a new END
// is appended. Normalizing an already normalized program changes nothing.
func (p *Program) Normalize() NormalizeResult {
	p.normalized = true

	if !p.endsWithEnd() {
		p.data = append(p.data, Terminator[:]...)
		return TerminatorAppended
	}

	tail := p.data[len(p.data)-terminatorSize:]
	if [3]byte(tail) == Terminator {
		return TerminatorCanonical
	}
	copy(tail, Terminator[:])
	return TerminatorRewritten
}

// endsWithEnd returns whether the last 3 bytes form an END instruction.
// A global label instruction has the text flag set in its third byte.
func (p *Program) endsWithEnd() bool {
	l := len(p.data)
	if l < terminatorSize {
		return false
	}
	return p.data[l-3]&globalOpcodeMask == globalOpcode && p.data[l-1]&labelTextFlag == 0
}
