// Package checksum implements the running barcode checksum with end-around carry.
package checksum

// Accumulator is an 8 bit running sum where a carry out of bit 7 is added back into bit 0.
// The zero value is an accumulator starting at 0.
type Accumulator struct {
	sum int
}

// Add folds a byte into the checksum.
func (a *Accumulator) Add(b byte) {
	a.sum += int(b)
	if a.sum > 0xff {
		a.sum++
	}
	a.sum &= 0xff
}

// AddBytes folds all bytes into the checksum in order.
func (a *Accumulator) AddBytes(data []byte) {
	for _, b := range data {
		a.Add(b)
	}
}

// Sum returns the current checksum value.
func (a *Accumulator) Sum() byte {
	return byte(a.sum)
}
