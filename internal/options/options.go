// Package options contains the program options.
package options

// Output formats.
const (
	FormatBinary  = "bin" // raw barcode rows
	FormatListing = "hex" // human readable row listing
)

// Parameters contains file path options.
type Parameters struct {
	Input  string // input program file, "-" for stdin
	Output string // output file, stdout if empty
	Config string // TOML config file
	Batch  string // glob pattern of files to process
}

// Flags contains behavior options.
type Flags struct {
	Format   string // output format, FormatBinary or FormatListing
	MaxSize  int    // maximum program size in bytes
	Truncate bool   // drop input bytes beyond MaxSize instead of failing
	Verify   bool   // decode the generated barcode and compare it to the program
	Debug    bool
	Quiet    bool
}

// ListingFlags contains options of the row listing output.
type ListingFlags struct {
	NoOffsets      bool // omit program offsets in comments
	NoInstructions bool // omit instruction boundary markers
}

// Program options of the encoder.
type Program struct {
	Parameters
	Flags
	ListingFlags
}
