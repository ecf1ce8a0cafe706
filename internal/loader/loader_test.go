package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/prog41bar/internal/options"
	"github.com/retroenv/prog41bar/internal/program"
	"github.com/retroenv/retrogolib/assert"
)

func loadOptions(input string, maxSize int, truncate bool) options.Program {
	return options.Program{
		Parameters: options.Parameters{Input: input},
		Flags:      options.Flags{MaxSize: maxSize, Truncate: truncate},
	}
}

//nolint:funlen // test functions can be long
func TestLoad(t *testing.T) {
	t.Run("load program file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x01, 0x40, 0xC0, 0x00, 0x2F})

		result, err := New().Load(loadOptions(tmpFile, program.MaxSize, false))
		assert.NoError(t, err)
		assert.NotNil(t, result.Program)
		assert.False(t, result.Truncated)
		assert.Equal(t, []byte{0x01, 0x40, 0xC0, 0x00, 0x2F}, result.Program.Bytes())
	})

	t.Run("load from stdin", func(t *testing.T) {
		loader := &Loader{stdin: bytes.NewReader([]byte{0x01})}

		result, err := loader.Load(loadOptions(StdinName, program.MaxSize, false))
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x01}, result.Program.Bytes())
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load(loadOptions("/nonexistent/prog.raw", program.MaxSize, false))
		assert.Error(t, err)
	})

	t.Run("error on oversized file", func(t *testing.T) {
		tmpFile := createTempFile(t, bytes.Repeat([]byte{0x40}, 10))

		_, err := New().Load(loadOptions(tmpFile, 8, false))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrCapacityExceeded))
	})
}

func TestRead(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		maxSize   int
		truncate  bool
		expected  int
		truncated bool
		err       error
	}{
		{name: "empty input", size: 0, maxSize: 8, expected: 0},
		{name: "below maximum", size: 5, maxSize: 8, expected: 5},
		{name: "exactly maximum", size: 8, maxSize: 8, expected: 8},
		{name: "above maximum", size: 9, maxSize: 8, err: ErrCapacityExceeded},
		{name: "above maximum truncated", size: 20, maxSize: 8, truncate: true, expected: 8, truncated: true},
		{name: "default maximum", size: program.MaxSize, maxSize: 0, expected: program.MaxSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := bytes.Repeat([]byte{0x40}, tt.size)

			result, err := Read(bytes.NewReader(input), tt.maxSize, tt.truncate)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result.Program.Len())
			assert.Equal(t, tt.truncated, result.Truncated)
		})
	}
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.raw")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
