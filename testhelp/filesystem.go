package testhelp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/assert"
)

// Tempfile writes data to a new file that is removed with the test and
// returns its path.
func Tempfile(tb testing.TB, data []byte) string {
	tb.Helper()
	name := filepath.Join(tb.TempDir(), "measurements.txt")
	assert.NoError(tb, os.WriteFile(name, data, 0644))
	return name
}
