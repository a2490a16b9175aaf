package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/zeebo/assert"

	"github.com/histdb/brc/testhelp"
)

const (
	input  = "a;1.0\nb;-2.5\na;3.0\n"
	output = "{a=1.0/2.0/3.0, b=-2.5/-2.5/-2.5}"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{
		"-workers", "4",
		"-hash_mul", "0x01000193",
		"-load", "a.snap",
		"-load", "b.snap",
		"-save", "c.snap",
		"in.txt",
	})
	assert.NoError(t, err)

	assert.Equal(t, opts.input, "in.txt")
	assert.Equal(t, opts.save, "c.snap")
	assert.DeepEqual(t, opts.loads, []string{"a.snap", "b.snap"})
	assert.DeepEqual(t, opts.overrides, map[string]any{
		"workers":  "4",
		"hash_mul": "0x01000193",
	})
}

func TestParseFlagsInput(t *testing.T) {
	_, err := parseFlags(nil)
	assert.Error(t, err)

	_, err = parseFlags([]string{"a.txt", "b.txt"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-bogus", "a.txt"})
	assert.Error(t, err)
}

func TestRunSnapshots(t *testing.T) {
	log := zerolog.Nop()
	in := testhelp.Tempfile(t, []byte(input))
	dir := t.TempDir()

	expect := filepath.Join(dir, "expect.txt")
	assert.NoError(t, os.WriteFile(expect, []byte(output+"\n"), 0644))

	snap := filepath.Join(dir, "out.snap")
	assert.NoError(t, run(&log, []string{"-workers", "2", "-save", snap, "-expect", expect, in}))

	// merging the same data again leaves min, mean and max unchanged
	assert.NoError(t, run(&log, []string{"-load", snap, "-load", snap, "-expect", expect, in}))
}

func TestRunMismatch(t *testing.T) {
	log := zerolog.Nop()
	in := testhelp.Tempfile(t, []byte(input))

	expect := filepath.Join(t.TempDir(), "expect.txt")
	assert.NoError(t, os.WriteFile(expect, []byte("{a=1.0/1.0/1.0}\n"), 0644))

	assert.Error(t, run(&log, []string{"-expect", expect, in}))
}

func TestRunErrors(t *testing.T) {
	log := zerolog.Nop()
	dir := t.TempDir()

	// missing input
	assert.Error(t, run(&log, []string{filepath.Join(dir, "missing.txt")}))

	// malformed input
	bad := testhelp.Tempfile(t, []byte("a;1.0\nnope\n"))
	assert.Error(t, run(&log, []string{bad}))

	// invalid configuration
	good := testhelp.Tempfile(t, []byte(input))
	assert.Error(t, run(&log, []string{"-table_bits", "2", good}))
	assert.Error(t, run(&log, []string{"-log_level", "loud", good}))

	// corrupt snapshot
	snap := filepath.Join(dir, "bad.snap")
	assert.NoError(t, os.WriteFile(snap, []byte("junk"), 0644))
	assert.Error(t, run(&log, []string{"-load", snap, good}))
}
