package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/zeebo/errs/v2"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/histdb/brc"
	"github.com/histdb/brc/filesystem"
	"github.com/histdb/brc/keytbl"
	"github.com/histdb/brc/render"
	"github.com/histdb/brc/rwutils"
)

type options struct {
	save       string
	loads      []string
	expect     string
	cpuprofile string
	overrides  map[string]any
	input      string
}

// configFlags are the flags that override the koanf key of the same name.
var configFlags = []string{"workers", "max_key_len", "table_bits", "hash_mul", "tree_merge", "log_level"}

func parseFlags(args []string) (opts options, err error) {
	fset := flag.NewFlagSet("brc", flag.ContinueOnError)
	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), "usage: brc [flags] INPUT\n")
		fset.PrintDefaults()
	}

	fset.Int("workers", 0, "parallel workers (default 3/4 of GOMAXPROCS)")
	fset.Int("max_key_len", brc.DefaultMaxKeyLen, "longest accepted key in bytes")
	fset.Int("table_bits", brc.DefaultTableBits, "log2 of the slots in each worker table")
	fset.String("hash_mul", fmt.Sprintf("%#x", keytbl.DefaultMul), "odd multiplier for key hashing")
	fset.Bool("tree_merge", false, "merge worker tables pairwise in parallel")
	fset.String("log_level", "info", "zerolog level")

	fset.StringVar(&opts.save, "save", "", "write the aggregated table snapshot to `file`")
	fset.Func("load", "merge a table snapshot from `file` (repeatable)", func(s string) error {
		opts.loads = append(opts.loads, s)
		return nil
	})
	fset.StringVar(&opts.expect, "expect", "", "fail unless the output equals the contents of `file`")
	fset.StringVar(&opts.cpuprofile, "cpuprofile", "", "write a cpu profile to `file`")

	if err := fset.Parse(args); err != nil {
		return opts, err
	}
	if fset.NArg() != 1 {
		fset.Usage()
		return opts, errs.Errorf("expected exactly one input file, got %d", fset.NArg())
	}
	opts.input = fset.Arg(0)

	// only flags that were set override the environment
	opts.overrides = make(map[string]any)
	fset.Visit(func(f *flag.Flag) {
		for _, name := range configFlags {
			if f.Name == name {
				opts.overrides[name] = f.Value.String()
			}
		}
	})

	return opts, nil
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(&log, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

func run(log *zerolog.Logger, args []string) (err error) {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug().Msgf(format, args...)
	}))
	if err != nil {
		return errs.Wrap(err)
	}
	defer undo()

	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := brc.LoadConfig(opts.overrides)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return errs.Wrap(err)
	}
	*log = log.Level(level)
	ctx := log.WithContext(context.Background())

	log.Debug().
		Int("workers", cfg.Workers).
		Int("table_bits", cfg.TableBits).
		Int("max_key_len", cfg.MaxKeyLen).
		Bool("tree_merge", cfg.TreeMerge).
		Msg("configured")

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return errs.Wrap(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err)
		}
		defer pprof.StopCPUProfile()
	}

	fs := new(filesystem.T)
	started := time.Now()

	tbl, err := aggregate(ctx, fs, opts.input, cfg)
	if err != nil {
		return err
	}
	for _, path := range opts.loads {
		if err := loadSnapshot(fs, path, tbl); err != nil {
			return errs.Errorf("loading snapshot %q: %w", path, err)
		}
	}
	if opts.save != "" {
		if err := saveSnapshot(fs, opts.save, tbl); err != nil {
			return errs.Errorf("saving snapshot %q: %w", opts.save, err)
		}
	}

	out := render.Format(tbl)
	log.Info().
		Int("keys", tbl.Len()).
		Float64("load", tbl.Load()).
		Str("digest", fmt.Sprintf("%016x", render.Digest(out))).
		Dur("elapsed", time.Since(started)).
		Msg("done")

	stdout := bufio.NewWriterSize(os.Stdout, 1<<16)
	_, _ = stdout.Write(out)
	_ = stdout.WriteByte('\n')
	if err := stdout.Flush(); err != nil {
		return errs.Wrap(err)
	}

	if opts.expect != "" {
		return compare(log, fs, opts.expect, out)
	}
	return nil
}

func aggregate(ctx context.Context, fs *filesystem.T, path string, cfg brc.Config) (tbl *keytbl.T, err error) {
	fh, err := fs.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = errs.Combine(err, fh.Close()) }()

	m, err := fh.Map()
	if err != nil {
		return nil, err
	}
	defer func() { err = errs.Combine(err, m.Unmap()) }()

	return brc.Run(ctx, m.Data, cfg)
}

func loadSnapshot(fs *filesystem.T, path string, tbl *keytbl.T) (err error) {
	fh, err := fs.OpenRead(path)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, fh.Close()) }()

	m, err := fh.Map()
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, m.Unmap()) }()

	var r rwutils.R
	r.Init(m.Data)
	return tbl.ReadFrom(&r)
}

func saveSnapshot(fs *filesystem.T, path string, tbl *keytbl.T) (err error) {
	fh, err := fs.Create(path)
	if err != nil {
		return err
	}

	var w rwutils.W
	w.Init(fh, make([]byte, 0, 1<<16))
	tbl.AppendTo(&w)

	return errs.Combine(w.Done(), fh.Sync(), fh.Close())
}

func compare(log *zerolog.Logger, fs *filesystem.T, path string, out []byte) error {
	want, err := fs.ReadFile(path)
	if err != nil {
		return err
	}
	want = bytes.TrimRight(want, "\n")
	if !bytes.Equal(want, out) {
		log.Error().
			Str("want", fmt.Sprintf("%016x", render.Digest(want))).
			Str("got", fmt.Sprintf("%016x", render.Digest(out))).
			Msg("output mismatch")
		return errs.Errorf("output does not match %q", path)
	}
	log.Info().Str("expect", path).Msg("output matches")
	return nil
}
