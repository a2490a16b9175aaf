// Package brc computes per key minimum, mean and maximum over a buffer of
// key;value records by scanning record aligned ranges in parallel and merging
// the per worker tables.
package brc

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zeebo/errs/v2"

	"github.com/histdb/brc/buffer"
	"github.com/histdb/brc/keytbl"
	"github.com/histdb/brc/scan"
	"github.com/histdb/brc/split"
)

// Run scans data with cfg.Workers workers and returns the merged table. data
// must not be modified until Run returns. If any range fails to parse, the
// error from the earliest range is returned and no table is.
//
// ctx carries the logger (see zerolog.Ctx). Run does not stop early when it is
// canceled; it only refuses to start.
func Run(ctx context.Context, data []byte, cfg Config) (*keytbl.T, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err)
	}

	log := zerolog.Ctx(ctx)
	started := time.Now()

	buf := buffer.Of(data)
	ranges := split.Ranges(data, cfg.Workers)
	log.Debug().Int("workers", len(ranges)).Int("bytes", len(data)).Msg("split input")

	tables := make([]*keytbl.T, len(ranges))
	failed := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func() {
			defer wg.Done()

			now := time.Now()
			t := keytbl.New(uint(cfg.TableBits), cfg.HashMul)
			records, err := scan.Range(buf, r, t, cfg.MaxKeyLen)
			if err != nil {
				log.Error().Err(err).Int("worker", i).Msg("scan failed")
				failed[i] = err
				return
			}
			tables[i] = t

			log.Debug().
				Int("worker", i).
				Uint64("start", uint64(r.Start)).
				Uint64("end", uint64(r.End)).
				Int("records", records).
				Int("keys", t.Len()).
				Dur("elapsed", time.Since(now)).
				Msg("scanned range")
		}()
	}
	wg.Wait()

	for _, err := range failed {
		if err != nil {
			return nil, err
		}
	}

	merge := mergeInto
	if cfg.TreeMerge {
		merge = mergeTree
	}
	if err := merge(tables); err != nil {
		return nil, err
	}

	log.Info().
		Int("keys", tables[0].Len()).
		Dur("elapsed", time.Since(started)).
		Msg("aggregated")

	return tables[0], nil
}

// mergeInto folds every table into the first one, in order.
func mergeInto(tables []*keytbl.T) error {
	for _, t := range tables[1:] {
		if err := tables[0].Merge(t); err != nil {
			return err
		}
	}
	return nil
}

// mergeTree merges disjoint pairs concurrently, halving the number of live
// tables each round until the result is in the first one.
func mergeTree(tables []*keytbl.T) error {
	for step := 1; step < len(tables); step *= 2 {
		var (
			wg sync.WaitGroup
			eg errs.Group
			mu sync.Mutex
		)
		for i := 0; i+step < len(tables); i += 2 * step {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := tables[i].Merge(tables[i+step]); err != nil {
					mu.Lock()
					eg.Add(err)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		if err := eg.Err(); err != nil {
			return err
		}
	}
	return nil
}
