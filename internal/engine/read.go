// Package engine drives the three operations that touch a device: applying
// schema defaults, reading live state and restoring snapshots. Each one
// walks a catalog or snapshot in order and goes through the accessor for
// the entry's category type.
package engine

import (
	"fmt"
	"time"

	"github.com/andronet-dev/andronet/internal/accessor"
	"github.com/andronet-dev/andronet/internal/catalog"
	"github.com/andronet-dev/andronet/internal/device"
	"github.com/andronet-dev/andronet/internal/logger"
	"github.com/andronet-dev/andronet/internal/schema"
	"github.com/andronet-dev/andronet/internal/snapshot"
)

// ReadOptions configures one read pass.
type ReadOptions struct {
	Catalog *catalog.Catalog
	Bridge  device.Bridge
	Compare bool
	Log     *logger.Logger
	Now     func() time.Time
}

// ReadResult summarizes a read pass. Matches and Mismatches are only
// populated for comparing reads.
type ReadResult struct {
	Read       int
	Unreadable int
	Matches    int
	Mismatches int
	Warnings   []string
}

// Read captures the live value of every catalog setting. It never prints;
// callers decide how to render the snapshot, so machine output stays clean.
func Read(opts ReadOptions) (*snapshot.Snapshot, *ReadResult, error) {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	snap, warnings := capture(opts.Catalog, opts.Bridge, log, now())
	result := &ReadResult{
		Read:       snap.EntryCount() - len(warnings),
		Unreadable: len(warnings),
		Warnings:   warnings,
	}

	if opts.Compare {
		for gi := range snap.Groups {
			for ei := range snap.Groups[gi].Entries {
				entry := &snap.Groups[gi].Entries[ei]
				matches := entry.Current == entry.Default
				entry.MatchesDefault = &matches
				if matches {
					result.Matches++
				} else {
					result.Mismatches++
				}
			}
		}
	}

	return snap, result, nil
}

// capture walks the catalog in order and reads each setting through its
// accessor. Unreadable settings stay in the snapshot with an empty current
// value and produce a warning; restore skips empty values, so a partial
// capture never turns into spurious writes later.
func capture(cat *catalog.Catalog, bridge device.Bridge, log *logger.Logger, now time.Time) (*snapshot.Snapshot, []string) {
	snap := &snapshot.Snapshot{Timestamp: now.UTC().Format(snapshot.TimeFormat)}
	var warnings []string

	accs := newAccessorSet(bridge)
	cat.ForEach(func(d catalog.Descriptor) {
		group := d.Group()
		if len(snap.Groups) == 0 || snap.Groups[len(snap.Groups)-1].Name != group {
			snap.Groups = append(snap.Groups, snapshot.Group{Name: group})
		}

		value := ""
		acc, err := accs.forType(d.CategoryType)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", d.Key, err))
		} else if v, rerr := acc.Read(d.Key); rerr != nil {
			log.Debug().Str("key", d.Key).Err(rerr).Msg("read failed")
			warnings = append(warnings, fmt.Sprintf("%s: %v", d.Key, rerr))
		} else {
			value = v
		}

		last := &snap.Groups[len(snap.Groups)-1]
		last.Entries = append(last.Entries, snapshot.Entry{
			Key:         d.Key,
			Current:     value,
			Default:     d.Default,
			Description: d.Description,
		})
	})

	return snap, warnings
}

// accessorSet lazily builds one accessor per category type against a single
// bridge, so a pass over a catalog probes for each tool at most once.
type accessorSet struct {
	bridge device.Bridge
	byType map[schema.CategoryType]accessor.Accessor
}

func newAccessorSet(bridge device.Bridge) *accessorSet {
	return &accessorSet{bridge: bridge, byType: make(map[schema.CategoryType]accessor.Accessor)}
}

func (s *accessorSet) forType(ctype schema.CategoryType) (accessor.Accessor, error) {
	if acc, ok := s.byType[ctype]; ok {
		return acc, nil
	}
	acc, err := accessor.ForType(ctype, s.bridge)
	if err != nil {
		return nil, err
	}
	s.byType[ctype] = acc
	return acc, nil
}
