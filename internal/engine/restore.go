package engine

import (
	"errors"
	"fmt"

	"github.com/andronet-dev/andronet/internal/catalog"
	"github.com/andronet-dev/andronet/internal/device"
	"github.com/andronet-dev/andronet/internal/logger"
	"github.com/andronet-dev/andronet/internal/schema"
	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

// RestoreOptions configures one restore pass.
type RestoreOptions struct {
	Snapshot *snapshot.Snapshot
	Bridge   device.Bridge
	DryRun   bool
	Yes      bool
	Log      *logger.Logger
	Confirm  func(question string, defaultVal bool) (bool, error)
}

// GroupResult summarizes one snapshot group of a restore pass.
type GroupResult struct {
	Name         string
	Restored     int
	Skipped      int
	Failed       int
	WouldRestore int
}

// RestoreResult summarizes a restore pass.
type RestoreResult struct {
	Groups    []GroupResult
	Cancelled bool
}

func (r *RestoreResult) TotalRestored() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Restored
	}
	return n
}

func (r *RestoreResult) TotalSkipped() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Skipped
	}
	return n
}

func (r *RestoreResult) TotalFailed() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Failed
	}
	return n
}

func (r *RestoreResult) TotalWouldRestore() int {
	n := 0
	for _, g := range r.Groups {
		n += g.WouldRestore
	}
	return n
}

// Restore writes every captured value in the snapshot back to the device.
// Entries with an empty captured value are skipped, so snapshots taken on a
// device where some settings were unreadable never write empty strings back.
// Groups the snapshot names but the tool does not understand are skipped
// with a warning.
func Restore(opts RestoreOptions) (*RestoreResult, error) {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	confirm := opts.Confirm
	if confirm == nil {
		confirm = ui.Confirm
	}

	if opts.Snapshot == nil || opts.Snapshot.Empty() {
		return nil, errors.New("snapshot has no settings to restore")
	}

	result := &RestoreResult{}

	total := restorableCount(opts.Snapshot)
	if total == 0 {
		ui.Muted("Nothing to restore.")
		return result, nil
	}

	if !opts.DryRun && !opts.Yes {
		question := fmt.Sprintf("Restore %d settings from snapshot taken %s?", total, opts.Snapshot.Timestamp)
		ok, err := confirm(question, true)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Cancelled = true
			ui.Muted("Cancelled.")
			return result, nil
		}
	}

	accs := newAccessorSet(opts.Bridge)
	for _, g := range opts.Snapshot.Groups {
		gr := GroupResult{Name: g.Name}

		ctype, _, known := catalog.SplitGroup(g.Name)
		if !known {
			ui.Warn(fmt.Sprintf("Skipping unknown group %q", g.Name))
			gr.Skipped = len(g.Entries)
			result.Groups = append(result.Groups, gr)
			continue
		}

		for _, e := range g.Entries {
			if e.Current == "" {
				gr.Skipped++
				continue
			}
			if opts.DryRun {
				fmt.Printf("[DRY-RUN] Would restore %s = %s\n", e.Key, e.Current)
				gr.WouldRestore++
				continue
			}
			acc, err := accs.forType(ctype)
			if err != nil {
				ui.Warn(fmt.Sprintf("Failed to restore %s: %v", e.Key, err))
				gr.Failed++
				continue
			}
			if err := acc.Write(e.Key, e.Current); err != nil {
				log.Debug().Str("key", e.Key).Err(err).Msg("restore write failed")
				ui.Warn(fmt.Sprintf("Failed to restore %s: %v", e.Key, err))
				gr.Failed++
				continue
			}
			row := fmt.Sprintf("%s = %s", e.Key, e.Current)
			if ctype == schema.EnvironmentVariables {
				row += " (session only)"
			}
			ui.Success(row)
			gr.Restored++
		}

		result.Groups = append(result.Groups, gr)
	}

	return result, nil
}

// restorableCount counts entries a restore pass would actually write: a
// non-empty captured value inside a group the tool understands.
func restorableCount(snap *snapshot.Snapshot) int {
	n := 0
	for _, g := range snap.Groups {
		if _, _, known := catalog.SplitGroup(g.Name); !known {
			continue
		}
		for _, e := range g.Entries {
			if e.Current != "" {
				n++
			}
		}
	}
	return n
}
