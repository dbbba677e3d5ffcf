package engine

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/andronet-dev/andronet/internal/catalog"
	"github.com/andronet-dev/andronet/internal/device"
	"github.com/andronet-dev/andronet/internal/logger"
	"github.com/andronet-dev/andronet/internal/schema"
	"github.com/andronet-dev/andronet/internal/snapshot"
	"github.com/andronet-dev/andronet/internal/ui"
)

// ApplyOptions configures one apply pass. Catalog holds the settings in
// scope for this run; Full holds the complete catalog, which the automatic
// backup captures so a scoped apply still preserves everything.
type ApplyOptions struct {
	Catalog *catalog.Catalog
	Full    *catalog.Catalog
	Bridge  device.Bridge
	Store   *snapshot.Store
	Index   *snapshot.Index
	DryRun  bool
	Yes     bool
	Log     *logger.Logger
	Confirm func(question string, defaultVal bool) (bool, error)
	Now     func() time.Time
}

// ApplyResult summarizes an apply pass.
type ApplyResult struct {
	Applied    int
	Skipped    int
	Failed     int
	WouldApply int
	BackupPath string
	Cancelled  bool
}

// Apply writes every applyable default in the scoped catalog to the device.
// Before the first write it asks for confirmation (unless Yes) and backs up
// the device's current values; write failures are reported and counted but
// never abort the pass.
func Apply(opts ApplyOptions) (*ApplyResult, error) {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	confirm := opts.Confirm
	if confirm == nil {
		confirm = ui.Confirm
	}

	result := &ApplyResult{}

	applyable := opts.Catalog.ApplyableCount()
	if applyable == 0 {
		result.Skipped = opts.Catalog.Len()
		ui.Muted("Nothing to apply.")
		return result, nil
	}

	if opts.DryRun {
		for _, d := range opts.Catalog.Settings() {
			if !d.Applyable() {
				result.Skipped++
				continue
			}
			fmt.Printf("[DRY-RUN] Would set %s = %s (%s)\n", d.Key, d.Default, d.Description)
			result.WouldApply++
		}
		return result, nil
	}

	if !opts.Yes {
		question := fmt.Sprintf("Apply %d settings to %s?", applyable, opts.Bridge.Label())
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

	if opts.Store != nil {
		result.BackupPath = autoBackup(opts, log, now)
	}

	accs := newAccessorSet(opts.Bridge)
	for _, d := range opts.Catalog.Settings() {
		if !d.Applyable() {
			result.Skipped++
			continue
		}
		acc, err := accs.forType(d.CategoryType)
		if err != nil {
			ui.Warn(fmt.Sprintf("Failed to set %s: %v", d.Key, err))
			result.Failed++
			continue
		}
		if err := acc.Write(d.Key, d.Default); err != nil {
			log.Debug().Str("key", d.Key).Err(err).Msg("write failed")
			ui.Warn(fmt.Sprintf("Failed to set %s: %v", d.Key, err))
			result.Failed++
			continue
		}
		row := fmt.Sprintf("%s = %s", d.Key, d.Default)
		if d.CategoryType == schema.EnvironmentVariables {
			row += " (session only)"
		}
		ui.Success(row)
		result.Applied++
	}

	return result, nil
}

// autoBackup captures the full catalog and saves it before any write. The
// first backup on a machine is named first-run, later ones pre-apply.
// Failures here warn and the apply pass continues without a backup.
func autoBackup(opts ApplyOptions, log *logger.Logger, now func() time.Time) string {
	full := opts.Full
	if full == nil {
		full = opts.Catalog
	}

	name := "pre-apply"
	if opts.Store.Empty() {
		name = "first-run"
	}

	snap, _ := capture(full, opts.Bridge, log, now())
	path, err := opts.Store.Save(snap, name, now())
	if err != nil {
		ui.Warn(fmt.Sprintf("Backup failed: %v", err))
		return ""
	}
	ui.Success(fmt.Sprintf("Backup saved to %s", path))

	if opts.Index != nil {
		rec := snapshot.Record{
			Name:        name,
			File:        filepath.Base(path),
			Timestamp:   snap.Timestamp,
			Description: "automatic backup before apply",
			CreatedBy:   "andronet apply",
		}
		if err := opts.Index.Append(rec); err != nil {
			ui.Warn(fmt.Sprintf("Could not update backup index: %v", err))
		}
	}

	return path
}
