package executor

import (
	"fmt"
	"os"

	"organizer/internal/fsutil"
	"organizer/internal/planner"
	"organizer/internal/services"
)

// DryRunReport summarizes a --dry-run preflight: no mutation occurs, only
// the free-space check and the duplicate/foreign-target scan that gate
// a real Execute.
type DryRunReport struct {
	FreeBytes     uint64
	RequiredBytes int64
	Collisions    []string
}

// OK reports whether plan is safe to execute: enough free space and no
// target-path collisions against pre-existing, non-plan filesystem state.
func (r DryRunReport) OK() bool {
	return len(r.Collisions) == 0 && int64(r.FreeBytes) >= r.RequiredBytes
}

// DryRun inspects plan against the live filesystem without mutating it.
func DryRun(plan *planner.Plan) (DryRunReport, error) {
	var report DryRunReport

	free, err := fsutil.AvailableBytes(plan.TargetPath)
	if err != nil {
		return report, services.Wrap(services.ErrExternalTool, "executor", "dry_run", "statfs target", err)
	}
	report.FreeBytes = free

	for _, item := range plan.Items {
		report.RequiredBytes += item.Source.Size
		for _, op := range item.Operations {
			path := opPreviewTarget(op)
			if path == "" || op.Kind == planner.OpMkdir {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				report.Collisions = append(report.Collisions, fmt.Sprintf("%s: %s already exists", op.Kind, path))
			} else if !os.IsNotExist(err) {
				return report, services.Wrap(services.ErrExternalTool, "executor", "dry_run", "stat "+path, err)
			}
		}
	}

	return report, nil
}

func opPreviewTarget(op planner.Operation) string {
	switch op.Kind {
	case planner.OpMove:
		return op.Dst
	case planner.OpWrite, planner.OpDownload:
		return op.Path
	default:
		return ""
	}
}
