package executor

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"organizer/internal/logging"
	"organizer/internal/planner"
	"organizer/internal/rollback"
	"organizer/internal/services"
)

// RollbackWriter persists a reverse-plan document incrementally. Execute
// calls it after every operation commits, so a crash mid-run never loses
// the ability to undo what already happened.
type RollbackWriter interface {
	Write(doc rollback.Doc) error
}

// Executor applies a planner.Plan's ready items.
type Executor struct {
	downloader Downloader
	writer     RollbackWriter
	maxWorkers int

	// Logger receives per-item records tagged with item id and stage.
	// Nil means silent.
	Logger *slog.Logger
	// OnItem, when set, observes each item's terminal result as it lands.
	// Called from worker goroutines, serialized.
	OnItem func(ItemResult)
}

// New constructs an Executor. A nil downloader defaults to a real HTTP
// client; maxWorkers <= 0 defaults to 4.
func New(downloader Downloader, writer RollbackWriter, maxWorkers int) *Executor {
	if downloader == nil {
		downloader = NewHTTPDownloader(nil)
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Executor{downloader: downloader, writer: writer, maxWorkers: maxWorkers}
}

// Execute applies every Ready item in plan. Items whose target directories
// are disjoint at the first path component under plan.TargetPath run
// concurrently, bounded by maxWorkers; items that share a top-level target
// directory are serialized within their group to avoid racing the mkdir
// chain they share. One item's failure never aborts another's.
func (e *Executor) Execute(ctx context.Context, plan *planner.Plan) []ItemResult {
	groups := groupByDisjointRoot(plan.Items, plan.TargetPath)

	results := make([]ItemResult, 0, len(plan.Items))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.maxWorkers)

	for _, group := range groups {
		group := group
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			for _, item := range group {
				res := e.executeItem(ctx, plan, item)
				mu.Lock()
				results = append(results, res)
				if e.OnItem != nil {
					e.OnItem(res)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].ItemID < results[j].ItemID })
	return results
}

func (e *Executor) executeItem(ctx context.Context, plan *planner.Plan, item planner.PlanItem) ItemResult {
	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithStage(ctx, "execute")
	log := logging.WithContext(ctx, e.Logger)
	log.Debug("applying item", "operations", len(item.Operations))

	doc := rollback.Doc{Version: "1.0", PlanID: plan.ID, ItemID: item.ID, ExecutedAt: time.Now()}

	for _, op := range item.Operations {
		select {
		case <-ctx.Done():
			return ItemResult{ItemID: item.ID, State: StateSkipped, Err: ctx.Err(), Reverse: doc}
		default:
		}

		rev, ok, err := applyOperation(ctx, op, e.downloader)
		if err != nil {
			e.persist(doc)
			log.Error("item aborted", "op", string(op.Kind), "error", err)
			return ItemResult{ItemID: item.ID, State: StateFailed, Err: err, Reverse: doc}
		}
		if ok {
			doc.Operations = append(doc.Operations, rev)
			e.persist(doc)
		}
	}

	log.Info("item committed", "operations", len(doc.Operations))
	return ItemResult{ItemID: item.ID, State: StateCommitted, Reverse: doc}
}

func (e *Executor) persist(doc rollback.Doc) {
	if e.writer == nil {
		return
	}
	// Best-effort: a write failure here is a durability warning, not a
	// reason to abandon an otherwise-successful mutation already on disk.
	_ = e.writer.Write(doc)
}

// groupByDisjointRoot partitions items by the first path component of
// their target directory relative to targetRoot, preserving each group's
// relative item order.
func groupByDisjointRoot(items []planner.PlanItem, targetRoot string) [][]planner.PlanItem {
	order := make([]string, 0)
	groups := make(map[string][]planner.PlanItem)
	for _, item := range items {
		key := topLevelComponent(item.Target, targetRoot)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}
	out := make([][]planner.PlanItem, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}

func topLevelComponent(target *planner.TargetDoc, targetRoot string) string {
	if target == nil {
		return ""
	}
	rel := strings.TrimPrefix(target.Dir, targetRoot)
	rel = strings.TrimPrefix(rel, "/")
	if idx := strings.IndexByte(rel, '/'); idx >= 0 {
		return rel[:idx]
	}
	return rel
}
