package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"docket/internal/config"
	"docket/internal/diag"
	"docket/internal/model"
	"docket/internal/observ"
	"docket/internal/registry"
	"docket/internal/source"
	"docket/internal/trace"
	"docket/internal/unit"
)

// ErrDiagnostics is returned when the run finished but reported errors.
var ErrDiagnostics = errors.New("units reported errors")

// Request configures one documentation build.
type Request struct {
	// Paths are unit files or directories holding them.
	Paths   []string
	BaseDir string
	Options config.Options
	// MaxDiagnostics caps diagnostics per unit; 0 means unlimited.
	MaxDiagnostics int
	Progress       ProgressSink
	Timer          *observ.Timer
}

// UnitResult describes one unit file.
type UnitResult struct {
	Path    string
	Display string
	FileID  source.FileID
	Stats   unit.Stats
	Loaded  bool
}

// Result is what a build produced. Registry is frozen.
type Result struct {
	Registry *registry.Registry
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Units    []UnitResult
	Linked   int
	Aliases  int
	Hidden   int
	Timings  Timings
}

type decoded struct {
	frag  *model.Tree
	stats unit.Stats
	bag   *diag.Bag
}

// Build runs load, decode, merge, resolve and filter over the requested
// units. Decoding is parallel; merging happens in sorted path order. A
// structural conflict aborts the run. ErrDiagnostics is returned with a
// complete result when some unit reported errors.
func Build(ctx context.Context, req *Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	span, ctx := trace.Start(ctx, trace.ScopeRun, "build")
	defer span.End("")

	files, err := CollectUnits(req.Paths, &req.Options)
	if err != nil {
		return nil, err
	}
	span.Count(trace.Counts{Units: len(files)})
	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = int(^uint(0) >> 1)
	}
	res := &Result{
		FileSet: source.NewFileSetWithBase(req.BaseDir),
		Bag:     diag.NewBag(maxDiag),
		Units:   make([]UnitResult, len(files)),
	}
	display := DisplayPaths(files, req.BaseDir)
	for i, path := range files {
		res.Units[i] = UnitResult{Path: path, Display: display[i]}
	}
	progress{req.Progress}.queued(res.Units)

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	res.Registry = registry.New(registry.Options{
		WarnUnresolvedAliases: req.Options.WarnUnresolvedAliases,
		Reporter:              reporter,
	})

	if err := res.phase(ctx, req, StageLoad, func(ctx context.Context) (string, error) {
		return res.load(ctx, req, reporter)
	}); err != nil {
		return res, err
	}

	var slots []decoded
	if err := res.phase(ctx, req, StageDecode, func(ctx context.Context) (string, error) {
		var derr error
		slots, derr = res.decode(ctx, req, maxDiag)
		return strconv.Itoa(len(slots)) + " units", derr
	}); err != nil {
		return res, err
	}

	if err := res.phase(ctx, req, StageMerge, func(ctx context.Context) (string, error) {
		return res.merge(ctx, req, slots, reporter)
	}); err != nil {
		return res, err
	}

	if err := res.phase(ctx, req, StageResolve, func(ctx context.Context) (string, error) {
		res.Registry.SetTrace(trace.RecorderFrom(ctx))
		linked, err := res.Registry.LinkConstantAliases()
		if err != nil {
			return "", err
		}
		created, err := res.Registry.ResolveAliases()
		if err != nil {
			return "", err
		}
		res.Linked, res.Aliases = linked, created
		trace.Annotate(ctx, trace.Counts{Aliases: created})
		return fmt.Sprintf("%d linked, %d aliases", linked, created), nil
	}); err != nil {
		return res, err
	}

	if err := res.phase(ctx, req, StageFilter, func(ctx context.Context) (string, error) {
		res.Hidden = res.Registry.RemoveNodoc()
		trace.Annotate(ctx, trace.Counts{Hidden: res.Hidden})
		return fmt.Sprintf("%d hidden", res.Hidden), nil
	}); err != nil {
		return res, err
	}
	res.Registry.Freeze()

	for _, u := range res.Units {
		if u.Loaded {
			progress{req.Progress}.unit(u, StageFilter, StatusDone, nil, 0)
		}
	}
	if res.Bag.HasErrors() {
		return res, ErrDiagnostics
	}
	return res, nil
}

// phase times fn, wraps it in a trace span and records the stage duration.
func (res *Result) phase(ctx context.Context, req *Request, stage Stage, fn func(context.Context) (string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	span, ctx := trace.Start(ctx, trace.ScopeStage, string(stage))
	prog := progress{req.Progress}
	prog.stage(stage, StatusWorking, nil, 0)
	start := time.Now()
	idx := req.Timer.Begin(string(stage))
	note, err := fn(ctx)
	if err != nil && note == "" {
		note = "failed"
	}
	req.Timer.End(idx, note)
	elapsed := time.Since(start)
	res.Timings.Set(stage, elapsed)
	span.End(note)
	if err != nil {
		prog.stage(stage, StatusError, err, elapsed)
		return err
	}
	prog.stage(stage, StatusDone, nil, elapsed)
	return nil
}

func (res *Result) load(ctx context.Context, req *Request, reporter diag.Reporter) (string, error) {
	prog := progress{req.Progress}
	loaded := 0
	for i := range res.Units {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		u := &res.Units[i]
		prog.unit(*u, StageLoad, StatusWorking, nil, 0)
		id, err := res.FileSet.Load(u.Path)
		if err != nil {
			diag.ReportError(reporter, diag.IOLoadFileError, source.Span{},
				fmt.Sprintf("failed to load unit %s: %v", u.Display, err)).Emit()
			prog.unit(*u, StageLoad, StatusError, err, 0)
			continue
		}
		u.FileID, u.Loaded = id, true
		loaded++
	}
	return fmt.Sprintf("%d/%d units", loaded, len(res.Units)), nil
}

func (res *Result) decode(ctx context.Context, req *Request, maxDiag int) ([]decoded, error) {
	prog := progress{req.Progress}
	jobs := req.Options.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// индексы уникальны для каждой горутины, мьютекс не нужен
	slots := make([]decoded, len(res.Units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(res.Units))))
	for i := range res.Units {
		i := i
		u := res.Units[i]
		if !u.Loaded {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			span, uctx := trace.StartUnit(gctx, "decode", u.Display)
			prog.unit(u, StageDecode, StatusWorking, nil, 0)
			start := time.Now()

			bag := diag.NewBag(maxDiag)
			frag, stats, err := unit.Build(uctx, res.FileSet.Get(u.FileID), unit.Options{
				TabWidth: req.Options.TabWidth,
				Reporter: diag.BagReporter{Bag: bag},
			})
			span.Count(trace.Counts{
				Records:    stats.Records,
				Skipped:    stats.Skipped,
				Containers: stats.Containers,
				Members:    stats.Members,
			}).End("")
			if err != nil {
				prog.unit(u, StageDecode, StatusError, err, 0)
				if errors.Is(err, model.ErrConflict) {
					diag.ReportError(diag.BagReporter{Bag: bag}, diag.MergeConflict, source.Span{File: u.FileID},
						err.Error()).Emit()
					slots[i] = decoded{bag: bag, stats: stats}
					return fmt.Errorf("%s: %w", u.Display, err)
				}
				return err
			}
			slots[i] = decoded{frag: frag, stats: stats, bag: bag}
			prog.unit(u, StageDecode, StatusDone, nil, time.Since(start))
			return nil
		})
	}
	err := g.Wait()
	// per-unit diagnostics in unit order
	for i := range slots {
		if slots[i].bag != nil {
			res.Bag.Merge(slots[i].bag)
		}
		res.Units[i].Stats = slots[i].stats
	}
	return slots, err
}

func (res *Result) merge(ctx context.Context, req *Request, slots []decoded, reporter diag.Reporter) (string, error) {
	prog := progress{req.Progress}
	rec := trace.RecorderFrom(ctx)
	res.Registry.SetTrace(rec)
	merged := 0
	for i, slot := range slots {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if slot.frag == nil {
			continue
		}
		u := res.Units[i]
		prog.unit(u, StageMerge, StatusWorking, nil, 0)
		if err := res.Registry.AddFragment(slot.frag); err != nil {
			var conflict *model.ConflictError
			if errors.As(err, &conflict) {
				rec.Entity("conflict", conflict.FullName, u.Display)
				diag.ReportError(reporter, diag.MergeConflict, source.Span{File: u.FileID},
					fmt.Sprintf("%s is a %s here but a %s elsewhere", conflict.FullName, conflict.Incoming, conflict.Existing)).Emit()
			}
			prog.unit(u, StageMerge, StatusError, err, 0)
			return "", fmt.Errorf("merge %s: %w", u.Display, err)
		}
		rec.Unit("merged", u.Display, "")
		merged++
	}
	trace.Annotate(ctx, trace.Counts{Units: merged})
	return fmt.Sprintf("%d units, %d names", merged, res.Registry.Len()), nil
}
