package host

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"tstl/internal/diag"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/printer"
	"tstl/internal/transform"
	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// Input pairs one parsed file with the oracle answering its type queries.
type Input struct {
	File   *tsast.SourceFile
	Oracle typeoracle.Oracle
}

// Result is one file's compilation outcome. Lua is empty when the
// file failed: no partial output is emitted.
type Result struct {
	Path     string
	Lua      string
	Features []lualib.Feature
	Bag      *diag.Bag
	Failed   bool
}

// Event reports driver progress to an optional UI listener.
type Event struct {
	Path string
	Done bool
	Err  bool
}

// Driver compiles a batch of files. Each file is transformed to
// completion independently; only the shared lualib registry is updated
// across files, under the driver's lock.
type Driver struct {
	Opts           transform.Options
	Registry       *lualib.Registry
	MaxDiagnostics int
	Events         chan<- Event

	mu sync.Mutex
}

// NewDriver builds a driver owning a fresh registry.
func NewDriver(opts transform.Options) *Driver {
	return &Driver{
		Opts:           opts,
		Registry:       lualib.NewRegistry(),
		MaxDiagnostics: 100,
	}
}

// Compile transforms every input, fanning files out across jobs workers.
// Results come back in input order regardless of completion order.
func (d *Driver) Compile(ctx context.Context, inputs []Input, jobs int) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = d.compileOne(input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Driver) compileOne(input Input) Result {
	bag := diag.NewBag(d.MaxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	// each file gets its own transformer instance; symbol ids and scope
	// ids are per-file state
	registry := lualib.NewRegistry()
	tr := transform.New(input.Oracle, d.Opts, reporter, registry)

	res := Result{Path: input.File.Path, Bag: bag}
	block, features, err := tr.TransformSourceFile(input.File)
	if err != nil || block == nil {
		res.Failed = true
		d.emit(Event{Path: res.Path, Done: true, Err: true})
		return res
	}

	d.mu.Lock()
	d.Registry.Merge(registry)
	d.mu.Unlock()

	res.Features = features
	res.Lua = d.assembleChunk(block, features)
	res.Failed = bag.HasErrors()
	d.emit(Event{Path: res.Path, Done: true, Err: res.Failed})
	return res
}

// assembleChunk prepends the configured lualib import to the printed
// chunk.
func (d *Driver) assembleChunk(block *luaast.Block, features []lualib.Feature) string {
	var sb strings.Builder
	switch d.Opts.LuaLibImport {
	case lualib.ImportInline:
		if len(features) > 0 {
			if bundle, err := lualib.Bundle(features); err == nil {
				sb.WriteString(bundle)
			}
		}
	case lualib.ImportRequire:
		if len(features) > 0 {
			sb.WriteString("require(\"" + lualib.BundleModuleName + "\")\n")
		}
	case lualib.ImportAlways:
		sb.WriteString("require(\"" + lualib.BundleModuleName + "\")\n")
	case lualib.ImportNone:
		// host preloads the runtime
	}
	sb.WriteString(printer.Print(block))
	return sb.String()
}

func (d *Driver) emit(e Event) {
	if d.Events != nil {
		d.Events <- e
	}
}

// SortedFeatures returns the compilation-wide used feature set.
func (d *Driver) SortedFeatures() []lualib.Feature {
	d.mu.Lock()
	defer d.mu.Unlock()
	features := d.Registry.Features()
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })
	return features
}
