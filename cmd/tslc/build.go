package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tstl/internal/diag"
	"tstl/internal/diagfmt"
	"tstl/internal/host"
	"tstl/internal/lualib"
	"tstl/internal/source"
	"tstl/internal/typeoracle/statictypes"
	"tstl/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Compile project sources to Lua",
	Long: `Compiles the project's JSON data modules to Lua chunks and emits the
runtime-support bundle. TSL sources require an attached frontend; the
transpiler core consumes an already-parsed, type-checked tree.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Int("jobs", 0, "parallel compile jobs (0 = number of CPUs)")
	buildCmd.Flags().Bool("ui", false, "show interactive progress")
	buildCmd.Flags().Bool("no-cache", false, "bypass the on-disk chunk cache")
}

func runBuild(cmd *cobra.Command, args []string) error {
	manifest, ok, err := host.LoadManifest(".")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no tstl.toml found; run 'tslc init' first")
	}
	opts, err := manifest.Options()
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		files, err = collectSources(filepath.Join(manifest.Root, opts.RootDir))
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found under %s", opts.RootDir)
	}

	var cache *host.DiskCache
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		// best effort: a missing cache dir just means cold builds
		cache, _ = host.OpenDiskCache("tslc")
	}
	fingerprint := opts.Fingerprint()

	fileSet := source.NewFileSetWithBase(manifest.Root)
	var inputs []host.Input
	var digests []host.Digest
	var cachedResults []host.Result
	skipped := 0
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			return err
		}
		file := fileSet.Get(id)
		if !file.IsJSON() {
			skipped++
			continue
		}
		digest := host.DigestOf(file.Content, fingerprint)
		if payload, ok := cache.Get(digest); ok && !payload.Failed {
			cachedResults = append(cachedResults, host.Result{
				Path:     file.Path,
				Lua:      payload.Lua,
				Features: featuresOf(payload.Features),
			})
			continue
		}
		parsed, err := host.ParseJSONModule(file)
		if err != nil {
			return err
		}
		checker := statictypes.NewChecker()
		checker.Bind(parsed)
		inputs = append(inputs, host.Input{File: parsed, Oracle: checker})
		digests = append(digests, digest)
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	if skipped > 0 && !quiet {
		fmt.Fprintf(os.Stderr, "skipping %d TSL file(s): no frontend attached\n", skipped)
	}

	driver := host.NewDriver(opts)
	if maxDiag, _ := cmd.Flags().GetInt("max-diagnostics"); maxDiag > 0 {
		driver.MaxDiagnostics = maxDiag
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	showUI, _ := cmd.Flags().GetBool("ui")
	var events chan host.Event
	var uiDone chan struct{}
	if showUI && isTerminal(os.Stdout) && len(inputs) > 0 {
		events = make(chan host.Event, len(inputs))
		driver.Events = events
		paths := make([]string, len(inputs))
		for i, in := range inputs {
			paths[i] = in.File.Path
		}
		model := ui.NewProgressModel(manifest.Config.Package.Name, paths, events)
		uiDone = make(chan struct{})
		go func() {
			defer close(uiDone)
			_, _ = tea.NewProgram(model).Run()
		}()
	}

	results, err := driver.Compile(context.Background(), inputs, jobs)
	if events != nil {
		close(events)
		<-uiDone
	}
	if err != nil {
		return err
	}

	for i, res := range results {
		if !res.Failed {
			_ = cache.Put(digests[i], &host.CachePayload{
				Path:     res.Path,
				Lua:      res.Lua,
				Features: featureNames(res.Features),
			})
		}
	}
	// cached chunks still contribute their features to the bundle
	for _, res := range cachedResults {
		for _, f := range res.Features {
			driver.Registry.Use(f)
		}
	}
	results = append(results, cachedResults...)

	outDir := manifest.Config.Compile.OutDir
	if outDir == "" {
		outDir = "out"
	}
	outDir = filepath.Join(manifest.Root, outDir)

	hadErrors := false
	merged := diag.NewBag(driver.MaxDiagnostics)
	for _, res := range results {
		merged.Merge(res.Bag)
		if res.Failed {
			hadErrors = true
			continue
		}
		if err := writeChunk(outDir, manifest.Root, res.Path, res.Lua); err != nil {
			return err
		}
	}

	if err := writeBundle(outDir, opts.LuaLibImport, driver.SortedFeatures()); err != nil {
		return err
	}

	merged.Sort()
	diagfmt.Pretty(os.Stderr, merged, fileSet, diagfmt.PrettyOpts{
		Color:    useColor(cmd),
		PathMode: "relative",
		BaseDir:  manifest.Root,
	})
	if hadErrors {
		if !quiet {
			fmt.Fprintf(os.Stderr, "build failed: %d error(s), %d warning(s)\n",
				merged.ErrorCount(), merged.WarningCount())
		}
		os.Exit(1)
	}
	if !quiet {
		fmt.Printf("compiled %d file(s) (%d from cache)\n",
			len(inputs)+len(cachedResults), len(cachedResults))
	}
	return nil
}

func featureNames(features []lualib.Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = string(f)
	}
	return out
}

func featuresOf(names []string) []lualib.Feature {
	out := make([]lualib.Feature, len(names))
	for i, s := range names {
		out[i] = lualib.Feature(s)
	}
	return out
}

// collectSources lists compilable files under dir in sorted order.
func collectSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func writeChunk(outDir, root, srcPath, lua string) error {
	rel, err := filepath.Rel(root, srcPath)
	if err != nil {
		rel = filepath.Base(srcPath)
	}
	ext := filepath.Ext(rel)
	outPath := filepath.Join(outDir, strings.TrimSuffix(rel, ext)+".lua")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(lua), 0o644)
}

// writeBundle materialises the runtime bundle next to the chunks when the
// require import kinds are configured.
func writeBundle(outDir string, kind lualib.ImportKind, features []lualib.Feature) error {
	if kind != lualib.ImportRequire && kind != lualib.ImportAlways {
		return nil
	}
	if kind == lualib.ImportAlways {
		features = lualib.AllFeatures()
	}
	if len(features) == 0 {
		return nil
	}
	bundle, err := lualib.Bundle(features)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, lualib.BundleModuleName+".lua"), []byte(bundle), 0o644)
}
