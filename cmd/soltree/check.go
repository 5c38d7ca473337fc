package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"soltree/internal/artifact"
	"soltree/internal/deps"
	"soltree/internal/diag"
	"soltree/internal/observ"
	"soltree/internal/project"
	"soltree/internal/project/dag"
	"soltree/internal/scan"
	"soltree/internal/trace"
)

var errCheckFailed = errors.New("check failed")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report source files without artifacts and import cycles",
		Long: `Probe the artifact of every source file in parallel, then check the direct
import graph for imports of unknown files and for cycles.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
	cmd.Flags().String("source", "", "source directory (overrides [source].dir)")
	cmd.Flags().String("artifacts", "", "artifact directory (overrides [artifacts].dir)")
	cmd.Flags().Int("jobs", 0, "max parallel artifact reads (0=auto)")
	cmd.Flags().Bool("order", false, "print source files in dependency order")
	return cmd
}

type probeResult struct {
	meta artifact.Metadata
	err  error
}

func runCheck(cmd *cobra.Command, _ []string) (err error) {
	tr, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer tr.cleanup()
	defer func() { tr.dumpOnError(cmd, err) }()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := overrideString(cmd, "source", &cfg.Source.Dir); err != nil {
		return err
	}
	if err := overrideString(cmd, "artifacts", &cfg.Artifacts.Dir); err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	printOrder, err := cmd.Flags().GetBool("order")
	if err != nil {
		return fmt.Errorf("failed to get order flag: %w", err)
	}

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	scanIdx := timer.Begin("scan")
	files, err := scan.ListSourceFiles(cfg.Source.Dir, cfg.Source.Extension)
	timer.End(scanIdx, len(files), "")
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	probeIdx := timer.Begin("probe")
	span := trace.Begin(tracer, trace.ScopePhase, "probe", 0)
	results := make([]probeResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			meta, err := store.Lookup(project.BaseName(file))
			results[i] = probeResult{meta: meta, err: err}
			return nil
		})
	}
	err = g.Wait()
	span.WithExtra("files", fmt.Sprint(len(files))).End("")
	timer.End(probeIdx, len(files), fmt.Sprintf("%d jobs", jobs))
	if err != nil {
		return err
	}

	bag, err := newDiagnostics(cmd)
	if err != nil {
		return err
	}
	reporter := &diag.BagReporter{Bag: bag}

	graphIdx := timer.Begin("graph")
	metas := make([]dag.FileMeta, 0, len(files))
	missing := 0
	for i, file := range files {
		res := results[i]
		if res.err != nil {
			metas = append(metas, dag.FileMeta{Path: project.CanonicalKey(file)})
			missing++
			if errors.Is(res.err, artifact.ErrNotFound) {
				diag.Warn(reporter, diag.IOMetadataNotFound, file, res.err.Error())
			} else {
				diag.Error(reporter, diag.IOArtifactDecode, file, res.err.Error())
			}
			continue
		}
		literals, skipped := deps.ExtractImports(res.meta.Source)
		for _, line := range skipped {
			diag.Warn(reporter, diag.ProjImportNoLiteral, file,
				fmt.Sprintf("line %d: import without a quoted path", line))
		}
		imports := make([]string, 0, len(literals))
		for _, lit := range literals {
			imports = append(imports, project.CanonicalKey(project.ResolveDependencyPath(lit, file)))
		}
		metas = append(metas, dag.FileMeta{Path: project.CanonicalKey(file), Imports: imports})
	}
	idx := dag.BuildIndex(metas)
	topo := dag.ToposortKahn(dag.BuildGraph(idx, metas, reporter))
	dag.ReportCycles(idx, topo, reporter)
	timer.End(graphIdx, len(idx.IDToName), "")

	if printOrder {
		for _, id := range topo.DependencyOrder() {
			fmt.Fprintln(cmd.OutOrStdout(), idx.IDToName[int(id)])
		}
	}
	if err := printDiagnostics(cmd, bag); err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d files: %d without metadata, %d on import cycles\n",
			len(files), missing, len(topo.Cycles))
	}
	if missing > 0 || topo.Cyclic || bag.HasErrors() {
		return errCheckFailed
	}
	return nil
}
