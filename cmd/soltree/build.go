package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"soltree/internal/artifact"
	"soltree/internal/deps"
	"soltree/internal/diag"
	"soltree/internal/emit"
	"soltree/internal/observ"
	"soltree/internal/project"
	"soltree/internal/scan"
	"soltree/internal/trace"
	"soltree/internal/tree"
)

var errBuildDiagnostics = errors.New("build finished with errors")

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the contract tree document",
		Long: `Enumerate the source directory, resolve every file's imports through the
compiled artifacts and write the nested tree document the contract browser loads.`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}
	cmd.Flags().String("source", "", "source directory (overrides [source].dir)")
	cmd.Flags().String("artifacts", "", "artifact directory (overrides [artifacts].dir)")
	cmd.Flags().String("out", "", "output file (overrides [output].path)")
	cmd.Flags().String("format", "", "output format json|msgpack (overrides [output].format)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Int("artifact-cache", -1, "artifact LRU size, 0 disables (overrides [artifacts].cache_size)")
	return cmd
}

// applyBuildFlags copies the flags that were set over cfg.
func applyBuildFlags(cmd *cobra.Command, cfg *project.Config) error {
	for flag, dst := range map[string]*string{
		"source":    &cfg.Source.Dir,
		"artifacts": &cfg.Artifacts.Dir,
		"out":       &cfg.Output.Path,
		"format":    &cfg.Output.Format,
	} {
		if err := overrideString(cmd, flag, dst); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("artifact-cache") {
		return nil
	}
	size, err := cmd.Flags().GetInt("artifact-cache")
	if err != nil {
		return fmt.Errorf("failed to get artifact-cache flag: %w", err)
	}
	if size < 0 {
		return fmt.Errorf("--artifact-cache must not be negative")
	}
	cfg.Artifacts.CacheSize = size
	return nil
}

// overrideString stores the value of flag in dst when the flag was set.
func overrideString(cmd *cobra.Command, flag string, dst *string) error {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", flag, err)
	}
	*dst = v
	return nil
}

// buildNote summarizes the build phase for --timings.
func buildNote(stats tree.Stats, store artifact.Store) string {
	note := fmt.Sprintf("%d edges", stats.Edges)
	if cached, ok := store.(*artifact.CachedStore); ok {
		note += fmt.Sprintf(", %d artifact cache hits", cached.Hits())
	}
	return note
}

func runBuild(cmd *cobra.Command, _ []string) (err error) {
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
	if err := applyBuildFlags(cmd, &cfg); err != nil {
		return err
	}
	format, err := emit.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	scanIdx := timer.Begin("scan")
	scanSpan := trace.Begin(tracer, trace.ScopePhase, "scan", 0)
	files, err := scan.ListSourceFiles(cfg.Source.Dir, cfg.Source.Extension)
	scanSpan.WithExtra("files", fmt.Sprint(len(files))).End("")
	timer.End(scanIdx, len(files), "")
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	bag, err := newDiagnostics(cmd)
	if err != nil {
		return err
	}
	reporter := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	opts := tree.Options{
		Store: store,
		Resolver: deps.NewResolver(deps.Options{
			Store:      store,
			Marker:     cfg.Source.Marker,
			TrimPrefix: cfg.Tree.TrimPrefix,
			MaxDepth:   cfg.Tree.MaxDepth,
			Reporter:   reporter,
		}),
		Extension: cfg.Source.Extension,
		RootLabel: cfg.Tree.RootLabel,
		Marker:    cfg.Source.Marker,
		Reporter:  reporter,
	}

	buildIdx := timer.Begin("build")
	var root *tree.Dir
	if shouldUseTUI(mode, isQuiet(cmd)) {
		root, err = runBuildWithUI(ctx, "soltree build", files, opts)
	} else {
		root, err = tree.NewBuilder(opts).Build(ctx, files)
	}
	if err != nil {
		timer.End(buildIdx, 0, "failed")
		if printErr := printDiagnostics(cmd, bag); printErr != nil {
			return errors.Join(err, printErr)
		}
		return err
	}
	stats := tree.Count(root)
	timer.End(buildIdx, stats.Files, buildNote(stats, store))

	writeIdx := timer.Begin("write")
	writeSpan := trace.Begin(tracer, trace.ScopePhase, "write", 0)
	err = emit.Write(cfg.Output.Path, root, format)
	writeSpan.End(cfg.Output.Path)
	timer.End(writeIdx, 1, string(format))
	if err != nil {
		return err
	}

	if err := printDiagnostics(cmd, bag); err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d dirs, %d files, %d dependency edges\n",
			cfg.Output.Path, stats.Dirs, stats.Files, stats.Edges)
	}
	if bag.HasErrors() {
		return errBuildDiagnostics
	}
	return nil
}
