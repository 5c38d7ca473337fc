package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"soltree/internal/deps"
	"soltree/internal/diag"
	"soltree/internal/project"
)

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps <file.sol>",
		Short: "Print the resolved dependencies of one source file",
		Long: `Look up the compiled artifact of one source file and print its transitive
dependencies in the order the tree document lists them.`,
		Args: cobra.ExactArgs(1),
		RunE: runDeps,
	}
	cmd.Flags().String("artifacts", "", "artifact directory (overrides [artifacts].dir)")
	cmd.Flags().String("format", "text", "output format (text|json)")
	return cmd
}

func runDeps(cmd *cobra.Command, args []string) (err error) {
	tr, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer tr.cleanup()
	defer func() { tr.dumpOnError(cmd, err) }()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := overrideString(cmd, "artifacts", &cfg.Artifacts.Dir); err != nil {
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

	name := project.BaseName(strings.ReplaceAll(args[0], "\\", "/"))
	meta, err := store.Lookup(name)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	resolver := deps.NewResolver(deps.Options{
		Store:      store,
		Marker:     cfg.Source.Marker,
		TrimPrefix: cfg.Tree.TrimPrefix,
		MaxDepth:   cfg.Tree.MaxDepth,
		Reporter:   diag.NewDedupReporter(&diag.BagReporter{Bag: bag}),
	})
	edges := resolver.ResolveFile(cmd.Context(), meta, project.LocalPath(meta.SourcePath, cfg.Source.Marker))

	out := cmd.OutOrStdout()
	if format == "json" {
		if edges == nil {
			edges = []deps.Edge{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(edges); err != nil {
			return err
		}
	} else {
		for _, e := range edges {
			fmt.Fprintln(out, e.Path)
		}
	}
	return printDiagnostics(cmd, bag)
}
