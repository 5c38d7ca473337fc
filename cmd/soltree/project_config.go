package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"soltree/internal/artifact"
	"soltree/internal/diag"
	"soltree/internal/project"
)

// loadConfig reads --config, or discovers soltree.toml from the working
// directory. Command flags are applied on top by the caller.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if strings.TrimSpace(path) != "" {
		return project.LoadConfig(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, _, err := project.LoadProjectConfig(wd)
	return cfg, err
}

// openStore returns the artifact store for cfg, behind an LRU when
// [artifacts].cache_size is positive.
func openStore(cfg project.Config) (artifact.Store, error) {
	dir := artifact.NewDirStore(artifact.Options{
		Dir:            cfg.Artifacts.Dir,
		Extension:      cfg.Artifacts.Extension,
		FallbackPrefix: cfg.Artifacts.FallbackPrefix,
	})
	store, err := artifact.NewCachedStore(dir, cfg.Artifacts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact cache: %w", err)
	}
	return store, nil
}

// colorEnabled resolves --color against the terminal state of stderr.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return !color.NoColor && isTerminal(os.Stderr), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func newDiagnostics(cmd *cobra.Command) (*diag.Bag, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return diag.NewBag(maxDiagnostics), nil
}

// printDiagnostics writes the sorted bag to stderr. --quiet hides warnings
// but never errors.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet && !bag.HasErrors() {
		return nil
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	bag.Sort()
	return diag.Pretty(cmd.ErrOrStderr(), bag, diag.PrettyOpts{Color: useColor})
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}
