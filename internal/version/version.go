package version

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Version information for the soltree CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionColor = color.New(color.FgYellow, color.Bold)
	labelColor   = color.New(color.FgCyan)
)

// Info is the build fingerprint printed by `soltree version`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the fingerprint of the running binary.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// WritePretty prints the fingerprint for humans.
func (i Info) WritePretty(w io.Writer, colored bool) error {
	for _, c := range []*color.Color{versionColor, labelColor} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	if _, err := fmt.Fprintf(w, "soltree %s\n", versionColor.Sprint(i.Version)); err != nil {
		return err
	}
	if i.GitCommit != "" {
		if _, err := fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("commit:"), i.GitCommit); err != nil {
			return err
		}
	}
	if i.BuildDate != "" {
		if _, err := fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("built:"), i.BuildDate); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints the fingerprint as one JSON object.
func (i Info) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(i)
}
