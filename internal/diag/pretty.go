package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrettyOpts controls Pretty output.
type PrettyOpts struct {
	Color bool
}

// Pretty writes one line per diagnostic:
//
//	<path>: <SEV> <ID>: <message>
//	    note: <path>: <msg>
//
// The bag is expected to be sorted.
func Pretty(w io.Writer, bag *Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	sevColor := map[Severity]*color.Color{
		SevInfo:    color.New(color.FgCyan),
		SevWarning: color.New(color.FgYellow, color.Bold),
		SevError:   color.New(color.FgRed, color.Bold),
	}
	pathColor := color.New(color.Bold)
	for _, c := range sevColor {
		setColor(c, opts.Color)
	}
	setColor(pathColor, opts.Color)

	for _, d := range bag.Items() {
		path := d.Path
		if path == "" {
			path = "<tree>"
		}
		c := sevColor[d.Severity]
		if c == nil {
			c = sevColor[SevError]
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", pathColor.Sprint(path), c.Sprint(d.Severity.String()), d.Code.ID(), d.Message); err != nil {
			return err
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "    note: %s: %s\n", n.Path, n.Msg); err != nil {
				return err
			}
		}
	}
	if bag.Dropped() > 0 {
		if _, err := fmt.Fprintf(w, "... %d more diagnostics not shown\n", bag.Dropped()); err != nil {
			return err
		}
	}
	return nil
}

func setColor(c *color.Color, on bool) {
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}
