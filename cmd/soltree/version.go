package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"soltree/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show soltree build fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			info := version.Current()
			switch strings.ToLower(format) {
			case "pretty":
				useColor, err := colorEnabled(cmd)
				if err != nil {
					return err
				}
				return info.WritePretty(cmd.OutOrStdout(), useColor)
			case "json":
				return info.WriteJSON(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}
