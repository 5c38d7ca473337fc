package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soltree/internal/project"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <import> <importing-file>",
		Short: "Print the path an import specifier resolves to",
		Example: `  soltree resolve ../math/SafeMath.sol contracts/token/ERC20.sol
  contracts/math/SafeMath.sol`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := cmd.Flags().GetString("trim")
			if err != nil {
				return fmt.Errorf("failed to get trim flag: %w", err)
			}
			resolved := project.ResolveDependencyPath(args[0], args[1])
			fmt.Fprintln(cmd.OutOrStdout(), project.TrimDisplayPrefix(resolved, len(display)))
			return nil
		},
	}
	cmd.Flags().String("trim", "", "prefix length to drop from the result, given as the prefix itself (e.g. contracts/)")
	return cmd
}
