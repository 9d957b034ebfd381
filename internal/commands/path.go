package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tally/internal/app"
	"github.com/dotcommander/tally/internal/output"
)

// NewPathCmd creates the path command.
func NewPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the resolved storage path and where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backendFlag, _ := cmd.Flags().GetString("backend")
			backend, err := app.ResolveBackend(backendFlag)
			if err != nil {
				return cmdErr(cmd, err)
			}

			path, source, err := app.ResolveTasksPathDetailed(backend)
			if err != nil {
				return cmdErr(cmd, err)
			}

			if outputFormat(cmd) == output.FormatJSON {
				type resp struct {
					Path    string `json:"path"`
					Source  string `json:"source"`
					Backend string `json:"backend"`
				}
				return output.PrintSuccess(cmd.OutOrStdout(), resp{Path: path, Source: source, Backend: backend})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s)\n", path, backend, source)
			return nil
		},
	}
	return cmd
}
