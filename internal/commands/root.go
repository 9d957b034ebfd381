package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tally/internal/app"
	"github.com/dotcommander/tally/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	err := NewRootCmd(version).Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "tally",
		Short:         "Single-user task tracker backed by a plain text file",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				if outputFormat(cmd) == output.FormatJSON {
					type resp struct {
						Version string `json:"version"`
					}
					return output.PrintSuccess(cmd.OutOrStdout(), resp{Version: version})
				}
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			if _, err := output.ParseFormat(format); err != nil {
				return cmdErr(cmd, err)
			}

			// Wire --file into the app-level resolver; empty clears a previous override.
			path, _ := cmd.Flags().GetString("file")
			app.SetTasksPathOverride(path)

			return nil
		},
	}

	root.PersistentFlags().String("file", "", "Override tasks storage path (default: $TALLY_TASKS_PATH)")
	root.PersistentFlags().String("backend", "", "Storage backend: file|sqlite (default: $TALLY_BACKEND or file)")
	root.PersistentFlags().Bool("strict", false, "Fail on malformed lines in the tasks file instead of skipping them")
	root.PersistentFlags().String("format", output.FormatText, "Output format: text|json|table")
	root.Flags().BoolP("version", "v", false, "version for tally")

	root.AddCommand(NewAddCmd())
	root.AddCommand(NewListCmd())
	root.AddCommand(NewCompleteCmd())
	root.AddCommand(NewPathCmd())
	root.AddCommand(NewDoctorCmd())
	root.AddCommand(NewSchemaCmd(root))

	return root
}
