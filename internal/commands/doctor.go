package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tally/internal/app"
	"github.com/dotcommander/tally/internal/output"
	"github.com/dotcommander/tally/internal/store"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and the stored tasks for problems",
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

			var (
				openOK  bool
				openErr string
				diags   = []store.Diagnostic{}
			)

			// Non-strict so a damaged file can still be inspected.
			b, err := store.Open(store.Options{Kind: backend, Path: path})
			if err != nil {
				openErr = err.Error()
			} else {
				openOK = true
				defer func() { _ = b.Close() }()

				if d, ok := b.(store.Diagnoser); ok {
					found, err := d.Diagnose(cmdContext(cmd))
					if err != nil {
						return cmdErr(cmd, err)
					}
					diags = append(diags, found...)
				}
			}

			type resp struct {
				Backend     string             `json:"backend"`
				Path        string             `json:"path"`
				Source      string             `json:"source"`
				OpenOK      bool               `json:"open_ok"`
				OpenErr     string             `json:"open_error,omitempty"`
				Diagnostics []store.Diagnostic `json:"diagnostics"`
				Hint        string             `json:"hint,omitempty"`
			}
			hint := ""
			if !openOK {
				hint = "Set tasks_path to a writable location or use --file."
			}
			r := resp{
				Backend:     backend,
				Path:        path,
				Source:      source,
				OpenOK:      openOK,
				OpenErr:     openErr,
				Diagnostics: diags,
				Hint:        hint,
			}

			if outputFormat(cmd) == output.FormatJSON {
				return output.PrintSuccess(cmd.OutOrStdout(), r)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s storage at %s (%s)\n", r.Backend, r.Path, r.Source)
			if !r.OpenOK {
				fmt.Fprintf(w, "cannot open: %s\n%s\n", r.OpenErr, r.Hint)
				return nil
			}
			if len(r.Diagnostics) == 0 {
				fmt.Fprintln(w, "no problems found")
				return nil
			}
			for _, d := range r.Diagnostics {
				fmt.Fprintf(w, "%s %s: %s\n", d.Level, d.Code, d.Message)
			}
			return nil
		},
	}

	return cmd
}
