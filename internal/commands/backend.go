package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tally/internal/app"
	"github.com/dotcommander/tally/internal/models"
	"github.com/dotcommander/tally/internal/output"
	"github.com/dotcommander/tally/internal/store"
)

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// The wrapped error was already logged by cmdErr.
	return "error already printed"
}

func (e printedError) Unwrap() error { return e.err }

// cmdContext returns the command context, or Background when RunE is invoked
// directly without Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func openBackend(cmd *cobra.Command) (store.Backend, error) {
	backendFlag, _ := cmd.Flags().GetString("backend")
	kind, err := app.ResolveBackend(backendFlag)
	if err != nil {
		return nil, err
	}

	strictFlag, _ := cmd.Flags().GetBool("strict")
	strict, err := app.ResolveStrict(strictFlag)
	if err != nil {
		return nil, err
	}

	path, err := app.GetTasksPath(kind)
	if err != nil {
		return nil, err
	}

	return store.Open(store.Options{Kind: kind, Path: path, Strict: strict})
}

func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b store.Backend) error) error {
	b, err := openBackend(cmd)
	if err != nil {
		return cmdErr(cmd, err)
	}
	defer func() { _ = b.Close() }()

	if err := fn(cmdContext(cmd), b); err != nil {
		return cmdErr(cmd, err)
	}
	return nil
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	if parsed, err := output.ParseFormat(format); err == nil {
		return parsed
	}
	return output.FormatText
}

// cmdErr logs err once and, under --format json, writes the error envelope to
// stdout so scripts see the same error_code and suggested_action.
func cmdErr(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	type slogAttrError interface {
		SlogAttrs() []any
	}
	var detailed slogAttrError
	if errors.As(err, &detailed) {
		attrs = append(attrs, detailed.SlogAttrs()...)
	}
	var recoverable models.RecoverableError
	if errors.As(err, &recoverable) {
		attrs = append(attrs,
			"error_code", recoverable.ErrorCode(),
			"context", recoverable.Context(),
			"suggested_action", recoverable.SuggestedAction(),
		)
	}
	slog.Error("command error", attrs...)
	if cmd != nil && outputFormat(cmd) == output.FormatJSON {
		if printErr := output.PrintError(cmd.OutOrStdout(), err); printErr != nil {
			slog.Error("write error response", "error", printErr.Error())
		}
	}
	return printedError{err: err}
}
