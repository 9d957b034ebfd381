package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tally/internal/actions"
	"github.com/dotcommander/tally/internal/models"
	"github.com/dotcommander/tally/internal/output"
	"github.com/dotcommander/tally/internal/store"
)

type invalidTaskIDError struct {
	Value string
}

func (e invalidTaskIDError) Error() string {
	return fmt.Sprintf("invalid task id '%s'", e.Value)
}

func (e invalidTaskIDError) SlogAttrs() []any {
	return []any{
		"field", "id",
		"invalid_value", e.Value,
		"expected", "unsigned integer",
	}
}

func (e invalidTaskIDError) ErrorCode() string { return "INVALID_TASK_ID" }
func (e invalidTaskIDError) Context() map[string]string {
	return map[string]string{"value": e.Value}
}
func (e invalidTaskIDError) SuggestedAction() string { return "tally list" }

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <words...>",
		Short: "Add a task; all words are joined into its description",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmdErr(cmd, errors.New("description is required"))
			}
			description := strings.Join(args, " ")

			var task models.Task
			if err := withBackend(cmd, func(ctx context.Context, b store.Backend) error {
				t, err := actions.TaskAdd(ctx, b, description)
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			if outputFormat(cmd) == output.FormatJSON {
				type resp struct {
					Task models.Task `json:"task"`
				}
				return output.PrintSuccess(cmd.OutOrStdout(), resp{Task: task})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", task.ID)
			return nil
		},
	}

	cmd.Annotations = map[string]string{"mutates": "true"}
	return cmd
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tasks []models.Task
			if err := withBackend(cmd, func(ctx context.Context, b store.Backend) error {
				t, err := actions.TaskList(ctx, b)
				if err != nil {
					return err
				}
				tasks = t
				return nil
			}); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch outputFormat(cmd) {
			case output.FormatJSON:
				type resp struct {
					Count int           `json:"count"`
					Tasks []models.Task `json:"tasks"`
				}
				if tasks == nil {
					tasks = []models.Task{}
				}
				return output.PrintSuccess(w, resp{Count: len(tasks), Tasks: tasks})
			case output.FormatTable:
				return output.PrintTaskTable(w, tasks)
			default:
				return output.PrintTasks(w, tasks)
			}
		},
	}

	return cmd
}

// NewCompleteCmd creates the complete command.
func NewCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmdErr(cmd, errors.New("exactly one task id is required"))
			}
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return cmdErr(cmd, invalidTaskIDError{Value: args[0]})
			}

			var result *actions.CompleteResult
			if err := withBackend(cmd, func(ctx context.Context, b store.Backend) error {
				r, err := actions.TaskComplete(ctx, b, id)
				if err != nil {
					return err
				}
				result = r
				return nil
			}); err != nil {
				return err
			}

			if outputFormat(cmd) == output.FormatJSON {
				return output.PrintSuccess(cmd.OutOrStdout(), result)
			}

			// An unknown id is reported but is not a failure.
			switch {
			case !result.Found:
				fmt.Fprintln(cmd.OutOrStdout(), (&models.TaskNotFoundError{ID: id}).Error())
			case result.AlreadyCompleted:
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d already completed\n", id)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Completed task %d\n", id)
			}
			return nil
		},
	}

	cmd.Annotations = map[string]string{"mutates": "true"}
	return cmd
}
