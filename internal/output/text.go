package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/tally/internal/models"
)

// Formats accepted by --format.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (string, error) {
	switch s {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatTable:
		return s, nil
	default:
		return "", fmt.Errorf("invalid format %q (want %s, %s or %s)", s, FormatText, FormatJSON, FormatTable)
	}
}

// PrintTasks writes one Go debug representation per task, e.g.
// {ID:1 Description:Learn Go Completed:false}.
func PrintTasks(w io.Writer, tasks []models.Task) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "%+v\n", t); err != nil {
			return err
		}
	}
	return nil
}

// PrintTaskTable renders tasks as aligned columns. Color and strikethrough
// are applied only when w is a terminal that supports them.
func PrintTaskTable(w io.Writer, tasks []models.Task) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true)
	done := r.NewStyle().Faint(true).Strikethrough(true)
	mark := r.NewStyle().Foreground(lipgloss.Color("#10B981"))

	idWidth := len("ID")
	for _, t := range tasks {
		idWidth = max(idWidth, len(strconv.FormatUint(t.ID, 10)))
	}

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%-*s  %-4s  %s", idWidth, "ID", "DONE", "DESCRIPTION")))
	b.WriteByte('\n')

	for _, t := range tasks {
		fmt.Fprintf(&b, "%-*d  ", idWidth, t.ID)
		if t.Completed {
			b.WriteString(mark.Render(fmt.Sprintf("%-4s", "x")) + "  " + done.Render(t.Description))
		} else {
			b.WriteString(fmt.Sprintf("%-4s", "") + "  " + t.Description)
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
