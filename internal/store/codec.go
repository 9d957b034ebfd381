package store

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dotcommander/tally/internal/models"
	"github.com/dotcommander/tally/internal/tasks"
)

// nextIDDirective prefixes the optional first line that records a next ID
// higher than the tasks alone imply.
const nextIDDirective = "# next_id:"

const recordFields = 3

// maxRecordLines bounds how many physical lines one quoted description may
// span.
const maxRecordLines = 64

// Decode reads tasks in `id,description,completed` form, one record per line.
//
// Content problems never fail the decode. Records with the wrong field count
// are dropped; an unparsable id becomes 0 and an unparsable completed flag
// becomes false. Each problem is returned as a *models.LineError so callers can
// log it or refuse the file. Only read errors are returned as err.
//
// A field is unquoted only when it is a well-formed quoted field. Anything else,
// such as a legacy description that merely starts with a quote, is split on
// commas, so one bad line never swallows the lines after it.
func Decode(r io.Reader) (*tasks.Store, []*models.LineError, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read tasks: %w", err)
	}

	var (
		loaded     []models.Task
		issues     []*models.LineError
		statedNext uint64
	)

	for i := 0; i < len(lines); i++ {
		line := i + 1
		if lines[i] == "" {
			continue
		}

		record, span := splitRecord(lines[i:])
		i += span - 1

		if len(record) == 1 && strings.HasPrefix(record[0], "#") {
			if v, ok := strings.CutPrefix(record[0], nextIDDirective); ok {
				if n, parseErr := strconv.ParseUint(strings.TrimSpace(v), 10, 64); parseErr == nil {
					statedNext = n
				}
			}
			continue
		}

		if len(record) != recordFields {
			issues = append(issues, &models.LineError{
				Line:   line,
				Reason: models.LineReasonFieldCount,
				Detail: fmt.Sprintf("got %d fields, want %d", len(record), recordFields),
			})
			continue
		}

		task := models.Task{Description: record[1]}

		id, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			issues = append(issues, &models.LineError{Line: line, Reason: models.LineReasonInvalidID, Detail: strconv.Quote(record[0])})
		} else {
			task.ID = id
		}

		switch record[2] {
		case "true":
			task.Completed = true
		case "false":
		default:
			issues = append(issues, &models.LineError{Line: line, Reason: models.LineReasonInvalidCompleted, Detail: strconv.Quote(record[2])})
		}

		loaded = append(loaded, task)
	}

	return tasks.Restore(loaded, statedNext), issues, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// splitRecord returns the fields of the record starting at lines[0] and how
// many lines it occupies. A quoted description written by Encode may contain
// line breaks; it is accepted only when the joined lines form a complete
// record.
func splitRecord(lines []string) ([]string, int) {
	first := lines[0]
	if !strings.Contains(first, `"`) {
		return strings.Split(first, ","), 1
	}
	if fields, ok := parseQuoted(first); ok {
		return fields, 1
	}

	joined := first
	for n := 2; n <= len(lines) && n <= maxRecordLines; n++ {
		joined += "\n" + lines[n-1]
		if fields, ok := parseQuoted(joined); ok && len(fields) == recordFields && isBool(fields[2]) {
			return fields, n
		}
	}
	return strings.Split(first, ","), 1
}

// parseQuoted parses text as exactly one strict CSV record.
func parseQuoted(text string) ([]string, bool) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	record, err := cr.Read()
	if err != nil {
		return nil, false
	}
	if _, err := cr.Read(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return record, true
}

func isBool(s string) bool { return s == "true" || s == "false" }

// Encode writes one record per task. Descriptions that contain the delimiter,
// quotes, line breaks or leading whitespace are quoted; everything else is
// written verbatim.
func Encode(w io.Writer, s *tasks.Store) error {
	if maxID := s.MaxID(); s.NextID() > maxID+1 {
		if _, err := fmt.Fprintf(w, "%s %d\n", nextIDDirective, s.NextID()); err != nil {
			return fmt.Errorf("write next id: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	for _, t := range s.List() {
		record := []string{
			strconv.FormatUint(t.ID, 10),
			t.Description,
			strconv.FormatBool(t.Completed),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write task %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush tasks: %w", err)
	}
	return nil
}
