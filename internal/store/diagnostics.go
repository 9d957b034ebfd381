package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dotcommander/tally/internal/models"
)

// Diagnostic represents a single consistency check finding.
type Diagnostic struct {
	Level           string `json:"level"` // "warning" or "error"
	Code            string `json:"code"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// Diagnoser is implemented by backends that can check their stored data.
type Diagnoser interface {
	Diagnose(ctx context.Context) ([]Diagnostic, error)
}

// Diagnose reports malformed lines and duplicate IDs in the tasks file.
// Dropped lines are errors; defaulted values are warnings.
func (b *FileBackend) Diagnose(_ context.Context) ([]Diagnostic, error) {
	f, err := os.Open(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open tasks file: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, issues, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}

	diags := make([]Diagnostic, 0, len(issues))
	for _, issue := range issues {
		level := "warning"
		if issue.Dropped() {
			level = "error"
		}
		diags = append(diags, Diagnostic{
			Level:           level,
			Code:            issue.ErrorCode(),
			Message:         issue.Error(),
			SuggestedAction: issue.SuggestedAction(),
		})
	}
	return append(diags, findDuplicateIDs(s.List())...), nil
}

// Diagnose reports a pending schema migration and duplicate IDs.
func (b *SQLiteBackend) Diagnose(ctx context.Context) ([]Diagnostic, error) {
	var diags []Diagnostic

	current, latest, err := SchemaVersion(b.db)
	if err != nil {
		return nil, fmt.Errorf("schema version check: %w", err)
	}
	if current < latest {
		diags = append(diags, Diagnostic{
			Level:           "warning",
			Code:            "SCHEMA_OUTDATED",
			Message:         fmt.Sprintf("schema version %d, latest is %d", current, latest),
			SuggestedAction: "run any tally command against this database to migrate it",
		})
	}

	s, err := b.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("duplicate id check: %w", err)
	}
	return append(diags, findDuplicateIDs(s.List())...), nil
}

// findDuplicateIDs reports every ID held by more than one task. Only the
// first such task can be completed by ID.
func findDuplicateIDs(list []models.Task) []Diagnostic {
	counts := make(map[uint64]int, len(list))
	for _, t := range list {
		counts[t.ID]++
	}

	var diags []Diagnostic
	reported := make(map[uint64]bool)
	for _, t := range list {
		if counts[t.ID] < 2 || reported[t.ID] {
			continue
		}
		reported[t.ID] = true
		diags = append(diags, Diagnostic{
			Level:           "warning",
			Code:            "DUPLICATE_ID",
			Message:         fmt.Sprintf("%d tasks share id %d", counts[t.ID], t.ID),
			SuggestedAction: "renumber the duplicated lines in the tasks file",
		})
	}
	return diags
}
