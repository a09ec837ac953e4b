// Package project loads plan files and sanitizes raw task submissions
// before they reach the scheduling engine.
//
// The engine assumes already-typed, already-clean input; everything
// user-facing funnels through this package first. A plan file is a YAML or
// JSON document of the form:
//
//	name: Chantier maison
//	tasks:
//	  - name: terrassement
//	    duration: 3
//	  - name: fondations
//	    duration: 2
//	    predecessors: [terrassement]
package project

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tchevalier/mpm/internal/schedule"
)

// Plan is a named task list ready for the engine.
type Plan struct {
	Name  string          `json:"name" yaml:"name"`
	Tasks []schedule.Task `json:"tasks" yaml:"tasks"`
}

// SanitizeTasks applies transport-level cleanup to a raw task list: names
// and predecessor references are whitespace-trimmed and NFC-normalized so
// that visually identical names compare equal inside the engine. The input
// slice is not modified.
//
// A task whose name is empty after trimming is rejected here; the engine's
// own taxonomy starts at already-named tasks.
func SanitizeTasks(tasks []schedule.Task) ([]schedule.Task, error) {
	out := make([]schedule.Task, len(tasks))
	for i, t := range tasks {
		name := cleanName(t.Name)
		if name == "" {
			return nil, &LoadError{
				Code:    ErrCodeSchema,
				Message: fmt.Sprintf("task #%d has no name", i+1),
			}
		}
		var preds []string
		if len(t.Predecessors) > 0 {
			preds = make([]string, len(t.Predecessors))
			for j, p := range t.Predecessors {
				preds[j] = cleanName(p)
			}
		}
		out[i] = schedule.Task{Name: name, Duration: t.Duration, Predecessors: preds}
	}
	return out, nil
}

func cleanName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
