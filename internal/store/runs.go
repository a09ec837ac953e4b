package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tchevalier/mpm/internal/schedule"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted schedule computation.
type Run struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	Tasks     []schedule.Task  `json:"tasks"`
	Result    *schedule.Result `json:"result"`
}

// RunSummary is the listing view of a run, without the payloads.
type RunSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"created_at"`
	TaskCount       int       `json:"task_count"`
	ProjectDuration float64   `json:"project_duration"`
}

// SaveRun persists a plan and its computed result, returning the new run id.
// UUIDv7 ids sort by creation time, which keeps listing cheap.
func (s *Store) SaveRun(ctx context.Context, name string, tasks []schedule.Task, res *schedule.Result) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()

	planJSON, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, created_at, plan_json, result_json) VALUES (?, ?, ?, ?, ?)`,
		id, name, time.Now().UTC().Format(time.RFC3339Nano), string(planJSON), string(resultJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// GetRun loads a full run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, plan_json, result_json FROM runs WHERE id = ?`, id)

	var run Run
	var createdAt, planJSON, resultJSON string
	err := row.Scan(&run.ID, &run.Name, &createdAt, &planJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(planJSON), &run.Tasks); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &run.Result); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return &run, nil
}

// ListRuns returns run summaries, newest first, up to limit (0 means all).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT id, name, created_at, plan_json, result_json FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var sum RunSummary
		var createdAt, planJSON, resultJSON string
		if err := rows.Scan(&sum.ID, &sum.Name, &createdAt, &planJSON, &resultJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		var tasks []schedule.Task
		if err := json.Unmarshal([]byte(planJSON), &tasks); err != nil {
			return nil, fmt.Errorf("decoding plan: %w", err)
		}
		var res schedule.Result
		if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
		sum.TaskCount = len(tasks)
		sum.ProjectDuration = res.ProjectDuration
		out = append(out, sum)
	}
	return out, rows.Err()
}
