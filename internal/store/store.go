// Package store persists render runs and their per-county class assignments.
package store

import (
	"context"
	"time"
)

// RunStatus tracks the lifecycle of a render run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one invocation of the render pipeline.
type Run struct {
	ID           string    `json:"id"`
	DatasetPath  string    `json:"dataset_path"`
	BoundaryPath string    `json:"boundary_path"`
	Palette      string    `json:"palette"`
	K            int       `json:"k"`
	Joined       int       `json:"joined"`
	Dropped      int       `json:"dropped"`
	OutputPath   string    `json:"output_path"`
	Status       RunStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Assignment is the classified result for one county in a run.
type Assignment struct {
	RunID  string  `json:"run_id"`
	County string  `json:"county"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	BinX   int     `json:"bin_x"`
	BinY   int     `json:"bin_y"`
	Color  string  `json:"color"`
}

// RunParams holds the inputs recorded when a run starts.
type RunParams struct {
	DatasetPath  string
	BoundaryPath string
	Palette      string
	K            int
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status RunStatus `json:"status,omitempty"`
	Limit  int       `json:"limit,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for render runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params RunParams) (*Run, error)
	CompleteRun(ctx context.Context, runID string, outputPath string, joined, dropped int) error
	FailRun(ctx context.Context, runID string, cause error) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	// Assignments
	SaveAssignments(ctx context.Context, runID string, assignments []Assignment) error
	ListAssignments(ctx context.Context, runID string) ([]Assignment, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
