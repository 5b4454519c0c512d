package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeRefreshLibrary, map[string]string{
		"roots": "/data/dicts",
	})

	if jobID == "" {
		t.Error("Expected non-empty job ID")
	}

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get created job: %v", err)
	}

	if job.Type != model.JobTypeRefreshLibrary {
		t.Errorf("Expected job type %s, got %s", model.JobTypeRefreshLibrary, job.Type)
	}

	if job.Status != model.JobStatusPending {
		t.Errorf("Expected job status %s, got %s", model.JobStatusPending, job.Status)
	}

	if job.Metadata["roots"] != "/data/dicts" {
		t.Errorf("Expected roots metadata '/data/dicts', got %s", job.Metadata["roots"])
	}
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeRefreshLibrary, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		time.Sleep(10 * time.Millisecond) // Simulate work
		return nil
	})

	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	// Wait a bit for job to complete
	time.Sleep(50 * time.Millisecond)

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get job after execution: %v", err)
	}

	if job.Status != model.JobStatusCompleted {
		t.Errorf("Expected job status %s, got %s", model.JobStatusCompleted, job.Status)
	}

	if job.CompletedAt == nil {
		t.Error("Expected completion timestamp to be set")
	}
}

func TestJobManager_ExecuteJob_Failure(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeRefreshLibrary, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return fmt.Errorf("scan failed")
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get job after execution: %v", err)
	}

	if job.Status != model.JobStatusFailed {
		t.Errorf("Expected job status %s, got %s", model.JobStatusFailed, job.Status)
	}
	if job.Error != "scan failed" {
		t.Errorf("Expected job error 'scan failed', got %q", job.Error)
	}
}

func TestJobManager_GetJob_NotFound(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	_, err := manager.GetJob("no-such-job")
	if err == nil {
		t.Fatal("Expected an error for an unknown job id")
	}
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected a not-found error, got %v", err)
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	first := manager.CreateJob(model.JobTypeRefreshLibrary, nil)
	manager.CreateJob(model.JobTypeRefreshLibrary, nil)

	err := manager.ExecuteJob(first, func(ctx context.Context, job *model.Job) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	all := manager.ListJobs(model.JobTypeRefreshLibrary, nil)
	if len(all) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(all))
	}

	pending := model.JobStatusPending
	pendingJobs := manager.ListJobs(model.JobTypeRefreshLibrary, &pending)
	if len(pendingJobs) != 1 {
		t.Errorf("Expected 1 pending job, got %d", len(pendingJobs))
	}
}
