package importjob

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/carddex/internal/store"
)

// Request represents an import invocation request.
type Request struct {
	Sport         string
	SetID         int
	SetName       string
	ChecklistText string
	TCDBSetID     string
}

// DeriveType infers the job type based on populated fields.
func (r Request) DeriveType() (JobType, error) {
	if r.TCDBSetID != "" {
		return JobTypeTCDBSet, nil
	}
	if r.ChecklistText != "" {
		return JobTypeChecklistText, nil
	}
	return "", fmt.Errorf("unable to determine job type from request")
}

// Service coordinates job persistence, execution, and status reporting.
type Service struct {
	repo   *Repository
	runner Runner

	historyLimit int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(db *store.Database, runner Runner, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[importjob] ", log.LstdFlags)
	}

	return &Service{
		repo:         NewRepository(db),
		runner:       runner,
		historyLimit: 10,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	if err := s.repo.ResetStuckJobs(s.ctx); err != nil {
		s.logger.Printf("failed to reset jobs: %v", err)
	}

	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	if req.Sport == "" {
		req.Sport = "Baseball"
	}

	jobType, err := req.DeriveType()
	if err != nil {
		return nil, err
	}

	job := &Job{
		JobID:         uuid.NewString(),
		JobType:       jobType,
		Sport:         req.Sport,
		Status:        JobStatusQueued,
		StatusMessage: sql.NullString{String: "Queued", Valid: true},
	}
	if req.SetID > 0 {
		job.SetID = sql.NullInt32{Int32: int32(req.SetID), Valid: true}
	}
	if req.SetName != "" {
		job.SetName = sql.NullString{String: req.SetName, Valid: true}
	}

	switch jobType {
	case JobTypeChecklistText:
		if req.SetID == 0 && req.SetName == "" {
			return nil, fmt.Errorf("checklist job requires set_id or set_name")
		}
		job.Payload = sql.NullString{String: req.ChecklistText, Valid: true}
	case JobTypeTCDBSet:
		job.Payload = sql.NullString{String: req.TCDBSetID, Valid: true}
	}

	return s.repo.CreateJob(ctx, job)
}

// GetJob returns one job by ID.
func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

// Cancel marks a queued job cancelled.
func (s *Service) Cancel(ctx context.Context, jobID string) error {
	return s.repo.CancelJob(ctx, jobID)
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	active, err := s.repo.GetActiveJob(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListRecentJobs(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{
		ActiveJob: active,
		History:   history,
	}, nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			job, err := s.repo.MarkNextJobRunning(s.ctx)
			if err != nil {
				s.logger.Printf("claim job error: %v", err)
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				select {
				case <-s.ctx.Done():
					return
				case <-ticker.C:
					continue
				}
			}

			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	s.logger.Printf("running %s job %s", job.JobType, job.JobID)

	progress := func(current, total int, message string) {
		_ = s.repo.UpdateProgress(s.ctx, job.JobID, current, total, message)
	}

	if err := s.runner.Run(s.ctx, job, progress); err != nil {
		s.logger.Printf("job %s failed: %v", job.JobID, err)
		_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Job failed", err)
		return
	}

	_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusCompleted, "Job completed", nil)
}
