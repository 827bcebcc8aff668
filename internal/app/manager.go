package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/domain"
	"github.com/yourusername/mediagrab/internal/infrastructure"
)

// JobEvent is one update on a running job: either a progress tick or the
// single terminal result.
type JobEvent struct {
	JobID    string                `json:"job_id"`
	Progress *domain.ProgressEvent `json:"progress,omitempty"`
	Result   *domain.Result        `json:"result,omitempty"`
}

// Manager owns job lifecycles. Every submitted job runs in its own
// goroutine with its own cancellable context; jobs share nothing but the
// output-directory setting captured at start and the history store.
type Manager struct {
	repo         domain.JobRepository
	orchestrator *Orchestrator
	notifier     *infrastructure.NotificationService
	config       *domain.Config
	logger       *zap.Logger

	mu          sync.RWMutex
	active      map[string]*domain.Job
	cancels     map[string]context.CancelFunc
	subscribers map[string][]chan JobEvent
}

// NewManager creates a new job manager
func NewManager(
	repo domain.JobRepository,
	orchestrator *Orchestrator,
	notifier *infrastructure.NotificationService,
	config *domain.Config,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		repo:         repo,
		orchestrator: orchestrator,
		notifier:     notifier,
		config:       config,
		logger:       logger,
		active:       make(map[string]*domain.Job),
		cancels:      make(map[string]context.CancelFunc),
		subscribers:  make(map[string][]chan JobEvent),
	}
}

// Submit validates the request, journals a new job and starts it in the
// background. Validation failures reject the request before any job exists.
func (m *Manager) Submit(req domain.DownloadRequest) (*domain.Job, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if req.Quality == "" {
		req.Quality = domain.QualityBest
	}

	job := domain.NewJob(req)
	if err := m.repo.Create(job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.active[job.ID] = job
	m.cancels[job.ID] = cancel
	m.mu.Unlock()

	m.logger.Info("Job submitted",
		zap.String("id", job.ID),
		zap.String("url", job.URL),
		zap.String("kind", string(job.Kind)))

	snapshot := *job
	go m.run(ctx, job)
	return &snapshot, nil
}

// run drives one job to its terminal state. All mutations of the live job
// happen under the manager lock; readers get snapshots.
func (m *Manager) run(ctx context.Context, job *domain.Job) {
	// Each job captures the base directory once; a settings change mid-job
	// only affects jobs started afterwards.
	outputDir := m.config.Download.OutputDir

	m.mu.Lock()
	job.MarkProcessing()
	m.mu.Unlock()
	if err := m.repo.Update(job); err != nil {
		m.logger.Error("Failed to journal job start", zap.String("id", job.ID), zap.Error(err))
	}

	onProgress := func(event domain.ProgressEvent) {
		m.mu.Lock()
		job.Percent = event.Percent
		m.mu.Unlock()
		m.publish(job.ID, JobEvent{JobID: job.ID, Progress: &event})
	}

	result := m.orchestrator.Run(ctx, job.Request(), outputDir, onProgress)

	m.mu.Lock()
	switch {
	case ctx.Err() != nil:
		job.MarkCancelled()
		result = domain.Result{Success: false, Message: "download cancelled"}
	case result.Success:
		job.MarkCompleted(result.Message)
		if result.Record != nil {
			job.Creator = result.Record.Creator
			job.Title = result.Record.Title
			job.OutputDir = result.Record.FilePath
		}
	default:
		job.MarkFailed(fmt.Errorf("%s", result.Message))
	}
	m.mu.Unlock()

	if err := m.repo.Update(job); err != nil {
		m.logger.Error("Failed to journal job result", zap.String("id", job.ID), zap.Error(err))
	}

	m.publish(job.ID, JobEvent{JobID: job.ID, Result: &result})
	if m.notifier != nil {
		m.notifier.NotifyJobFinished(job, result)
	}

	m.mu.Lock()
	delete(m.active, job.ID)
	if cancel, ok := m.cancels[job.ID]; ok {
		cancel()
		delete(m.cancels, job.ID)
	}
	for _, ch := range m.subscribers[job.ID] {
		close(ch)
	}
	delete(m.subscribers, job.ID)
	m.mu.Unlock()
}

// Cancel requests cooperative cancellation of a running job.
func (m *Manager) Cancel(id string) error {
	m.mu.RLock()
	cancel, ok := m.cancels[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job not running: %s", id)
	}
	cancel()
	return nil
}

// Retry requeues a failed or cancelled job and runs it again under the
// same ID, keeping the journal's retry count.
func (m *Manager) Retry(id string) (*domain.Job, error) {
	m.mu.RLock()
	_, running := m.active[id]
	m.mu.RUnlock()
	if running {
		return nil, fmt.Errorf("job still running: %s", id)
	}

	job, err := m.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	if job.Status != domain.StatusFailed && job.Status != domain.StatusCancelled {
		return nil, fmt.Errorf("job is %s, only failed or cancelled jobs can be retried", job.Status)
	}

	job.Requeue()
	if err := m.repo.Update(job); err != nil {
		return nil, fmt.Errorf("failed to requeue job: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.active[job.ID] = job
	m.cancels[job.ID] = cancel
	m.mu.Unlock()

	m.logger.Info("Job requeued",
		zap.String("id", job.ID),
		zap.String("url", job.URL),
		zap.Int("retry_count", job.RetryCount))

	snapshot := *job
	go m.run(ctx, job)
	return &snapshot, nil
}

// Shutdown cancels every active job. Jobs observe the cancellation
// cooperatively and journal their terminal state before exiting.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(m.cancels))
	for _, cancel := range m.cancels {
		cancels = append(cancels, cancel)
	}
	m.mu.RUnlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Subscribe returns a channel receiving the job's remaining events. The
// channel closes when the job reaches its terminal state; the returned
// function unsubscribes early.
func (m *Manager) Subscribe(jobID string) (<-chan JobEvent, func()) {
	ch := make(chan JobEvent, 32)

	m.mu.Lock()
	if _, running := m.active[jobID]; !running {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	m.subscribers[jobID] = append(m.subscribers[jobID], ch)
	m.mu.Unlock()

	unsubscribe := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subscribers[jobID]
		for i, sub := range subs {
			if sub == ch {
				m.subscribers[jobID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsubscribe
}

// publish delivers an event to the job's subscribers, dropping events for
// subscribers that cannot keep up.
func (m *Manager) publish(jobID string, event JobEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.subscribers[jobID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// GetJob returns a job by ID, preferring the live in-flight state. Active
// jobs are returned as snapshots so callers never observe a half-applied
// status transition.
func (m *Manager) GetJob(id string) (*domain.Job, error) {
	m.mu.RLock()
	if job, ok := m.active[id]; ok {
		snapshot := *job
		m.mu.RUnlock()
		return &snapshot, nil
	}
	m.mu.RUnlock()
	return m.repo.FindByID(id)
}

// ListJobs returns the most recent jobs, newest first.
func (m *Manager) ListJobs(limit int) ([]*domain.Job, error) {
	return m.repo.FindRecent(limit)
}

// Stats returns job journal statistics.
func (m *Manager) Stats() (*domain.JobStats, error) {
	return m.repo.GetStats()
}

// ActiveCount returns the number of jobs currently running.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}
