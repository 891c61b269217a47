package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Task is one run of a background job. The context is cancelled when the
// scheduler stops.
type Task func(ctx context.Context) error

// JobObserver receives the outcome of every run. *metrics.Metrics
// satisfies it.
type JobObserver interface {
	JobRun(job string, err error)
}

// JobStatus describes a registered job for the status endpoint.
type JobStatus struct {
	Name    string    `json:"name"`
	LastRun time.Time `json:"last_run,omitempty"`
	NextRun time.Time `json:"next_run,omitempty"`
}

// JobScheduler runs interval jobs. A job never overlaps itself: a run that
// is still going when the next one is due pushes that one back.
type JobScheduler struct {
	scheduler gocron.Scheduler
	log       *zap.Logger
	observer  JobObserver
	ctx       context.Context
	cancel    context.CancelFunc
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(log *zap.Logger, observer JobObserver) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &JobScheduler{
		scheduler: scheduler,
		log:       log,
		observer:  observer,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

func (js *JobScheduler) Start() {
	js.log.Info("Starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop cancels running tasks and waits for them to return.
func (js *JobScheduler) Stop() error {
	js.log.Info("Stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

// AddJob registers task to run every interval, first run after one
// interval has passed.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	js.mu.Lock()
	defer js.mu.Unlock()
	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.run, name, task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}
	js.jobs[name] = job
	js.log.Info("Registered background job", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

func (js *JobScheduler) run(name string, task Task) {
	start := time.Now()
	err := task(js.ctx)
	if js.observer != nil {
		js.observer.JobRun(name, err)
	}
	if err != nil {
		js.log.Error("Background job failed", zap.String("job", name), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	js.log.Info("Background job completed", zap.String("job", name), zap.Duration("elapsed", time.Since(start)))
}

// RunNow triggers name outside its schedule. The scheduler must be started.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}
	return job.RunNow()
}

func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()
	job, ok := js.jobs[name]
	if !ok {
		return nil
	}
	delete(js.jobs, name)
	return js.scheduler.RemoveJob(job.ID())
}

// GetJobStatus lists registered jobs by name.
func (js *JobScheduler) GetJobStatus() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	out := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		st := JobStatus{Name: name}
		st.LastRun, _ = job.LastRun()
		st.NextRun, _ = job.NextRun()
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
