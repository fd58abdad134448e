package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/platform/id"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
)

const (
	StageQueued     = "queued"
	StageFetching   = "fetching"
	StageParsing    = "parsing"
	StageScoring    = "scoring"
	StageInstalling = "installing"
	StageDone       = "done"
	StageFailed     = "failed"
	StageCancelled  = "cancelled"
)

// Progress is one step reported by a running pool refresh.
type Progress struct {
	JobID   string    `json:"job_id"`
	Stage   string    `json:"stage"`
	Message string    `json:"message,omitempty"`
	Players int       `json:"players,omitempty"`
	Done    bool      `json:"done"`
	Err     string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// StatsCollector produces a ranked player snapshot with every player available.
type StatsCollector interface {
	CollectSeasonPool(ctx context.Context, report func(stage, message string)) ([]player.Player, error)
}

type PoolReplacer interface {
	ReplacePool(ctx context.Context, snapshot []player.Player) (int, error)
}

type RefreshConfig struct {
	Workers int
	Timeout time.Duration
	Clock   clockwork.Clock
	IDs     id.Generator
}

// PoolRefresher runs stats collection in the background. Only one refresh runs at
// a time and the current pool is only replaced when collection succeeds.
type PoolRefresher struct {
	collector StatsCollector
	replacer  PoolReplacer
	workers   *ants.Pool
	timeout   time.Duration
	clock     clockwork.Clock
	ids       id.Generator
	logger    *logging.Logger

	mu      sync.Mutex
	current *RefreshJob
	latest  Progress
}

func NewPoolRefresher(collector StatsCollector, replacer PoolReplacer, cfg RefreshConfig, logger *logging.Logger) (*PoolRefresher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.IDs == nil {
		cfg.IDs = id.NewUUIDGenerator()
	}

	workers, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create refresh worker pool: %w", err)
	}

	return &PoolRefresher{
		collector: collector,
		replacer:  replacer,
		workers:   workers,
		timeout:   cfg.Timeout,
		clock:     cfg.Clock,
		ids:       cfg.IDs,
		logger:    logger.Named("refresh"),
	}, nil
}

// RefreshJob is a handle on one background refresh.
type RefreshJob struct {
	ID       string
	progress chan Progress
	cancel   context.CancelFunc
	done     chan struct{}

	players int
	err     error
}

// Progress streams the job's steps. The channel is closed when the job ends;
// steps are dropped when the reader falls behind.
func (j *RefreshJob) Progress() <-chan Progress {
	return j.progress
}

func (j *RefreshJob) Cancel() {
	j.cancel()
}

// Wait blocks until the job ends and returns the installed pool size.
func (j *RefreshJob) Wait(ctx context.Context) (int, error) {
	select {
	case <-j.done:
		return j.players, j.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Start launches a refresh. The job outlives ctx's cancellation but keeps its values.
func (r *PoolRefresher) Start(ctx context.Context) (*RefreshJob, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolRefresher.Start")
	defer span.End()

	if r.collector == nil || r.replacer == nil {
		return nil, fmt.Errorf("%w: stats collector is not configured", ErrDependencyUnavailable)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		return nil, fmt.Errorf("%w: job %s", ErrRefreshInProgress, r.current.ID)
	}

	jobID, err := r.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate refresh job id: %w", err)
	}

	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if r.timeout > 0 {
		var cancelTimeout context.CancelFunc
		jobCtx, cancelTimeout = context.WithTimeout(jobCtx, r.timeout)
		base := cancel
		cancel = func() {
			cancelTimeout()
			base()
		}
	}

	job := &RefreshJob{
		ID:       jobID,
		progress: make(chan Progress, 32),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	if err := r.workers.Submit(func() { r.run(jobCtx, job) }); err != nil {
		cancel()
		return nil, fmt.Errorf("submit refresh job: %w", err)
	}

	r.current = job
	r.latest = Progress{JobID: jobID, Stage: StageQueued, At: r.clock.Now()}
	r.logger.InfoContext(ctx, "pool refresh started", "job_id", jobID)
	return job, nil
}

func (r *PoolRefresher) run(ctx context.Context, job *RefreshJob) {
	defer job.cancel()

	var players int
	var runErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		players, runErr = r.collectAndInstall(ctx, job)
	})
	if recovered := wg.WaitAndRecover(); recovered != nil {
		runErr = fmt.Errorf("pool refresh panicked: %v", recovered.Value)
	}

	final := Progress{JobID: job.ID, Stage: StageDone, Players: players, Done: true}
	switch {
	case runErr != nil && ctx.Err() == context.Canceled:
		final.Stage = StageCancelled
		final.Err = runErr.Error()
		r.logger.WarnContext(ctx, "pool refresh cancelled, keeping current pool", "job_id", job.ID)
	case runErr != nil:
		final.Stage = StageFailed
		final.Err = runErr.Error()
		r.logger.ErrorContext(ctx, "pool refresh failed, keeping current pool", "job_id", job.ID, "error", runErr)
	default:
		final.Message = fmt.Sprintf("installed %d players", players)
		r.logger.InfoContext(ctx, "pool refresh finished", "job_id", job.ID, "players", players)
	}

	job.players, job.err = players, runErr
	r.report(job, final)

	r.mu.Lock()
	if r.current == job {
		r.current = nil
	}
	r.mu.Unlock()

	close(job.progress)
	close(job.done)
}

func (r *PoolRefresher) collectAndInstall(ctx context.Context, job *RefreshJob) (int, error) {
	snapshot, err := r.collector.CollectSeasonPool(ctx, func(stage, message string) {
		r.report(job, Progress{JobID: job.ID, Stage: stage, Message: message})
	})
	if err != nil {
		return 0, fmt.Errorf("collect season pool: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.report(job, Progress{JobID: job.ID, Stage: StageInstalling, Players: len(snapshot)})
	installed, err := r.replacer.ReplacePool(ctx, snapshot)
	if err != nil && !IsWarning(err) {
		return 0, fmt.Errorf("replace pool: %w", err)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "refreshed pool installed but not persisted", "job_id", job.ID, "error", err)
	}
	return installed, nil
}

func (r *PoolRefresher) report(job *RefreshJob, p Progress) {
	p.At = r.clock.Now()

	r.mu.Lock()
	r.latest = p
	r.mu.Unlock()

	select {
	case job.progress <- p:
	default:
	}
}

// Latest returns the most recent step of the current or last refresh and whether a
// refresh is running.
func (r *PoolRefresher) Latest() (Progress, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.latest, r.current != nil
}

// Cancel stops the running refresh, if any.
func (r *PoolRefresher) Cancel() bool {
	r.mu.Lock()
	job := r.current
	r.mu.Unlock()

	if job == nil {
		return false
	}
	job.Cancel()
	return true
}

// Close cancels any running refresh and releases the worker pool.
func (r *PoolRefresher) Close() {
	r.Cancel()
	r.workers.Release()
}
