package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/worktimer/internal/model"
	"github.com/nhle/worktimer/internal/source"
	"github.com/nhle/worktimer/internal/worktime"
)

// SyncState represents the current state of the poller.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncRunning:
		return "running"
	case SyncError:
		return "error"
	default:
		return fmt.Sprintf("SyncState(%d)", int(s))
	}
}

// SyncStatus holds the outcome of the most recent cycle.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Cycles   int
	Posted   int
	DryRun   int
	Error    error
}

// CycleResult summarizes one compare-and-post cycle.
type CycleResult struct {
	ID      string
	Issues  int
	Posted  []worktime.Transition
	DryRun  []worktime.Transition
	Failed  []worktime.Transition
	Ignored []worktime.Transition
	Skipped []worktime.Skipped
}

// cycleTimeout bounds a single snapshot plus the posts that follow it.
const cycleTimeout = 5 * time.Minute

// defaultInterval is used when Options.Interval is not positive.
const defaultInterval = model.DefaultPollInterval

// Options configures a Poller.
type Options struct {
	Interval time.Duration
	Rule     worktime.Rule

	// AuthorID, WorkTypeID and Text fill every posted work item.
	AuthorID   string
	WorkTypeID string
	Text       string

	// DryRun detects and logs transitions without posting.
	DryRun bool

	Logger *zap.Logger

	// Now stamps posted work items. Defaults to time.Now.
	Now func() time.Time
}

// Poller repeatedly snapshots the tracker and logs work time for
// qualifying transitions. Run and Cycle must not be called
// concurrently; Status, Baseline and Trigger may be called from any
// goroutine.
type Poller struct {
	tracker   source.Tracker
	opts      Options
	logger    *zap.Logger
	triggerCh chan struct{}

	// mu guards baseline and status. Only Init and Cycle write baseline.
	mu       gosync.Mutex
	baseline *model.Snapshot
	status   SyncStatus
}

// New creates a Poller for the given tracker.
func New(t source.Tracker, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		tracker:   t,
		opts:      opts,
		logger:    logger,
		triggerCh: make(chan struct{}, 1),
	}
}

// Run takes the initial snapshot and then runs a cycle every interval
// until ctx is cancelled. A failed initial snapshot is returned as an
// error; later failures are logged and the loop continues.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.Init(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	p.logger.Info("polling started",
		zap.Duration("interval", p.opts.Interval),
		zap.String("from", p.opts.Rule.From),
		zap.String("to", p.opts.Rule.To),
		zap.Bool("dry_run", p.opts.DryRun),
	)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("polling stopped")
			return nil
		case <-ticker.C:
		case <-p.triggerCh:
			p.logger.Info("immediate poll requested")
		}

		if _, err := p.Cycle(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("poll cycle failed", zap.Error(err))
		}
	}
}

// Init replaces the baseline with a fresh snapshot.
func (p *Poller) Init(ctx context.Context) error {
	snap, err := p.fetch(ctx)
	if err != nil {
		p.setStatus(SyncError, err)
		return fmt.Errorf("initial snapshot: %w", err)
	}
	p.mu.Lock()
	p.baseline = snap
	p.mu.Unlock()
	p.setStatus(SyncIdle, nil)
	return nil
}

// Trigger requests an immediate cycle without waiting for the ticker.
func (p *Poller) Trigger() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A trigger is already pending.
	}
}

// Status returns the outcome of the most recent cycle.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Cycle fetches a new snapshot, compares it against the baseline and
// posts work time for each qualifying transition. The baseline then
// moves to the new snapshot, except that issues whose post failed keep
// their previous entry so they qualify again next cycle.
func (p *Poller) Cycle(ctx context.Context) (*CycleResult, error) {
	if p.baseline == nil {
		if err := p.Init(ctx); err != nil {
			return nil, err
		}
		return &CycleResult{ID: uuid.NewString(), Issues: p.baseline.Len()}, nil
	}

	res := &CycleResult{ID: uuid.NewString()}
	log := p.logger.With(zap.String("cycle", res.ID))

	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	next, err := p.fetch(ctx)
	if err != nil {
		p.setStatus(SyncError, err)
		if source.IsAuthError(err) {
			log.Error("tracker rejected the token", zap.Error(err))
		}
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	res.Issues = next.Len()

	cmp := worktime.CompareStates(p.baseline, next, p.opts.Rule)
	res.Skipped = cmp.Skipped
	for _, s := range cmp.Skipped {
		log.Warn("transition without duration skipped",
			zap.String("issue", s.IssueID),
			zap.String("reason", s.Reason),
		)
	}

	merged := next.Clone()
	for _, t := range cmp.Transitions {
		tlog := log.With(
			zap.String("issue", t.Label()),
			zap.Int("elapsed_minutes", t.Elapsed),
			zap.Int("minutes", t.Minutes),
		)

		if t.Minutes <= 0 {
			tlog.Warn("non-positive duration not logged")
			res.Ignored = append(res.Ignored, t)
			continue
		}

		if p.opts.DryRun {
			tlog.Info("dry run: would add work time")
			res.DryRun = append(res.DryRun, t)
			continue
		}

		if err := p.tracker.AddWorkItem(ctx, p.workItem(t)); err != nil {
			tlog.Error("failed to add work time", zap.Error(err))
			res.Failed = append(res.Failed, t)
			merged.Put(t.IssueID, t.From)
			continue
		}

		tlog.Info("logged work time")
		res.Posted = append(res.Posted, t)
	}

	p.mu.Lock()
	p.baseline = merged
	p.status.Cycles++
	p.status.Posted += len(res.Posted)
	p.status.DryRun += len(res.DryRun)
	p.mu.Unlock()
	p.setStatus(SyncIdle, nil)

	log.Debug("poll cycle done",
		zap.Int("issues", res.Issues),
		zap.Int("posted", len(res.Posted)),
		zap.Int("dry_run", len(res.DryRun)),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}

// Baseline returns a copy of the snapshot the next cycle compares against.
func (p *Poller) Baseline() *model.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.baseline.Clone()
}

func (p *Poller) fetch(ctx context.Context) (*model.Snapshot, error) {
	return p.tracker.FetchStates(ctx)
}

func (p *Poller) workItem(t worktime.Transition) model.WorkItem {
	return model.WorkItem{
		IssueID:  t.IssueID,
		Date:     p.opts.Now(),
		AuthorID: p.opts.AuthorID,
		Minutes:  t.Minutes,
		TypeID:   p.opts.WorkTypeID,
		Text:     p.opts.Text,
	}
}

// setStatus updates the poller status.
func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = p.opts.Now()
	}
}
