package drag

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

var (
	// ErrSessionActive is returned when a gesture starts while another is
	// still in progress or committing.
	ErrSessionActive = errors.New("drag session already active")
	// ErrNoSession is returned for pointer events with no gesture in progress.
	ErrNoSession = errors.New("no drag session")
)

// DateUpdater persists a committed gesture.
//
//go:generate go run go.uber.org/mock/mockgen -source=controller.go -destination=mocks/mock_updater.go -package=mocks
type DateUpdater interface {
	UpdateDates(ctx context.Context, featureID string, change DateChange) error
}

// State is the controller's position in the gesture lifecycle.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateCommitting
	StateReverting
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	case StateReverting:
		return "reverting"
	default:
		return "idle"
	}
}

// Settlement reports how a finished gesture ended.
type Settlement struct {
	Outcome Outcome
	// Err is the updater error for a failed commit, or the validation
	// error for a discarded gesture.
	Err error
}

// Committed reports whether the new dates were persisted.
func (s Settlement) Committed() bool {
	return s.Outcome.Kind == OutcomeCommit && s.Err == nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for discarded and failed gestures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnSettled registers a callback invoked once per gesture that ends in a
// discard or a commit attempt. It runs before the controller returns to idle.
func WithOnSettled(fn func(Settlement)) Option {
	return func(c *Controller) { c.onSettled = fn }
}

// Controller holds at most one drag session and performs its commit.
type Controller struct {
	cfg       Config
	updater   DateUpdater
	logger    *slog.Logger
	onSettled func(Settlement)

	mu      sync.Mutex
	state   State
	session Session
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewController returns an idle controller committing through updater.
func NewController(updater DateUpdater, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:     cfg,
		updater: updater,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the gesture in progress, if any.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.state == StateDragging
}

// PointerDown starts a gesture on t. Only one gesture may exist at a time.
func (c *Controller) PointerDown(t Target, at Point) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return Session{}, ErrSessionActive
	}
	c.session = Start(t, at, c.cfg)
	c.state = StateDragging
	return c.session, nil
}

// PointerMove updates the proposed geometry. It never calls the updater.
func (c *Controller) PointerMove(at Point) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDragging {
		return Session{}, ErrNoSession
	}
	c.session = c.session.Move(at)
	return c.session, nil
}

// PointerUp finishes the gesture. Clicks and discards return to idle
// immediately. A commit moves to committing and calls the updater on a
// separate goroutine; the returned outcome carries the proposed dates.
func (c *Controller) PointerUp(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.state != StateDragging {
		c.mu.Unlock()
		return Outcome{}, ErrNoSession
	}
	out := c.session.End()
	c.session = Session{}

	switch out.Kind {
	case OutcomeClick:
		c.state = StateIdle
		c.mu.Unlock()
		return out, nil

	case OutcomeDiscard:
		c.state = StateReverting
		c.mu.Unlock()
		c.logger.Info("drag discarded",
			"feature_id", out.FeatureID,
			"start", out.Change.StartDate(),
			"end", out.Change.EndDate(),
			"reason", out.Reason)
		c.settle(Settlement{Outcome: out, Err: out.Reason})
		return out, nil
	}

	commitCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = StateCommitting
	c.wg.Add(1)
	c.mu.Unlock()

	go c.commit(commitCtx, out)
	return out, nil
}

func (c *Controller) commit(ctx context.Context, out Outcome) {
	defer c.wg.Done()

	err := c.updater.UpdateDates(ctx, out.FeatureID, out.Change)
	if err != nil {
		c.mu.Lock()
		c.state = StateReverting
		c.mu.Unlock()
		c.logger.Warn("drag commit failed",
			"feature_id", out.FeatureID,
			"start", out.Change.StartDate(),
			"end", out.Change.EndDate(),
			"error", err)
	} else {
		c.logger.Debug("drag committed",
			"feature_id", out.FeatureID,
			"start", out.Change.StartDate(),
			"end", out.Change.EndDate())
	}
	c.settle(Settlement{Outcome: out, Err: err})
}

// settle notifies the callback and returns to idle.
func (c *Controller) settle(s Settlement) {
	if c.onSettled != nil {
		c.onSettled(s)
	}
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateIdle
	c.mu.Unlock()
}

// Cancel aborts a gesture in progress, or cancels the context of an
// in-flight commit. It is a no-op when idle.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateDragging:
		c.session = Session{}
		c.state = StateIdle
	case StateCommitting:
		if c.cancel != nil {
			c.cancel()
		}
	}
}

// Wait blocks until any in-flight commit has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}
