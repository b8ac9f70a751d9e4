package swipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/ytget/anchorswipe/internal/model"
)

// ErrDisposed is returned by operations on a disposed State
var ErrDisposed = errors.New("swipe state disposed")

// operation is one in-flight transition. interrupted is closed when a newer
// request takes over.
type operation struct {
	id          string
	interrupted chan struct{}
	started     time.Time
}

// State is the synchronized swipe controller used by hosts. Drags and
// snapshot reads never block on animations; transitions suspend the caller
// until they settle, are vetoed, or are interrupted. The last request wins.
type State struct {
	name    string
	confirm func(model.StateLabel) bool
	clock   FrameClock
	logger  *slog.Logger
	metrics *Metrics

	mu       sync.Mutex
	machine  *Machine
	current  *operation
	onUpdate func(model.Snapshot)
	disposed bool

	snapshot *atomic.Pointer[model.Snapshot]
}

// NewState creates a State settled on initial
func NewState(initial model.StateLabel, anchors *model.AnchorSet, opts ...Option) (*State, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	machine, err := NewMachine(initial, anchors, o.config())
	if err != nil {
		return nil, err
	}

	if o.clock == nil {
		o.clock = NewTickerClock(DefaultFrameInterval)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	snap := machine.Snapshot()
	return &State{
		name:     o.name,
		confirm:  o.confirm,
		clock:    o.clock,
		logger:   o.logger.With("swipe", sanitizeName(o.name)),
		metrics:  o.metrics,
		machine:  machine,
		snapshot: atomic.NewPointer(&snap),
	}, nil
}

// Restore rebuilds a State from a saved label. Only the settled value
// survives a save; a label missing from anchors falls back to Closed, or to
// the first anchor when there is no Closed anchor.
func Restore(saved model.StateLabel, anchors *model.AnchorSet, opts ...Option) (*State, error) {
	if anchors == nil {
		return nil, model.ErrTooFewAnchors
	}
	if !anchors.Contains(saved) {
		saved = model.StateClosed
		if !anchors.Contains(saved) {
			saved = anchors.Labels()[0]
		}
	}
	return NewState(saved, anchors, opts...)
}

// Name returns the name given with WithName
func (s *State) Name() string {
	return s.name
}

// Snapshot returns the last published values without locking
func (s *State) Snapshot() model.Snapshot {
	return *s.snapshot.Load()
}

// Saved returns the value to persist across process death
func (s *State) Saved() model.StateLabel {
	return s.Snapshot().CurrentValue
}

// Anchors returns the current anchor set
func (s *State) Anchors() *model.AnchorSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Anchors
}

// SetUpdateCallback sets the function called after every published change.
// It runs on the goroutine that made the change, outside the lock.
func (s *State) SetUpdateCallback(callback func(model.Snapshot)) {
	s.mu.Lock()
	s.onUpdate = callback
	s.mu.Unlock()
}

// DragStart interrupts any running transition and enters drag mode
func (s *State) DragStart() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.interruptLocked()
	s.machine.StartDrag()
	s.unlockAndPublish()
}

// Drag applies one drag delta and returns the consumed part. The first delta
// after idle implies DragStart.
func (s *State) Drag(delta float64) float64 {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return 0
	}
	if !s.machine.IsDragging() {
		s.interruptLocked()
		s.machine.StartDrag()
		s.logger.Debug("drag started", "offset", s.machine.Offset)
	}
	consumed := s.machine.ApplyDrag(delta)
	s.unlockAndPublish()

	s.metrics.observeDrag(s.name)
	return consumed
}

// Release ends a drag with the given velocity in px per second and settles
// on the anchor chosen from position and velocity
func (s *State) Release(ctx context.Context, velocity float64) (model.Result, error) {
	return s.BeginRelease(velocity)(ctx)
}

// BeginRelease ends the drag at once and returns a function that runs the
// guard and waits for the settle. A drag started before the function runs
// cancels that settle instead of being ended by it.
func (s *State) BeginRelease(velocity float64) func(context.Context) (model.Result, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return func(context.Context) (model.Result, error) { return model.ResultCancelled, ErrDisposed }
	}
	target := s.machine.Release(velocity)
	s.logger.Debug("drag released", "velocity", velocity, "offset", s.machine.Offset, "target", target)
	op, from := s.beginLocked()
	s.mu.Unlock()

	return func(ctx context.Context) (model.Result, error) {
		return s.complete(ctx, op, from, target, true)
	}
}

// Open animates to the Open anchor
func (s *State) Open(ctx context.Context) (model.Result, error) {
	return s.AnimateTo(ctx, model.StateOpen)
}

// Close animates to the Closed anchor
func (s *State) Close(ctx context.Context) (model.Result, error) {
	return s.AnimateTo(ctx, model.StateClosed)
}

// AnimateTo runs a guarded, animated transition to target
func (s *State) AnimateTo(ctx context.Context, target model.StateLabel) (model.Result, error) {
	s.mu.Lock()
	if err := s.checkLocked(target); err != nil {
		s.mu.Unlock()
		return model.ResultCancelled, err
	}
	return s.transitionLocked(ctx, target, true)
}

// SnapTo runs a guarded, immediate transition to target. Snapping to the
// label the state already rests on completes at once without side effects.
func (s *State) SnapTo(ctx context.Context, target model.StateLabel) (model.Result, error) {
	s.mu.Lock()
	if err := s.checkLocked(target); err != nil {
		s.mu.Unlock()
		return model.ResultCancelled, err
	}
	if s.current == nil && !s.machine.IsDragging() && s.machine.Snapshot().IsSettled(s.machine.Anchors) &&
		s.machine.CurrentValue == target {
		s.mu.Unlock()
		return model.ResultCompleted, nil
	}
	return s.transitionLocked(ctx, target, false)
}

// Reanchor replaces the anchors after the host's measured size changed.
// Any running transition is cancelled.
func (s *State) Reanchor(anchors *model.AnchorSet) error {
	if anchors == nil {
		return model.ErrTooFewAnchors
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	s.interruptLocked()
	s.machine.Reanchor(anchors)
	s.logger.Debug("reanchored", "travel", anchors.Travel(), "current", s.machine.CurrentValue)
	s.unlockAndPublish()
	return nil
}

// Dispose cancels any running transition and rejects further operations
func (s *State) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true
	s.interruptLocked()
	s.onUpdate = nil
}

func (s *State) checkLocked(target model.StateLabel) error {
	if s.disposed {
		return ErrDisposed
	}
	if !s.machine.Anchors.Contains(target) {
		return fmt.Errorf("%w: %s", ErrUnknownLabel, target)
	}
	return nil
}

// transitionLocked is entered with s.mu held and returns with it released
func (s *State) transitionLocked(ctx context.Context, target model.StateLabel, animate bool) (model.Result, error) {
	op, from := s.beginLocked()
	s.mu.Unlock()
	return s.complete(ctx, op, from, target, animate)
}

// beginLocked makes a new operation the current one
func (s *State) beginLocked() (*operation, model.StateLabel) {
	s.interruptLocked()

	op := &operation{
		id:          uuid.NewString(),
		interrupted: make(chan struct{}),
		started:     time.Now(),
	}
	s.current = op
	return op, s.machine.CurrentValue
}

// complete asks the guard, then snaps or animates unless op was superseded
func (s *State) complete(ctx context.Context, op *operation, from, target model.StateLabel, animate bool) (model.Result, error) {
	select {
	case <-op.interrupted:
		return s.finish(op, from, target, model.ResultCancelled), nil
	default:
	}

	allowed := target == from || s.confirm == nil || s.confirm(target)

	s.mu.Lock()
	if s.current != op {
		s.mu.Unlock()
		return s.finish(op, from, target, model.ResultCancelled), nil
	}

	dest, vetoed := s.machine.ConfirmAndCommit(target, func(model.StateLabel) bool { return allowed })
	result := model.ResultCompleted
	if vetoed {
		result = model.ResultVetoed
		s.logger.Info("transition vetoed", "op", op.id, "from", from, "to", target)
	}

	if !animate {
		err := s.machine.Snap(dest)
		s.current = nil
		s.unlockAndPublish()
		return s.finish(op, from, target, result), err
	}

	needsFrames, err := s.machine.StartTween(dest)
	if err != nil || !needsFrames {
		s.current = nil
		s.unlockAndPublish()
		return s.finish(op, from, target, result), err
	}
	s.unlockAndPublish()

	return s.await(ctx, op, from, target, result)
}

func (s *State) await(ctx context.Context, op *operation, from, target model.StateLabel, result model.Result) (model.Result, error) {
	frames, stop := s.clock.Frames()
	defer stop()

	for {
		select {
		case <-op.interrupted:
			return s.finish(op, from, target, model.ResultCancelled), nil

		case <-ctx.Done():
			s.mu.Lock()
			if s.current == op {
				s.current = nil
				s.machine.Interrupt()
				s.unlockAndPublish()
			} else {
				s.mu.Unlock()
			}
			return s.finish(op, from, target, model.ResultCancelled), ctx.Err()

		case dt := <-frames:
			s.mu.Lock()
			if s.current != op {
				s.mu.Unlock()
				return s.finish(op, from, target, model.ResultCancelled), nil
			}
			done := s.machine.Tick(dt)
			if done {
				s.current = nil
			}
			s.unlockAndPublish()
			if done {
				return s.finish(op, from, target, result), nil
			}
		}
	}
}

func (s *State) finish(op *operation, from, target model.StateLabel, result model.Result) model.Result {
	elapsed := time.Since(op.started)
	s.metrics.observeTransition(s.name, from, target, result, elapsed)
	s.logger.Debug("transition finished",
		"op", op.id, "from", from, "to", target, "result", result, "elapsed", elapsed)
	return result
}

// interruptLocked cancels the in-flight operation and stops its tween
func (s *State) interruptLocked() {
	if s.current != nil {
		close(s.current.interrupted)
		s.current = nil
	}
	s.machine.Interrupt()
}

// unlockAndPublish stores the snapshot, releases s.mu and notifies the host
func (s *State) unlockAndPublish() {
	snap := s.machine.Snapshot()
	s.snapshot.Store(&snap)
	callback := s.onUpdate
	s.mu.Unlock()

	if callback != nil {
		callback(snap)
	}
}
