package script

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	"github.com/ytget/anchorswipe/internal/model"
	"github.com/ytget/anchorswipe/internal/swipe"
)

const pollInterval = time.Millisecond

// Record is the snapshot taken after a step
type Record struct {
	Index    int
	Step     string
	Snapshot model.Snapshot
}

// Outcome is the result of a transition started by a step
type Outcome struct {
	Index  int
	Step   string
	Result model.Result
	Err    error
}

// Report collects everything a replay produced
type Report struct {
	Records  []Record
	Outcomes []Outcome
	Final    model.Snapshot
}

// Outcome returns the outcome of the transition started at step index
func (r *Report) Outcome(index int) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Index == index {
			return o, true
		}
	}
	return Outcome{}, false
}

type runner struct {
	state   *swipe.State
	clock   *swipe.ManualClock
	frame   time.Duration
	pending map[int]Step
	results chan Outcome
	report  *Report
}

// Run replays the script on a manual clock. Options are applied after the
// script's own, so callers may add a logger or metrics. Transitions still
// running when the script ends are cancelled.
func Run(ctx context.Context, sc *Script, extra ...swipe.Option) (*Report, error) {
	anchors, err := sc.AnchorSet()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	initial := sc.Initial
	if initial.IsZero() {
		initial = model.StateClosed
	}

	clock := swipe.NewManualClock()
	opts := []swipe.Option{
		swipe.WithName("script"),
		swipe.WithClock(clock),
		swipe.WithConfirmStateChange(func(target model.StateLabel) bool {
			return !slices.Contains(sc.Veto, target)
		}),
	}
	if sc.Profile != nil {
		opts = append(opts, sc.Profile.Options()...)
	}
	opts = append(opts, extra...)

	state, err := swipe.NewState(initial, anchors, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	frame := swipe.DefaultFrameInterval
	if sc.FrameMS > 0 {
		frame = time.Duration(sc.FrameMS) * time.Millisecond
	}

	r := &runner{
		state:   state,
		clock:   clock,
		frame:   frame,
		pending: make(map[int]Step),
		results: make(chan Outcome, len(sc.Steps)),
		report:  &Report{},
	}

	for i, step := range sc.Steps {
		if err := r.step(ctx, i, step); err != nil {
			state.Dispose()
			return nil, err
		}
		r.report.Records = append(r.report.Records, Record{Index: i, Step: step.String(), Snapshot: state.Snapshot()})
	}

	r.report.Final = state.Snapshot()
	state.Dispose()
	if err := r.drain(ctx); err != nil {
		return nil, err
	}

	sort.Slice(r.report.Outcomes, func(i, j int) bool {
		return r.report.Outcomes[i].Index < r.report.Outcomes[j].Index
	})
	return r.report, nil
}

func (r *runner) step(ctx context.Context, i int, step Step) error {
	switch {
	case step.Drag != nil:
		r.state.Drag(*step.Drag)
		return r.drain(ctx)

	case step.Release != nil:
		velocity := *step.Release
		return r.start(ctx, i, step, func() (model.Result, error) {
			return r.state.Release(ctx, velocity)
		})

	case step.Open:
		return r.start(ctx, i, step, func() (model.Result, error) { return r.state.Open(ctx) })

	case step.Close:
		return r.start(ctx, i, step, func() (model.Result, error) { return r.state.Close(ctx) })

	case step.Animate != "":
		return r.start(ctx, i, step, func() (model.Result, error) { return r.state.AnimateTo(ctx, step.Animate) })

	case step.Snap != "":
		result, err := r.state.SnapTo(ctx, step.Snap)
		r.report.Outcomes = append(r.report.Outcomes, Outcome{Index: i, Step: step.String(), Result: result, Err: err})
		return r.drain(ctx)

	case step.Frames > 0:
		for n := 0; n < step.Frames; n++ {
			r.clock.Step(r.frame)
		}
		return r.settle(ctx)

	case step.Reanchor > 0:
		anchors, err := model.NewDrawerAnchors(step.Reanchor)
		if err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrInvalidScript, i, err)
		}
		if err := r.state.Reanchor(anchors); err != nil {
			return err
		}
		return r.drain(ctx)
	}
	return fmt.Errorf("%w: step %d has no action", ErrInvalidScript, i)
}

// start launches a suspending transition and returns once it has either
// finished or is the only one waiting for frames
func (r *runner) start(ctx context.Context, i int, step Step, fn func() (model.Result, error)) error {
	r.pending[i] = step
	go func() {
		result, err := fn()
		r.results <- Outcome{Index: i, Step: step.String(), Result: result, Err: err}
	}()

	for {
		r.collect()
		if _, running := r.pending[i]; !running {
			return nil
		}
		if len(r.pending) == 1 && r.clock.Subscribers() == 1 {
			return nil
		}
		if err := sleep(ctx); err != nil {
			return err
		}
	}
}

// settle waits until a running transition either finished or is idle on
// the clock again
func (r *runner) settle(ctx context.Context) error {
	for {
		r.collect()
		if len(r.pending) == 0 {
			return nil
		}
		if len(r.pending) == 1 && r.clock.Subscribers() == 1 && r.state.Snapshot().IsAnimationRunning {
			return nil
		}
		if err := sleep(ctx); err != nil {
			return err
		}
	}
}

// drain waits until every started transition has returned
func (r *runner) drain(ctx context.Context) error {
	for {
		r.collect()
		if len(r.pending) == 0 {
			return nil
		}
		if err := sleep(ctx); err != nil {
			return err
		}
	}
}

func (r *runner) collect() {
	for {
		select {
		case o := <-r.results:
			delete(r.pending, o.Index)
			r.report.Outcomes = append(r.report.Outcomes, o)
		default:
			return
		}
	}
}

func sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(pollInterval):
		return nil
	}
}

// WriteText prints the report one line per step and outcome
func (r *Report) WriteText(w io.Writer) error {
	for _, rec := range r.Records {
		s := rec.Snapshot
		if _, err := fmt.Fprintf(w, "%3d %-16s offset=%9.2f current=%-10s target=%-10s animating=%t\n",
			rec.Index, rec.Step, s.Offset, s.CurrentValue, s.TargetValue, s.IsAnimationRunning); err != nil {
			return err
		}
	}
	for _, o := range r.Outcomes {
		line := fmt.Sprintf("%3d %-16s -> %s", o.Index, o.Step, o.Result)
		if o.Err != nil {
			line += fmt.Sprintf(" (%v)", o.Err)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "final offset=%.2f current=%s\n", r.Final.Offset, r.Final.CurrentValue)
	return err
}
