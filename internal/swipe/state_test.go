package swipe

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/anchorswipe/internal/model"
)

type outcome struct {
	result model.Result
	err    error
}

func newTestState(t *testing.T, opts ...Option) (*State, *ManualClock) {
	t.Helper()

	anchors, err := model.NewDrawerAnchors(300)
	require.NoError(t, err)

	clock := NewManualClock()
	opts = append([]Option{WithClock(clock), WithLogger(slogt.New(t)), WithName("drawer")}, opts...)
	state, err := NewState(model.StateClosed, anchors, opts...)
	require.NoError(t, err)
	t.Cleanup(state.Dispose)

	return state, clock
}

func async(fn func() (model.Result, error)) <-chan outcome {
	ch := make(chan outcome, 1)
	go func() {
		result, err := fn()
		ch <- outcome{result, err}
	}()
	return ch
}

func waitSubscribers(t *testing.T, clock *ManualClock, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return clock.Subscribers() == n },
		time.Second, time.Millisecond, "expected %d animation subscribers", n)
}

func await(t *testing.T, ch <-chan outcome) outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("transition did not finish")
		return outcome{}
	}
}

func assertSettled(t *testing.T, state *State, label model.StateLabel) {
	t.Helper()

	snap := state.Snapshot()
	offset, ok := state.Anchors().Offset(label)
	require.True(t, ok)
	assert.Equal(t, label, snap.CurrentValue)
	assert.Equal(t, label, snap.TargetValue)
	assert.Equal(t, offset, snap.Offset)
	assert.False(t, snap.IsAnimationRunning)
}

func TestNewState_Validation(t *testing.T) {
	t.Parallel()

	anchors, err := model.NewDrawerAnchors(300)
	require.NoError(t, err)

	_, err = NewState("Expanded", anchors)
	require.ErrorIs(t, err, ErrUnknownLabel)

	_, err = NewState(model.StateClosed, nil)
	require.ErrorIs(t, err, model.ErrTooFewAnchors)
}

func TestState_OpenCompletes(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	done := async(func() (model.Result, error) { return state.Open(context.Background()) })

	waitSubscribers(t, clock, 1)
	snap := state.Snapshot()
	assert.True(t, snap.IsAnimationRunning)
	assert.Equal(t, model.StateOpen, snap.TargetValue)
	assert.Equal(t, model.StateClosed, snap.CurrentValue)

	clock.Advance(DefaultAnimationDuration, DefaultFrameInterval)

	out := await(t, done)
	require.NoError(t, out.err)
	assert.Equal(t, model.ResultCompleted, out.result)
	assertSettled(t, state, model.StateOpen)
	assert.Equal(t, model.StateOpen, state.Saved())
}

func TestState_ReleaseSettles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		drag     float64
		velocity float64
		expected model.StateLabel
	}{
		{"one third stays closed", -100, 0, model.StateClosed},
		{"two thirds opens", -200, 0, model.StateOpen},
		{"fling opens near closed", -50, -500, model.StateOpen},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			state, clock := newTestState(t)
			state.Drag(test.drag)
			assert.Equal(t, test.drag, state.Snapshot().Offset)

			done := async(func() (model.Result, error) {
				return state.Release(context.Background(), test.velocity)
			})
			waitSubscribers(t, clock, 1)
			clock.Advance(DefaultAnimationDuration, DefaultFrameInterval)

			out := await(t, done)
			require.NoError(t, out.err)
			assert.Equal(t, model.ResultCompleted, out.result)
			assertSettled(t, state, test.expected)
		})
	}
}

func TestState_VelocityThresholdScalesWithDensity(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t, WithDensity(2))
	state.Drag(-50)

	// 500 px/s is below 400 dp/s at density 2
	done := async(func() (model.Result, error) { return state.Release(context.Background(), -500) })
	waitSubscribers(t, clock, 1)
	clock.Advance(DefaultAnimationDuration, DefaultFrameInterval)

	out := await(t, done)
	require.NoError(t, out.err)
	assertSettled(t, state, model.StateClosed)
}

func TestState_VetoRoundTrip(t *testing.T) {
	t.Parallel()

	var asked atomic.Int32
	state, clock := newTestState(t, WithConfirmStateChange(func(target model.StateLabel) bool {
		asked.Add(1)
		return false
	}))

	for i := 0; i < 3; i++ {
		state.Drag(-260)
		done := async(func() (model.Result, error) { return state.Release(context.Background(), 0) })
		waitSubscribers(t, clock, 1)
		clock.Advance(DefaultAnimationDuration, DefaultFrameInterval)

		out := await(t, done)
		require.NoError(t, out.err)
		assert.Equal(t, model.ResultVetoed, out.result)
		assertSettled(t, state, model.StateClosed)
	}
	assert.Equal(t, int32(3), asked.Load())
}

func TestState_VetoedOpenStaysPut(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t, WithConfirmStateChange(func(model.StateLabel) bool { return false }))

	out := await(t, async(func() (model.Result, error) { return state.Open(context.Background()) }))
	require.NoError(t, out.err)
	assert.Equal(t, model.ResultVetoed, out.result)
	assert.Equal(t, 0, clock.Subscribers(), "spring-back from the anchor needs no frames")
	assertSettled(t, state, model.StateClosed)
}

func TestState_SnapToIdempotent(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	var updates atomic.Int32
	state.SetUpdateCallback(func(model.Snapshot) { updates.Add(1) })

	before := state.Snapshot()
	result, err := state.SnapTo(context.Background(), model.StateClosed)
	require.NoError(t, err)
	assert.Equal(t, model.ResultCompleted, result)
	assert.Equal(t, before, state.Snapshot())
	assert.Equal(t, int32(0), updates.Load())
	assert.Equal(t, 0, clock.Subscribers())
}

func TestState_SnapToJumps(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)

	result, err := state.SnapTo(context.Background(), model.StateOpen)
	require.NoError(t, err)
	assert.Equal(t, model.ResultCompleted, result)
	assert.Equal(t, 0, clock.Subscribers())
	assertSettled(t, state, model.StateOpen)
}

func TestState_SnapToVetoed(t *testing.T) {
	t.Parallel()

	state, _ := newTestState(t, WithConfirmStateChange(func(target model.StateLabel) bool {
		return target != model.StateOpen
	}))

	state.Drag(-120)
	result, err := state.SnapTo(context.Background(), model.StateOpen)
	require.NoError(t, err)
	assert.Equal(t, model.ResultVetoed, result)
	assertSettled(t, state, model.StateClosed)
}

func TestState_DragInterruptsOpen(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	done := async(func() (model.Result, error) { return state.Open(context.Background()) })

	waitSubscribers(t, clock, 1)
	clock.Step(64 * time.Millisecond)
	mid := state.Snapshot().Offset
	require.Less(t, mid, 0.0)

	consumed := state.Drag(-20)

	out := await(t, done)
	require.NoError(t, out.err)
	assert.Equal(t, model.ResultCancelled, out.result)

	snap := state.Snapshot()
	assert.False(t, snap.IsAnimationRunning)
	assert.Equal(t, model.StateClosed, snap.CurrentValue)
	assert.InDelta(t, mid+consumed, snap.Offset, 1e-9)
	assert.GreaterOrEqual(t, snap.Offset, -300.0)
	assert.LessOrEqual(t, snap.Offset, 0.0)
}

func TestState_DragBeforeReleaseRuns(t *testing.T) {
	t.Parallel()

	var asked atomic.Int32
	state, clock := newTestState(t, WithConfirmStateChange(func(model.StateLabel) bool {
		asked.Add(1)
		return true
	}))

	state.Drag(-200)
	settle := state.BeginRelease(0)
	state.Drag(-30)

	result, err := settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ResultCancelled, result)
	assert.Equal(t, int32(0), asked.Load())
	assert.Zero(t, clock.Subscribers())

	snap := state.Snapshot()
	assert.Equal(t, -230.0, snap.Offset)
	assert.Equal(t, model.StateClosed, snap.CurrentValue)
	assert.Equal(t, model.StateOpen, snap.TargetValue, "the new drag is still running")

	state.Drag(10)
	assert.Equal(t, -220.0, state.Snapshot().Offset)
}

func TestState_DragNaNDoesNotWedge(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)

	state.Drag(-100)
	assert.Equal(t, 0.0, state.Drag(math.NaN()))
	assert.Equal(t, -100.0, state.Snapshot().Offset)

	done := async(func() (model.Result, error) { return state.Open(context.Background()) })
	waitSubscribers(t, clock, 1)
	clock.Advance(DefaultAnimationDuration, DefaultFrameInterval)

	out := await(t, done)
	require.NoError(t, out.err)
	assert.Equal(t, model.ResultCompleted, out.result)
	assertSettled(t, state, model.StateOpen)
}

func TestState_LastRequestWins(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	first := async(func() (model.Result, error) { return state.Open(context.Background()) })
	waitSubscribers(t, clock, 1)
	clock.Step(100 * time.Millisecond)

	second := async(func() (model.Result, error) { return state.Close(context.Background()) })

	out := await(t, first)
	require.NoError(t, out.err)
	assert.Equal(t, model.ResultCancelled, out.result)

	waitSubscribers(t, clock, 1)
	clock.Advance(DefaultAnimationDuration, DefaultFrameInterval)

	out = await(t, second)
	require.NoError(t, out.err)
	assert.Equal(t, model.ResultCompleted, out.result)
	assertSettled(t, state, model.StateClosed)
}

func TestState_CallerContextCancelled(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := async(func() (model.Result, error) { return state.Open(ctx) })

	waitSubscribers(t, clock, 1)
	clock.Step(50 * time.Millisecond)
	cancel()

	out := await(t, done)
	require.ErrorIs(t, out.err, context.Canceled)
	assert.Equal(t, model.ResultCancelled, out.result)

	snap := state.Snapshot()
	assert.False(t, snap.IsAnimationRunning)
	assert.Equal(t, model.StateClosed, snap.CurrentValue)
	assert.Equal(t, model.StateClosed, snap.TargetValue)
}

func TestState_DisposeMidAnimation(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	done := async(func() (model.Result, error) { return state.Open(context.Background()) })
	waitSubscribers(t, clock, 1)

	state.Dispose()

	out := await(t, done)
	require.NoError(t, out.err)
	assert.Equal(t, model.ResultCancelled, out.result)

	_, err := state.Close(context.Background())
	require.ErrorIs(t, err, ErrDisposed)
	_, err = state.Release(context.Background(), 0)
	require.ErrorIs(t, err, ErrDisposed)
	require.ErrorIs(t, state.Reanchor(state.Anchors()), ErrDisposed)
	assert.Equal(t, 0.0, state.Drag(-10))
}

func TestState_UnknownLabel(t *testing.T) {
	t.Parallel()

	state, _ := newTestState(t)
	before := state.Snapshot()

	_, err := state.AnimateTo(context.Background(), "Expanded")
	require.ErrorIs(t, err, ErrUnknownLabel)
	_, err = state.SnapTo(context.Background(), "Expanded")
	require.ErrorIs(t, err, ErrUnknownLabel)
	assert.Equal(t, before, state.Snapshot())
}

func TestState_ReanchorAfterResize(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	_, err := state.SnapTo(context.Background(), model.StateOpen)
	require.NoError(t, err)

	done := async(func() (model.Result, error) { return state.Close(context.Background()) })
	waitSubscribers(t, clock, 1)

	wider, err := model.NewDrawerAnchors(420)
	require.NoError(t, err)
	require.NoError(t, state.Reanchor(wider))

	out := await(t, done)
	assert.Equal(t, model.ResultCancelled, out.result)
	assertSettled(t, state, model.StateOpen)
	assert.Equal(t, -420.0, state.Snapshot().Offset)

	state.Drag(-50)
	assert.Equal(t, -420.0, state.Snapshot().Offset)
}

func TestState_UpdateCallbackSeesEveryFrame(t *testing.T) {
	t.Parallel()

	state, clock := newTestState(t)
	var frames atomic.Int32
	state.SetUpdateCallback(func(snap model.Snapshot) {
		frames.Add(1)
		assert.GreaterOrEqual(t, snap.Offset, -300.0)
		assert.LessOrEqual(t, snap.Offset, 0.0)
	})

	done := async(func() (model.Result, error) { return state.Open(context.Background()) })
	waitSubscribers(t, clock, 1)
	clock.Advance(DefaultAnimationDuration, DefaultFrameInterval)
	await(t, done)

	// start of the tween, 16 frames and the zero-length barrier frames
	assert.GreaterOrEqual(t, frames.Load(), int32(17))
}

func TestState_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	require.Error(t, err, "collectors can only be registered once")

	state, _ := newTestState(t, WithMetrics(metrics), WithConfirmStateChange(func(target model.StateLabel) bool {
		return target != model.StateOpen
	}))

	state.Drag(-10)
	state.Drag(-10)
	_, err = state.SnapTo(context.Background(), model.StateOpen)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.drags.WithLabelValues("drawer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.transitions.WithLabelValues("drawer", "Closed", "Open", "vetoed")))
}

func TestRestore(t *testing.T) {
	t.Parallel()

	anchors, err := model.NewDrawerAnchors(300)
	require.NoError(t, err)

	state, err := Restore(model.StateOpen, anchors, WithClock(NewManualClock()))
	require.NoError(t, err)
	assertSettled(t, state, model.StateOpen)

	state, err = Restore("Expanded", anchors, WithClock(NewManualClock()))
	require.NoError(t, err)
	assertSettled(t, state, model.StateClosed)

	sheet, err := model.NewAnchorSet(
		model.Anchor{Label: "Peek", Offset: -80},
		model.Anchor{Label: "Full", Offset: -600},
	)
	require.NoError(t, err)
	state, err = Restore("", sheet, WithClock(NewManualClock()))
	require.NoError(t, err)
	assertSettled(t, state, "Full")
}

func TestState_TickerClock(t *testing.T) {
	t.Parallel()

	anchors, err := model.NewDrawerAnchors(300)
	require.NoError(t, err)

	state, err := NewState(model.StateClosed, anchors,
		WithAnimation(40*time.Millisecond, Linear),
		WithClock(NewTickerClock(2*time.Millisecond)),
		WithLogger(slogt.New(t)))
	require.NoError(t, err)
	defer state.Dispose()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := state.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ResultCompleted, result)
	assertSettled(t, state, model.StateOpen)
}
