package hunt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := NewSession(DefaultArena)
	require.NoError(t, err)
	return sess
}

func TestRunner_AllStepsSucceed(t *testing.T) {
	catalog := fixedCatalog()
	runner := NewRunner(NewSource(catalog, InstantClock{}, nil, nil), nil)
	sess := newTestSession(t)
	sink := &recordingSink{}

	err := runner.Run(context.Background(), sess, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"T0", "T1", "T2", "T3", "T4", "T5"}, sess.Record.Texts())
	for i, e := range sess.Record.Entries() {
		assert.Equal(t, i, e.StepIndex)
	}
	assert.True(t, sess.RestartVisible())
	assert.False(t, runner.InFlight())

	var labels []string
	for _, s := range catalog.Steps {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, labels, sink.Statuses())
	assert.Equal(t, labels[len(labels)-1], sess.Status(), "status stays on the last pending label")

	placed := sink.Placed()
	require.Len(t, placed, StepCount)
	for i, res := range placed {
		assert.Equal(t, i, res.StepIndex)
		assert.True(t, res.Succeeded)
	}
	assert.Equal(t, StepOrder, sess.Attempted())
}

func TestRunner_SearchTempleFailure(t *testing.T) {
	catalog := EnglishCatalog()
	// passage draw, then search draw
	rnd := NewSequenceRand(0.9, 0.1)
	runner := NewRunner(NewSource(catalog, InstantClock{}, rnd, nil), nil)
	sess := newTestSession(t)
	sink := &recordingSink{}

	err := runner.Run(context.Background(), sess, sink)
	require.Error(t, err)

	failure, ok := IsStepFailure(err)
	require.True(t, ok)
	assert.Equal(t, StepSearchTemple, failure.Step)
	assert.Equal(t, 4, failure.StepIndex)

	guardian, _ := catalog.Step(StepSearchTemple)
	assert.Equal(t, guardian.Failure, failure.Reason)
	assert.Equal(t, "task failed: "+guardian.Failure, sess.Status())
	assert.Equal(t, "task failed: Uh oh! Ran into the temple guardian!", sess.Status())

	entries := sess.Record.Entries()
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, i, e.StepIndex)
	}
	assert.Len(t, sink.Placed(), 4)
	assert.True(t, sess.RestartVisible())
	assert.NotContains(t, sess.Attempted(), StepOpenBox)
	assert.Equal(t, 2, rnd.Used())

	statuses := sink.Statuses()
	assert.Equal(t, sess.Status(), statuses[len(statuses)-1])
}

func TestRunner_PassageTrapWoundsHero(t *testing.T) {
	runner := NewRunner(NewSource(EnglishCatalog(), InstantClock{}, NewSequenceRand(0.1), nil), nil)
	sess := newTestSession(t)

	err := runner.Run(context.Background(), sess, nil)
	failure, ok := IsStepFailure(err)
	require.True(t, ok)
	assert.Equal(t, StepExplorePassage, failure.Step)
	assert.Equal(t, 3, sess.Record.Len())

	hp, maxHP := sess.HeroHP()
	assert.Equal(t, HeroMaxHP, maxHP)
	assert.Equal(t, HeroMaxHP-HeroWoundDamage, hp)
}

func TestRunner_PassageCostWoundsHeroAndContinues(t *testing.T) {
	runner := NewRunner(NewSource(EnglishCatalog(), InstantClock{}, NewSequenceRand(0.3, 0.5), nil), nil)
	sess := newTestSession(t)

	require.NoError(t, runner.Run(context.Background(), sess, nil))
	assert.Equal(t, StepCount, sess.Record.Len())

	passage, _ := EnglishCatalog().Step(StepExplorePassage)
	assert.Equal(t, passage.Cost, sess.Record.Texts()[3])

	hp, _ := sess.HeroHP()
	assert.Equal(t, HeroMaxHP-HeroWoundDamage, hp)
}

func TestRunner_StepsRunSequentially(t *testing.T) {
	catalog := fixedCatalog()
	clock := newGatedClock()
	runner := NewRunner(NewSource(catalog, clock, nil, nil), nil)
	sess := newTestSession(t)

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), sess, nil)
	}()

	for i, spec := range catalog.Steps {
		timer := clock.next(t)
		assert.Equal(t, spec.Latency, timer.d, "step %d latency", i)
		assert.Equal(t, i, sess.Record.Len(), "step %d must start after %d recorded steps", i, i)
		clock.expectIdle(t)
		timer.fire <- time.Now()
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish")
	}
	assert.Equal(t, StepCount, sess.Record.Len())
}

func TestRunner_SingleFlight(t *testing.T) {
	clock := newGatedClock()
	runner := NewRunner(NewSource(fixedCatalog(), clock, nil, nil), nil)
	sess := newTestSession(t)

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), sess, nil)
	}()

	first := clock.next(t)
	assert.True(t, runner.InFlight())
	assert.False(t, sess.RestartVisible(), "restart is hidden while a run is live")

	err := runner.Run(context.Background(), newTestSession(t), nil)
	assert.True(t, errors.Is(err, ErrRunInProgress))

	first.fire <- time.Now()
	for i := 1; i < StepCount; i++ {
		clock.next(t).fire <- time.Now()
	}
	require.NoError(t, <-done)
	assert.True(t, sess.RestartVisible())
}

func TestRunner_SupersededRunStopsPublishing(t *testing.T) {
	clock := newGatedClock()
	runner := NewRunner(NewSource(fixedCatalog(), clock, nil, nil), nil)

	oldSess := newTestSession(t)
	oldSink := &recordingSink{}
	oldDone := make(chan error, 1)
	go func() {
		oldDone <- runner.Run(context.Background(), oldSess, oldSink)
	}()
	stale := clock.next(t)

	assert.True(t, runner.Supersede())
	assert.False(t, runner.Supersede(), "nothing left to supersede")

	select {
	case err := <-oldDone:
		assert.True(t, errors.Is(err, ErrSuperseded))
	case <-time.After(2 * time.Second):
		t.Fatal("superseded run did not return")
	}

	newSess, err := oldSess.Restart()
	require.NoError(t, err)
	newSink := &recordingSink{}
	newDone := make(chan error, 1)
	go func() {
		newDone <- runner.Run(context.Background(), newSess, newSink)
	}()

	// the stale timer firing late must not affect anything
	stale.fire <- time.Now()
	for i := 0; i < StepCount; i++ {
		clock.next(t).fire <- time.Now()
	}
	require.NoError(t, <-newDone)

	assert.Len(t, oldSink.Statuses(), 1)
	assert.Empty(t, oldSink.Placed())
	assert.Equal(t, 0, oldSess.Record.Len())
	assert.False(t, oldSess.RestartVisible())

	assert.Equal(t, StepCount, newSess.Record.Len())
	assert.Len(t, newSink.Placed(), StepCount)
	assert.True(t, newSess.RestartVisible())
}

func TestRunner_ContextCancelled(t *testing.T) {
	clock := newGatedClock()
	runner := NewRunner(NewSource(fixedCatalog(), clock, nil, nil), nil)
	sess := newTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, sess, nil)
	}()
	clock.next(t)
	cancel()

	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))
	_, isFailure := IsStepFailure(err)
	assert.False(t, isFailure)
	assert.False(t, runner.InFlight())
	assert.True(t, sess.RestartVisible())
}

func TestStepFailure_Error(t *testing.T) {
	err := error(&StepFailure{Step: StepDecodeScript, StepIndex: 2, Reason: "No clue to decode!"})
	assert.Equal(t, "step decode_script failed: No clue to decode!", err.Error())

	wrapped := errors.Join(errors.New("outer"), err)
	failure, ok := IsStepFailure(wrapped)
	require.True(t, ok)
	assert.Equal(t, 2, failure.StepIndex)
}
