package hunt

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitStep(t *testing.T, task *Task) StepResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := task.Await(ctx)
	require.NoError(t, err)
	return res
}

func TestSource_AlwaysSucceedSteps(t *testing.T) {
	catalog := EnglishCatalog()
	src := NewSource(catalog, InstantClock{}, NewSequenceRand(), nil)
	ctx := context.Background()

	tests := []struct {
		step StepID
		task *Task
	}{
		{StepInitialClue, src.InitialClue(ctx)},
		{StepTalkToElder, src.TalkToElder(ctx)},
		{StepOpenBox, src.OpenBox(ctx)},
	}

	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			res := awaitStep(t, tt.task)
			spec, _ := catalog.Step(tt.step)
			assert.True(t, res.Succeeded)
			assert.Equal(t, spec.Success, res.Text)
			assert.Equal(t, tt.step.Index(), res.StepIndex)
			assert.False(t, res.Wounded)
		})
	}
}

func TestSource_DecodeScriptRejectsEmptyClue(t *testing.T) {
	catalog := EnglishCatalog()
	decode, _ := catalog.Step(StepDecodeScript)

	for _, draw := range []float64{0, 0.5, 0.999} {
		t.Run(fmt.Sprintf("draw_%v", draw), func(t *testing.T) {
			rnd := NewSequenceRand(draw)
			src := NewSource(catalog, InstantClock{}, rnd, nil)

			res := awaitStep(t, src.DecodeScript(context.Background(), ""))
			assert.False(t, res.Succeeded)
			assert.Equal(t, decode.Failure, res.Text)
			assert.Equal(t, "No clue to decode!", res.Text)
			assert.Equal(t, 0, rnd.Used(), "decode must not consume a draw")
		})
	}

	src := NewSource(catalog, InstantClock{}, nil, nil)
	res := awaitStep(t, src.DecodeScript(context.Background(), "a clue"))
	assert.True(t, res.Succeeded)
	assert.Equal(t, decode.Success, res.Text)
}

func TestSource_SearchTempleThreshold(t *testing.T) {
	catalog := EnglishCatalog()
	search, _ := catalog.Step(StepSearchTemple)

	tests := []struct {
		draw    float64
		success bool
	}{
		{0, false},
		{0.49999, false},
		{0.5, true},
		{0.999, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("draw_%v", tt.draw), func(t *testing.T) {
			src := NewSource(catalog, InstantClock{}, NewSequenceRand(tt.draw), nil)
			res := awaitStep(t, src.SearchTemple(context.Background(), "temple"))

			assert.Equal(t, tt.success, res.Succeeded)
			if tt.success {
				assert.Equal(t, search.Success, res.Text)
			} else {
				assert.Equal(t, search.Failure, res.Text)
			}
		})
	}
}

func TestSource_ExplorePassageBands(t *testing.T) {
	catalog := EnglishCatalog()
	passage, _ := catalog.Step(StepExplorePassage)

	tests := []struct {
		draw    float64
		text    string
		success bool
		wounded bool
	}{
		{0, passage.Failure, false, true},
		{0.29999, passage.Failure, false, true},
		{0.3, passage.Cost, true, true},
		{0.45, passage.Cost, true, true},
		{0.59999, passage.Cost, true, true},
		{0.6, passage.Success, true, false},
		{0.999, passage.Success, true, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("draw_%v", tt.draw), func(t *testing.T) {
			src := NewSource(catalog, InstantClock{}, NewSequenceRand(tt.draw), nil)
			res := awaitStep(t, src.ExplorePassage(context.Background()))

			assert.Equal(t, tt.text, res.Text)
			assert.Equal(t, tt.success, res.Succeeded)
			assert.Equal(t, tt.wounded, res.Wounded)
		})
	}
}

func TestSource_OneDrawPerRandomStep(t *testing.T) {
	rnd := NewSequenceRand(0.7, 0.2)
	src := NewSource(EnglishCatalog(), InstantClock{}, rnd, nil)
	ctx := context.Background()

	passage := awaitStep(t, src.ExplorePassage(ctx))
	assert.Equal(t, 1, rnd.Used())
	assert.True(t, passage.Succeeded)

	search := awaitStep(t, src.SearchTemple(ctx, "temple"))
	assert.Equal(t, 2, rnd.Used())
	assert.False(t, search.Succeeded, "search must use its own draw, not the passage's")
}

func TestSource_ForcedPolicy(t *testing.T) {
	catalog := EnglishCatalog().WithPolicy(PolicyAlwaysSucceed, StepSearchTemple)
	src := NewSource(catalog, InstantClock{}, NewSequenceRand(0), nil)

	res := awaitStep(t, src.SearchTemple(context.Background(), "temple"))
	assert.True(t, res.Succeeded)

	original, _ := EnglishCatalog().Step(StepSearchTemple)
	assert.Equal(t, PolicyRandomBinary, original.Policy, "WithPolicy must not modify the source catalog")
}

func TestSource_UsesStepLatency(t *testing.T) {
	clock := newGatedClock()
	src := NewSource(EnglishCatalog(), clock, nil, nil)

	task := src.TalkToElder(context.Background())
	timer := clock.next(t)
	assert.Equal(t, 1200*time.Millisecond, timer.d)

	select {
	case <-task.Done():
		t.Fatal("task settled before its timer fired")
	default:
	}

	timer.fire <- time.Now()
	res := awaitStep(t, task)
	assert.True(t, res.Succeeded)
}

func TestSource_CancelledTask(t *testing.T) {
	clock := newGatedClock()
	src := NewSource(EnglishCatalog(), clock, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	task := src.OpenBox(ctx)
	clock.next(t)
	cancel()

	<-task.Done()
	_, err := task.Await(context.Background())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClockForSpeed(t *testing.T) {
	assert.IsType(t, InstantClock{}, ClockForSpeed(0))
	assert.IsType(t, RealClock{}, ClockForSpeed(1))
	assert.Equal(t, ScaledClock{Base: RealClock{}, Factor: 0.5}, ClockForSpeed(0.5))
}
