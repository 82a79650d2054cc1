package hunt

import (
	"context"
	"log/slog"
)

// Source produces the deferred outcome of each step. Tasks settle after the
// step's latency on the source's clock; randomized steps take exactly one
// draw from the source's Rand when they settle.
type Source struct {
	catalog *Catalog
	clock   Clock
	rand    Rand
	logger  *slog.Logger
}

// NewSource builds a step source. A nil clock waits on wall time, a nil rand is time-seeded.
func NewSource(catalog *Catalog, clock Clock, rnd Rand, logger *slog.Logger) *Source {
	if clock == nil {
		clock = RealClock{}
	}
	if rnd == nil {
		rnd = NewRand(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		catalog: catalog,
		clock:   clock,
		rand:    rnd,
		logger:  logger,
	}
}

func (s *Source) Catalog() *Catalog {
	return s.catalog
}

func (s *Source) InitialClue(ctx context.Context) *Task {
	return s.Begin(ctx, StepInitialClue, "")
}

func (s *Source) TalkToElder(ctx context.Context) *Task {
	return s.Begin(ctx, StepTalkToElder, "")
}

// DecodeScript rejects when clue is empty
func (s *Source) DecodeScript(ctx context.Context, clue string) *Task {
	return s.Begin(ctx, StepDecodeScript, clue)
}

func (s *Source) ExplorePassage(ctx context.Context) *Task {
	return s.Begin(ctx, StepExplorePassage, "")
}

func (s *Source) SearchTemple(ctx context.Context, location string) *Task {
	return s.Begin(ctx, StepSearchTemple, location)
}

func (s *Source) OpenBox(ctx context.Context) *Task {
	return s.Begin(ctx, StepOpenBox, "")
}

// Begin starts the step identified by id with the given input and returns its task.
// The task settles with ctx's error if ctx ends first.
func (s *Source) Begin(ctx context.Context, id StepID, input string) *Task {
	task := newTask()
	spec, ok := s.catalog.Step(id)
	if !ok {
		task.settle(StepResult{StepIndex: id.Index(), Step: id, Text: "unknown step " + string(id)}, nil)
		return task
	}

	timer := s.clock.After(spec.Latency)
	go func() {
		select {
		case <-timer:
			res := s.resolve(spec, input)
			s.logger.Debug("Step settled", "step", id, "succeeded", res.Succeeded)
			task.settle(res, nil)
		case <-ctx.Done():
			task.settle(StepResult{}, ctx.Err())
		}
	}()
	return task
}

func (s *Source) resolve(spec StepSpec, input string) StepResult {
	res := StepResult{StepIndex: spec.ID.Index(), Step: spec.ID}

	switch spec.Policy {
	case PolicyRequireInput:
		if input == "" {
			res.Text = spec.Failure
			return res
		}
	case PolicyRandomBinary:
		if s.rand.Float64() < SearchFailBelow {
			res.Text = spec.Failure
			return res
		}
	case PolicyRandomTernary:
		r := s.rand.Float64()
		switch {
		case r < PassageFailBelow:
			res.Text = spec.Failure
			res.Wounded = true
			return res
		case r < PassageCostBelow:
			res.Text = spec.Cost
			res.Succeeded = true
			res.Wounded = true
			return res
		}
	}

	res.Text = spec.Success
	res.Succeeded = true
	return res
}
