package hunt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// StatusSink receives human-readable status lines
type StatusSink interface {
	SetStatus(status string)
}

// RunSink observes a run: status changes and each step as it completes
type RunSink interface {
	StatusSink
	PlaceStep(res StepResult)
}

type nopSink struct{}

func (nopSink) SetStatus(string)     {}
func (nopSink) PlaceStep(StepResult) {}

// Runner drives the steps of a hunt in order. Only one run is live at a
// time; a live run can be superseded, after which it publishes nothing.
type Runner struct {
	source *Source
	logger *slog.Logger

	mu     sync.Mutex
	gen    uint64
	live   bool
	cancel context.CancelFunc
}

func NewRunner(source *Source, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{source: source, logger: logger}
}

// InFlight reports whether a run is live
func (r *Runner) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// Supersede invalidates the live run, if any. The superseded run stops at
// its next resumption point and returns ErrSuperseded.
func (r *Runner) Supersede() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.live {
		return false
	}
	r.gen++
	r.live = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.logger.Info("Run superseded", "generation", r.gen)
	return true
}

// Run executes every step against sess, stopping at the first failure. It
// returns a *StepFailure when a step rejects, ErrRunInProgress when another
// run is live, and ErrSuperseded when a restart took over.
func (r *Runner) Run(ctx context.Context, sess *Session, sink RunSink) error {
	if sink == nil {
		sink = nopSink{}
	}

	r.mu.Lock()
	if r.live {
		r.mu.Unlock()
		return ErrRunInProgress
	}
	r.gen++
	gen := r.gen
	r.live = true
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	log := r.logger.With("run_id", sess.ID.String(), "generation", gen)
	defer r.finish(gen, cancel, sess)

	sess.beginRun()
	log.Info("Run started")

	catalog := r.source.Catalog()
	var clue, location string

	for _, id := range StepOrder {
		spec, ok := catalog.Step(id)
		if !ok {
			return fmt.Errorf("%w: missing step %s", ErrInvalidCatalog, id)
		}

		if !r.publish(gen, func() {
			sess.SetStatus(spec.Label)
			sink.SetStatus(spec.Label)
		}) {
			return ErrSuperseded
		}
		sess.markAttempted(id)
		log.Debug("Step started", "step", id)

		var task *Task
		switch id {
		case StepInitialClue:
			task = r.source.InitialClue(ctx)
		case StepTalkToElder:
			task = r.source.TalkToElder(ctx)
		case StepDecodeScript:
			task = r.source.DecodeScript(ctx, clue)
		case StepExplorePassage:
			task = r.source.ExplorePassage(ctx)
		case StepSearchTemple:
			task = r.source.SearchTemple(ctx, location)
		case StepOpenBox:
			task = r.source.OpenBox(ctx)
		}

		res, err := task.Await(ctx)
		if err != nil {
			if r.superseded(gen) {
				return ErrSuperseded
			}
			log.Warn("Run interrupted", "step", id, "error", err)
			return fmt.Errorf("step %s: %w", id, err)
		}

		if !res.Succeeded {
			failure := &StepFailure{Step: id, StepIndex: res.StepIndex, Reason: res.Text}
			if !r.publish(gen, func() {
				status := catalog.FailureStatus(res.Text)
				sess.SetStatus(status)
				sink.SetStatus(status)
				if res.Wounded {
					r.wound(log, sess)
				}
			}) {
				return ErrSuperseded
			}
			log.Warn("Run failed", "step", id, "reason", res.Text)
			return failure
		}

		var recordErr error
		if !r.publish(gen, func() {
			if recordErr = sess.Record.Record(res.StepIndex, res.Text); recordErr != nil {
				return
			}
			if res.Wounded {
				r.wound(log, sess)
			}
			sink.PlaceStep(res)
		}) {
			return ErrSuperseded
		}
		if recordErr != nil {
			return recordErr
		}

		switch id {
		case StepInitialClue:
			clue = res.Text
		case StepDecodeScript:
			location = res.Text
		}
	}

	log.Info("Run completed", "steps", sess.Record.Len())
	return nil
}

// publish runs fn only if gen is still the live generation
func (r *Runner) publish(gen uint64, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen || !r.live {
		return false
	}
	fn()
	return true
}

func (r *Runner) superseded(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen != gen
}

func (r *Runner) finish(gen uint64, cancel context.CancelFunc, sess *Session) {
	cancel()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.live = false
	r.cancel = nil
	sess.settle()
}

func (r *Runner) wound(log *slog.Logger, sess *Session) {
	if err := sess.woundHero(); err != nil {
		log.Warn("Failed to wound hero", "error", err)
		return
	}
	hp, maxHP := sess.HeroHP()
	log.Debug("Hero wounded", "hp", hp, "max_hp", maxHP)
}

// IsStepFailure extracts the failure that ended a run
func IsStepFailure(err error) (*StepFailure, bool) {
	var failure *StepFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}
