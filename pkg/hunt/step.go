package hunt

import (
	"errors"
	"fmt"
)

// StepID names one beat of the hunt
type StepID string

const (
	StepInitialClue    StepID = "initial_clue"
	StepTalkToElder    StepID = "talk_to_elder"
	StepDecodeScript   StepID = "decode_script"
	StepExplorePassage StepID = "explore_passage"
	StepSearchTemple   StepID = "search_temple"
	StepOpenBox        StepID = "open_box"
)

// StepOrder is the fixed order in which a run visits the steps.
var StepOrder = []StepID{
	StepInitialClue,
	StepTalkToElder,
	StepDecodeScript,
	StepExplorePassage,
	StepSearchTemple,
	StepOpenBox,
}

// StepCount is the number of steps in a complete run
const StepCount = 6

// Index returns the position of the step in StepOrder, or -1 if unknown
func (id StepID) Index() int {
	for i, s := range StepOrder {
		if s == id {
			return i
		}
	}
	return -1
}

// Policy decides how a step's deferred outcome is resolved
type Policy string

const (
	// PolicyAlwaysSucceed always resolves with the success text
	PolicyAlwaysSucceed Policy = "always_succeed"
	// PolicyRequireInput fails when the step's input is empty
	PolicyRequireInput Policy = "require_input"
	// PolicyRandomBinary fails when the draw is below SearchFailBelow
	PolicyRandomBinary Policy = "random_binary"
	// PolicyRandomTernary fails below PassageFailBelow, succeeds at a cost below PassageCostBelow
	PolicyRandomTernary Policy = "random_ternary"
)

// Valid reports whether p is a known policy
func (p Policy) Valid() bool {
	switch p {
	case PolicyAlwaysSucceed, PolicyRequireInput, PolicyRandomBinary, PolicyRandomTernary:
		return true
	}
	return false
}

// Draw thresholds. Bands are half-open: a draw equal to a threshold falls in the upper band.
const (
	SearchFailBelow  = 0.5
	PassageFailBelow = 0.3
	PassageCostBelow = 0.6
)

// StepResult is the settled outcome of one step invocation.
type StepResult struct {
	StepIndex int    `json:"step_index"`
	Step      StepID `json:"step"`
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
	// Wounded is set when the outcome costs the hero some HP
	Wounded bool `json:"wounded,omitempty"`
}

// Entry is one line of the narrative record
type Entry struct {
	StepIndex int    `json:"step_index"`
	Text      string `json:"text"`
}

var (
	ErrRunInProgress  = errors.New("a run is already in progress")
	ErrSuperseded     = errors.New("run superseded by a restart")
	ErrOutOfOrder     = errors.New("record entry out of step order")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// StepFailure is returned when a step rejects. It ends the run.
type StepFailure struct {
	Step      StepID
	StepIndex int
	Reason    string
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("step %s failed: %s", e.Step, e.Reason)
}
