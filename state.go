package recmock

import "github.com/felixgeelhaar/statekit"

// Phase is the lifecycle phase of a mock.
type Phase string

const (
	PhaseRecord Phase = "record"
	PhaseReplay Phase = "replay"
)

const (
	stateRecord statekit.StateID = statekit.StateID(PhaseRecord)
	stateReplay statekit.StateID = statekit.StateID(PhaseReplay)

	eventReplay statekit.EventType = "REPLAY"
	eventReset  statekit.EventType = "RESET"
)

// transitions counts phase changes of one mock.
type transitions struct {
	replays int
	resets  int
}

func countReplay(ctx **transitions, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).replays++
}

func countReset(ctx **transitions, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).resets++
}

// newPhaseMachine builds the record/replay chart. A mock starts in record,
// moves to replay on REPLAY and back to record only on RESET.
func newPhaseMachine() (*statekit.MachineConfig[*transitions], error) {
	return statekit.NewMachine[*transitions]("mock").
		WithInitial(stateRecord).
		WithContext(&transitions{}).
		WithAction("countReplay", countReplay).
		WithAction("countReset", countReset).
		State(stateRecord).
			On(eventReplay).Target(stateReplay).Do("countReplay").
			Done().
		State(stateReplay).
			On(eventReset).Target(stateRecord).Do("countReset").
			Done().
		Build()
}

// mockState is the phase controller of a mock. It is not safe for
// concurrent use; Control serializes access.
type mockState struct {
	interp *statekit.Interpreter[*transitions]
	counts *transitions
}

func newMockState() *mockState {
	machine, err := newPhaseMachine()
	if err != nil {
		panic("recmock: invalid phase machine: " + err.Error())
	}
	counts := &transitions{}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **transitions) {
		*c = counts
	})
	interp.Start()
	return &mockState{interp: interp, counts: counts}
}

func (s *mockState) phase() Phase {
	if s.interp.Matches(stateReplay) {
		return PhaseReplay
	}
	return PhaseRecord
}

// replay moves to the replay phase. It reports false when already there.
func (s *mockState) replay() bool {
	if s.phase() == PhaseReplay {
		return false
	}
	s.interp.Send(statekit.Event{Type: eventReplay})
	return true
}

// reset moves back to the record phase. It reports false when already there.
func (s *mockState) reset() bool {
	if s.phase() == PhaseRecord {
		return false
	}
	s.interp.Send(statekit.Event{Type: eventReset})
	return true
}

// require returns an IllegalStateError when the mock is not in want.
func (s *mockState) require(want Phase, op string) error {
	if got := s.phase(); got != want {
		return illegalState("%s is not allowed in the %s phase", op, got)
	}
	return nil
}
