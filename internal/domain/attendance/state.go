package attendance

// State is the employee's clock status for one day, always derived from the
// record on demand and never stored on its own.
type State string

const (
	StateAbsent  State = "ABSENT"
	StatePresent State = "PRESENT"
	StateOnBreak State = "ON_BREAK"
	StateDone    State = "DONE"
)

// Action is one of the four clock actions an employee can submit.
type Action string

const (
	ActionCheckIn    Action = "check_in"
	ActionBreakStart Action = "break_start"
	ActionBreakEnd   Action = "break_end"
	ActionCheckOut   Action = "check_out"
)

// IsValid reports whether a is one of the known clock actions.
func (a Action) IsValid() bool {
	switch a {
	case ActionCheckIn, ActionBreakStart, ActionBreakEnd, ActionCheckOut:
		return true
	}
	return false
}

// transitions is the closed transition table. A (state, action) pair absent
// from this table is illegal; DONE has no entries at all, which makes it
// terminal.
var transitions = map[State]map[Action]State{
	StateAbsent: {
		ActionCheckIn: StatePresent,
	},
	StatePresent: {
		ActionBreakStart: StateOnBreak,
		ActionCheckOut:   StateDone,
	},
	StateOnBreak: {
		ActionBreakEnd: StatePresent,
	},
}

// NextState looks up the transition table. ok is false when the action is not
// legal from the given state.
func NextState(s State, a Action) (next State, ok bool) {
	next, ok = transitions[s][a]
	return next, ok
}

// DeriveState computes the clock state from a day's record. A nil record, or
// a record without a check-in, means the employee has not clocked in yet.
func DeriveState(att *Attendance) State {
	switch {
	case att == nil || att.CheckInTime == nil:
		return StateAbsent
	case att.CheckOutTime != nil:
		return StateDone
	case att.BreakStartTime != nil && att.BreakEndTime == nil:
		return StateOnBreak
	default:
		return StatePresent
	}
}
