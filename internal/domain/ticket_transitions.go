package domain

// Operation names a lifecycle transition.
type Operation string

const (
	OpSubmit     Operation = "submit"
	OpAssign     Operation = "assign"
	OpStartWork  Operation = "start_work"
	OpAwaitReply Operation = "await_reply"
	OpResolve    Operation = "resolve"
	OpClose      Operation = "close"
	OpCancel     Operation = "cancel"
	OpReopen     Operation = "reopen"
)

type transitionRule struct {
	from   []TicketState
	target TicketState
}

var transitionTable = map[Operation]transitionRule{
	OpSubmit: {from: []TicketState{StateDraft}, target: StatePending},
	OpAssign: {
		from:   []TicketState{StateDraft, StatePending, StateAssigned, StateInProgress, StateAwaitingReply, StateResolved},
		target: StateAssigned,
	},
	OpStartWork:  {from: []TicketState{StateAssigned, StatePending}, target: StateInProgress},
	OpAwaitReply: {from: []TicketState{StateInProgress, StateAssigned}, target: StateAwaitingReply},
	OpResolve:    {from: []TicketState{StateInProgress, StateAwaitingReply, StateAssigned}, target: StateResolved},
	OpClose:      {from: []TicketState{StateResolved}, target: StateClosed},
	OpCancel: {
		from:   []TicketState{StateDraft, StatePending, StateAssigned, StateInProgress, StateAwaitingReply, StateResolved},
		target: StateCancelled,
	},
	OpReopen: {from: []TicketState{StateClosed, StateCancelled}, target: StatePending},
}

// Operations lists every lifecycle operation.
var Operations = []Operation{OpSubmit, OpAssign, OpStartWork, OpAwaitReply, OpResolve, OpClose, OpCancel, OpReopen}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	_, ok := transitionTable[op]
	return ok
}

// Target returns the state an operation leads to.
func (op Operation) Target() TicketState {
	return transitionTable[op].target
}

// AllowedFrom reports whether op may run while the ticket is in state s.
func (op Operation) AllowedFrom(s TicketState) bool {
	for _, candidate := range transitionTable[op].from {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether some operation moves a ticket from one state to another.
func CanTransition(from, to TicketState) bool {
	for _, op := range Operations {
		if op.Target() == to && op.AllowedFrom(from) {
			return true
		}
	}
	return false
}

// AvailableOperations lists the operations valid from state s.
func AvailableOperations(s TicketState) []Operation {
	ops := make([]Operation, 0, len(Operations))
	for _, op := range Operations {
		if op.AllowedFrom(s) {
			ops = append(ops, op)
		}
	}
	return ops
}
