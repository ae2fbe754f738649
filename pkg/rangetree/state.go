package rangetree

// syncState tells whether the node structure reflects the current items.
type syncState uint8

const (
	stateInSync syncState = iota
	stateOutOfSync
	numSyncStates
)

func (s syncState) String() string {
	switch s {
	case stateInSync:
		return "in-sync"
	case stateOutOfSync:
		return "out-of-sync"
	default:
		return "unknown"
	}
}

// syncEvent is a mutation or maintenance operation on the tree. A Remove
// that did not remove anything is not an event.
type syncEvent uint8

const (
	eventAdd syncEvent = iota
	eventRemove
	eventRebuild
	eventClear
	numSyncEvents
)

func (e syncEvent) String() string {
	switch e {
	case eventAdd:
		return "add"
	case eventRemove:
		return "remove"
	case eventRebuild:
		return "rebuild"
	case eventClear:
		return "clear"
	default:
		return "unknown"
	}
}

// syncTransitions is indexed by [current state][event].
var syncTransitions = [numSyncStates][numSyncEvents]syncState{
	stateInSync: {
		eventAdd:     stateOutOfSync,
		eventRemove:  stateOutOfSync,
		eventRebuild: stateInSync,
		eventClear:   stateInSync,
	},
	stateOutOfSync: {
		eventAdd:     stateOutOfSync,
		eventRemove:  stateOutOfSync,
		eventRebuild: stateInSync,
		eventClear:   stateInSync,
	},
}

func (s syncState) next(e syncEvent) syncState {
	return syncTransitions[s][e]
}
