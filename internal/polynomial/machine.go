package polynomial

// State identifies the current document mode.
type State string

const (
	// StateViewing is the initial state: the document is open read-only.
	StateViewing State = "viewing"

	// StateEditing means an edit session is active.
	StateEditing State = "editing"

	// StateSyncing means a save has been requested and the caller is
	// reconciling the edit with the stored document.
	StateSyncing State = "syncing"

	// StateConflicting means syncing detected concurrent edits that need
	// explicit resolution.
	StateConflicting State = "conflicting"
)

// Input is a direction fed into the machine.
type Input string

const (
	// InputBeginEdit opens an edit session (Viewing -> Editing).
	InputBeginEdit Input = "begin_edit"

	// InputSave requests persistence of the current edit (Editing -> Syncing).
	InputSave Input = "save"

	// InputCancel abandons the current edit (Editing -> Viewing).
	InputCancel Input = "cancel"

	// InputSyncOK reports that the caller reconciled the save cleanly
	// (Syncing -> Viewing).
	InputSyncOK Input = "sync_ok"

	// InputConflict reports concurrent edits found while syncing
	// (Syncing -> Conflicting).
	InputConflict Input = "conflict"

	// InputKeepLocal resolves a conflict in favor of the local edit
	// (Conflicting -> Viewing).
	InputKeepLocal Input = "keep_local"

	// InputKeepRemote resolves a conflict in favor of the remote edit
	// (Conflicting -> Viewing).
	InputKeepRemote Input = "keep_remote"

	// InputResolve resolves a conflict with a caller-built merge
	// (Conflicting -> Viewing).
	InputResolve Input = "resolve"

	// InputAbort abandons conflict resolution entirely
	// (Conflicting -> Viewing).
	InputAbort Input = "abort"
)

// OutputKind names what a transition produced.
type OutputKind string

const (
	// OutEditSession signals that an edit session opened.
	OutEditSession OutputKind = "edit_session"

	// OutSaveRequest asks the caller to persist the edited content. The
	// machine never touches storage itself.
	OutSaveRequest OutputKind = "save_request"

	// OutSyncComplete confirms the document is reconciled.
	OutSyncComplete OutputKind = "sync_complete"

	// OutConflictDetected reports that concurrent edits were found.
	OutConflictDetected OutputKind = "conflict_detected"

	// OutLocalWins resolves the conflict with the local edit.
	OutLocalWins OutputKind = "local_wins"

	// OutRemoteWins resolves the conflict with the remote edit.
	OutRemoteWins OutputKind = "remote_wins"

	// OutResolved resolves the conflict with a caller-built merge.
	OutResolved OutputKind = "resolved"

	// OutAborted abandons the edit or the conflict resolution.
	OutAborted OutputKind = "aborted"

	// OutNoOp is returned for any input the current state does not accept.
	// The state is unchanged.
	OutNoOp OutputKind = "no_op"
)

// Output is the serialized result of one Step. It records the transition
// taken so callers (and traces) can reconstruct the machine's history from
// outputs alone.
type Output struct {
	Kind  OutputKind `json:"kind"`
	Input Input      `json:"input"`
	From  State      `json:"from"`
	To    State      `json:"to"`
}

// transitions is the complete machine: one entry per (state, input) pair
// the machine accepts. Absence means NoOp.
var transitions = map[State]map[Input]struct {
	next State
	out  OutputKind
}{
	StateViewing: {
		InputBeginEdit: {StateEditing, OutEditSession},
	},
	StateEditing: {
		InputSave:   {StateSyncing, OutSaveRequest},
		InputCancel: {StateViewing, OutAborted},
	},
	StateSyncing: {
		InputSyncOK:   {StateViewing, OutSyncComplete},
		InputConflict: {StateConflicting, OutConflictDetected},
	},
	StateConflicting: {
		InputKeepLocal:  {StateViewing, OutLocalWins},
		InputKeepRemote: {StateViewing, OutRemoteWins},
		InputResolve:    {StateViewing, OutResolved},
		InputAbort:      {StateViewing, OutAborted},
	},
}

// Machine is the per-document state machine. The zero value is not usable;
// construct with New.
//
// Not safe for concurrent use: callers serialize Step per document.
type Machine struct {
	state State
}

// New creates a Machine in the Viewing state.
func New() *Machine {
	return &Machine{state: StateViewing}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// ValidInputs returns the inputs the current state accepts, in stable
// order. Used by drivers that present available actions to a user.
func (m *Machine) ValidInputs() []Input {
	return ValidInputsFor(m.state)
}

// ValidInputsFor returns the inputs a state accepts, in stable order.
func ValidInputsFor(s State) []Input {
	switch s {
	case StateViewing:
		return []Input{InputBeginEdit}
	case StateEditing:
		return []Input{InputSave, InputCancel}
	case StateSyncing:
		return []Input{InputSyncOK, InputConflict}
	case StateConflicting:
		return []Input{InputKeepLocal, InputKeepRemote, InputResolve, InputAbort}
	default:
		return nil
	}
}

// Step applies one input. Valid inputs advance the state and return the
// transition's output; invalid inputs leave the state unchanged and return
// a NoOp output. Step never returns an error: rejection is data.
func (m *Machine) Step(in Input) Output {
	from := m.state
	t, ok := transitions[from][in]
	if !ok {
		return Output{Kind: OutNoOp, Input: in, From: from, To: from}
	}
	m.state = t.next
	return Output{Kind: t.out, Input: in, From: from, To: t.next}
}
