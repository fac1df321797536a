package polynomial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineStartsViewing(t *testing.T) {
	m := New()
	assert.Equal(t, StateViewing, m.State())
	assert.Equal(t, []Input{InputBeginEdit}, m.ValidInputs())
}

func TestMachineHappyPath(t *testing.T) {
	m := New()

	out := m.Step(InputBeginEdit)
	assert.Equal(t, OutEditSession, out.Kind)
	assert.Equal(t, StateViewing, out.From)
	assert.Equal(t, StateEditing, out.To)
	assert.Equal(t, StateEditing, m.State())

	out = m.Step(InputSave)
	assert.Equal(t, OutSaveRequest, out.Kind)
	assert.Equal(t, StateSyncing, m.State())

	out = m.Step(InputSyncOK)
	assert.Equal(t, OutSyncComplete, out.Kind)
	assert.Equal(t, StateViewing, m.State())
}

func TestMachineConflictResolutions(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  OutputKind
	}{
		{"keep local", InputKeepLocal, OutLocalWins},
		{"keep remote", InputKeepRemote, OutRemoteWins},
		{"merge", InputResolve, OutResolved},
		{"abort", InputAbort, OutAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.Step(InputBeginEdit)
			m.Step(InputSave)
			out := m.Step(InputConflict)
			require.Equal(t, OutConflictDetected, out.Kind)
			require.Equal(t, StateConflicting, m.State())

			out = m.Step(tt.input)
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, StateConflicting, out.From)
			assert.Equal(t, StateViewing, out.To)
			assert.Equal(t, StateViewing, m.State())
		})
	}
}

func TestMachineCancelEdit(t *testing.T) {
	m := New()
	m.Step(InputBeginEdit)

	out := m.Step(InputCancel)
	assert.Equal(t, OutAborted, out.Kind)
	assert.Equal(t, StateViewing, m.State())
}

func TestMachineInvalidInputIsNoOp(t *testing.T) {
	tests := []struct {
		name  string
		setup []Input
		input Input
	}{
		{"save while viewing", nil, InputSave},
		{"conflict while viewing", nil, InputConflict},
		{"begin_edit while editing", []Input{InputBeginEdit}, InputBeginEdit},
		{"keep_local while editing", []Input{InputBeginEdit}, InputKeepLocal},
		{"cancel while syncing", []Input{InputBeginEdit, InputSave}, InputCancel},
		{"save while conflicting", []Input{InputBeginEdit, InputSave, InputConflict}, InputSave},
		{"unknown input", nil, Input("explode")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			for _, in := range tt.setup {
				require.NotEqual(t, OutNoOp, m.Step(in).Kind)
			}
			before := m.State()

			out := m.Step(tt.input)
			assert.Equal(t, OutNoOp, out.Kind)
			assert.Equal(t, before, out.From)
			assert.Equal(t, before, out.To)
			assert.Equal(t, before, m.State())
		})
	}
}

// Same input sequence, same outputs: the machine has no hidden inputs.
func TestMachineDeterministic(t *testing.T) {
	seq := []Input{
		InputBeginEdit, InputSave, InputConflict, InputKeepRemote,
		InputBeginEdit, InputCancel, InputSave, InputBeginEdit,
	}

	run := func() []Output {
		m := New()
		outs := make([]Output, 0, len(seq))
		for _, in := range seq {
			outs = append(outs, m.Step(in))
		}
		return outs
	}

	assert.Equal(t, run(), run())
}

func TestValidInputsCoverEveryState(t *testing.T) {
	for _, s := range []State{StateViewing, StateEditing, StateSyncing, StateConflicting} {
		inputs := ValidInputsFor(s)
		require.NotEmpty(t, inputs, "state %s", s)

		// Every advertised input actually transitions; everything in the
		// transition table is advertised.
		assert.Len(t, inputs, len(transitions[s]), "state %s", s)
		for _, in := range inputs {
			m := &Machine{state: s}
			assert.NotEqual(t, OutNoOp, m.Step(in).Kind, "state %s input %s", s, in)
		}
	}

	assert.Nil(t, ValidInputsFor(State("bogus")))
}
