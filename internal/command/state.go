package command

import (
	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

// State is the input of a command.
type State struct {
	Text      string
	Selection cursor.SelectionSet
}

// NewState creates a state with a caret at offset.
func NewState(text string, offset buffer.ByteOffset) State {
	return State{Text: text, Selection: cursor.Caret(offset)}
}

// Validate returns cursor.ErrSelectionOutOfRange if a selection lies
// outside the text. Commands must only be run on valid states.
func (s State) Validate() error {
	return s.Selection.Validate(buffer.ByteOffset(len(s.Text)))
}

// Result is the outcome of a command.
type Result struct {
	// Handled is false when the command did not apply.
	Handled bool

	// Edits are the changes to the text.
	Edits []buffer.Edit

	// Selection is the selection after the edits, in coordinates of the
	// edited text.
	Selection *cursor.SelectionSet
}

// NotHandled returns the result of a command that does not apply.
func NotHandled() Result {
	return Result{}
}

// handled creates a result for edits and the selection that follows them.
func handled(edits []buffer.Edit, sel cursor.SelectionSet) Result {
	return Result{Handled: true, Edits: edits, Selection: &sel}
}

// Apply applies the result to state and returns the new state. A result
// that was not handled returns state unchanged.
func (r Result) Apply(state State) (State, error) {
	if !r.Handled {
		return state, nil
	}
	text, err := buffer.Apply(state.Text, r.Edits)
	if err != nil {
		return state, err
	}
	next := State{Text: text, Selection: state.Selection.Map(r.Edits, 1)}
	if r.Selection != nil {
		next.Selection = *r.Selection
	}
	return next, nil
}
