// Package history provides undo/redo for structural editing commands.
//
// An Entry records the edits one command made together with their inverse
// and the selections before and after. Undo hands back the entry so the
// caller can apply Inverse and restore Before; Redo hands it back to
// apply Edits and restore After:
//
//	h := history.NewHistory(100)
//	entry, _ := history.NewEntry("Enter", text, result.Edits, before, after)
//	h.Push(entry)
//
//	undone, err := h.Undo()
//	if err == nil {
//	    text, _ = buffer.Apply(text, undone.Inverse)
//	}
package history
