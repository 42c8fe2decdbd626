// Package command implements the structural editing commands of the wiki
// editor: list continuation, list indentation, smart quotes and tag
// insertion.
//
// Commands are pure functions. They receive the document text and the
// selections as a State and return the edits to apply and the selections
// afterwards. A Result with Handled == false carries no edits; the host
// then runs its default behavior for the key.
//
// All edits of a Result are expressed in coordinates of the State's text,
// sorted and non-overlapping, ready for buffer.Apply.
package command
