// Package command provides the concrete, invertible layer edits executed
// through a history.Manager.
//
// Every command refers to the stack it edits and captures at Do time the
// state that Undo and Redo need: removed layers are kept as detached
// *canvas.Layer values and handed back unchanged, pixel snapshots are
// private clones. A command whose target index is invalid when Do runs
// records nothing and its Undo and Redo do nothing.
package command
