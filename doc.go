// Package canvas provides the document model of a layered raster editor.
//
// # Overview
//
// A document is a Stack of Layers. Each Layer owns a premultiplied RGBA
// Pixmap together with a name, a visibility flag and an opacity. The stack
// is painted bottom-to-top to produce the flattened image, and it can be
// persisted to and restored from a binary project file.
//
// Editing operations live in sibling packages:
//   - history: undoable commands with bounded undo/redo stacks
//   - command: concrete layer commands (add, delete, move, draw, merge, ...)
//   - tool: pointer-driven drawing tools that emit draw commands
//   - editor: a Document that wires the above together
//
// # Quick Start
//
//	st := canvas.NewStack()
//	st.CreateBackgroundLayer(image.Pt(800, 600), canvas.White)
//	st.CreateNewLayer(image.Pt(800, 600), "Sketch")
//
//	flat := st.CompositeImage(image.Pt(800, 600))
//	_ = canvas.SaveImage("out.png", flat, 0)
//
// # Coordinates
//
// Stack positions come in two flavours. StackIndex is the storage order
// (0 is the bottom layer, painted first). DisplayRow is the order used by
// a top-down layer list (0 is the topmost layer). Convert between them with
// Stack.RowOf and Stack.IndexOf; never mix them.
//
// # Threading
//
// Everything in this module is single-threaded and synchronous. Callers
// that need responsiveness run file operations off their event loop.
package canvas
