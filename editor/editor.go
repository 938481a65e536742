// Package editor ties a layer stack, its undo history and the drawing
// tools into one document, and implements the document lifecycle: new
// canvas, open, save and export.
//
// Every edit made through a Document goes through its history, so it can
// be undone. Starting a new canvas or opening a file clears the history.
package editor

import (
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/command"
	"github.com/gogpu/canvas/history"
	"github.com/gogpu/canvas/tool"
)

// Canvas size limits accepted by NewCanvas.
const (
	MinCanvasSize = 1
	MaxCanvasSize = 16000
)

// DefaultLayerSize is used for new layers when the stack is empty.
var DefaultLayerSize = image.Pt(800, 600)

// opacityEpsilon is the smallest opacity change recorded as an edit.
const opacityEpsilon = 0.001

// ErrCanvasSize is returned by NewCanvas for dimensions outside
// [MinCanvasSize, MaxCanvasSize].
var ErrCanvasSize = errors.New("editor: canvas size out of range")

// Document is one open image.
type Document struct {
	id       uuid.UUID
	path     string
	stack    *canvas.Stack
	history  *history.Manager
	settings *tool.Settings
	tools    *tool.Controller
}

// New creates an empty document with no layers. Call NewCanvas, Open or
// OpenImage to give it content.
func New(opts ...Option) *Document {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.settings == nil {
		o.settings = tool.DefaultSettings()
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}

	var stackOpts []canvas.StackOption
	for _, l := range o.listeners {
		stackOpts = append(stackOpts, canvas.WithListener(l))
	}
	d := &Document{
		id:       o.id,
		stack:    canvas.NewStack(stackOpts...),
		history:  history.New(history.WithMaxDepth(o.historyDepth)),
		settings: o.settings,
	}
	d.tools = tool.NewController(d.stack, d.history, d.settings)
	return d
}

// ID returns the document identity.
func (d *Document) ID() uuid.UUID { return d.id }

// Path returns the file the document was last opened from or saved to.
func (d *Document) Path() string { return d.path }

// Stack returns the layer stack. Mutating it directly bypasses history.
func (d *Document) Stack() *canvas.Stack { return d.stack }

// History returns the undo manager.
func (d *Document) History() *history.Manager { return d.history }

// Settings returns the tool and colour settings.
func (d *Document) Settings() *tool.Settings { return d.settings }

// Tools returns the tool controller. Pointer events go here.
func (d *Document) Tools() *tool.Controller { return d.tools }

// Size returns the canvas size, or zero when there are no layers.
func (d *Document) Size() image.Point { return d.stack.Size() }

// reset abandons any gesture and forgets the history.
func (d *Document) reset() {
	d.tools.Cancel()
	d.history.Clear()
}

// NewCanvas discards the current content and starts over with a single
// opaque white "Background" layer of w×h pixels.
func (d *Document) NewCanvas(w, h int) error {
	if w < MinCanvasSize || w > MaxCanvasSize || h < MinCanvasSize || h > MaxCanvasSize {
		return fmt.Errorf("%w: %dx%d", ErrCanvasSize, w, h)
	}
	d.reset()
	d.stack.Clear()
	d.stack.CreateBackgroundLayer(image.Pt(w, h), canvas.White)
	d.stack.SetActiveLayer(0)
	d.path = ""
	canvas.Logger().Info("editor: new canvas", "doc", d.id, "width", w, "height", h)
	return nil
}

// Open replaces the document with the project at path. On failure the
// document is left untouched.
func (d *Document) Open(path string) error {
	d.tools.Cancel()
	if err := canvas.LoadProject(path, d.stack); err != nil {
		return err
	}
	d.history.Clear()
	d.path = path
	return nil
}

// OpenImage starts a new canvas the size of the image at path and paints
// the image onto its white background.
func (d *Document) OpenImage(path string) error {
	pm, err := canvas.LoadImage(path)
	if err != nil {
		return err
	}
	if err := d.NewCanvas(pm.Width(), pm.Height()); err != nil {
		return err
	}
	bg := d.stack.Layer(0).Pixmap()
	canvas.NewLayerFromPixmap(pm, "").Paint(bg, bg.Bounds())
	d.stack.NotifyChanged()
	canvas.Logger().Info("editor: image opened", "doc", d.id, "path", path)
	return nil
}

// Save writes the project file. The project extension is appended when
// path lacks it. Returns the path written.
func (d *Document) Save(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), canvas.ProjectExt) {
		path += canvas.ProjectExt
	}
	if err := canvas.SaveProject(path, d.stack); err != nil {
		return "", err
	}
	d.path = path
	return path, nil
}

// Export flattens the visible layers and writes them as an image. The
// format follows the extension; an unrecognised extension gets ".png"
// appended. quality applies to JPEG only. Returns the path written.
func (d *Document) Export(path string, quality int) (string, error) {
	if d.stack.Len() == 0 {
		return "", canvas.ErrEmptyStack
	}
	if _, ok := canvas.FormatForPath(path); !ok {
		path += ".png"
	}
	if err := canvas.SaveImage(path, d.Composite(), quality); err != nil {
		return "", err
	}
	canvas.Logger().Info("editor: exported", "doc", d.id, "path", path)
	return path, nil
}

// Composite returns the flattened canvas.
func (d *Document) Composite() *canvas.Pixmap {
	return d.stack.CompositeImage(d.stack.Size())
}

// Execute runs c through the history.
func (d *Document) Execute(c history.Command) { d.history.Execute(c) }

// Undo reverts the most recent edit. A gesture in progress is cancelled
// first. It reports false when there is nothing to undo.
func (d *Document) Undo() bool {
	d.tools.Cancel()
	return d.history.Undo()
}

// Redo re-applies the most recently undone edit.
func (d *Document) Redo() bool {
	d.tools.Cancel()
	return d.history.Redo()
}

// CanUndo reports whether Undo would do anything.
func (d *Document) CanUndo() bool { return d.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (d *Document) CanRedo() bool { return d.history.CanRedo() }

// SetActiveLayer selects the layer tools draw on. Selection is not an
// edit and is not recorded.
func (d *Document) SetActiveLayer(i canvas.StackIndex) {
	d.tools.Cancel()
	d.stack.SetActiveLayer(i)
}

// AddLayer adds a transparent layer on top, sized like the canvas, and
// selects it. Empty names are refused.
func (d *Document) AddLayer(name string) *canvas.Layer {
	if name == "" {
		return nil
	}
	size := d.stack.Size()
	if size == (image.Point{}) {
		size = DefaultLayerSize
	}
	c := command.NewAddLayer(d.stack, size, name)
	d.history.Execute(c)
	return c.Layer()
}

// DeleteLayer removes the layer at i. The last remaining layer cannot be
// deleted.
func (d *Document) DeleteLayer(i canvas.StackIndex) bool {
	if d.stack.Len() <= 1 || d.stack.Layer(i) == nil {
		return false
	}
	d.tools.Cancel()
	d.history.Execute(command.NewDeleteLayer(d.stack, i))
	return true
}

// MoveLayer moves the layer at from to position to.
func (d *Document) MoveLayer(from, to canvas.StackIndex) bool {
	if from == to || d.stack.Layer(from) == nil || d.stack.Layer(to) == nil {
		return false
	}
	d.history.Execute(command.NewMoveLayer(d.stack, from, to))
	return true
}

// DuplicateLayer copies the layer at i onto the top of the stack.
func (d *Document) DuplicateLayer(i canvas.StackIndex) *canvas.Layer {
	if d.stack.Layer(i) == nil {
		return nil
	}
	c := command.NewDuplicateLayer(d.stack, i)
	d.history.Execute(c)
	return c.Layer()
}

// RenameLayer renames the layer at i. Empty or unchanged names are
// ignored.
func (d *Document) RenameLayer(i canvas.StackIndex, name string) bool {
	l := d.stack.Layer(i)
	if l == nil || name == "" || name == l.Name() {
		return false
	}
	d.history.Execute(command.NewRename(d.stack, i, name))
	return true
}

// ToggleVisibility shows or hides the layer at i.
func (d *Document) ToggleVisibility(i canvas.StackIndex) bool {
	if d.stack.Layer(i) == nil {
		return false
	}
	d.history.Execute(command.NewToggleVisibility(d.stack, i))
	return true
}

// SetOpacity changes the opacity of the layer at i. Changes of 0.001 or
// less are not recorded.
func (d *Document) SetOpacity(i canvas.StackIndex, opacity float64) bool {
	l := d.stack.Layer(i)
	if l == nil {
		return false
	}
	opacity = max(0, min(opacity, 1))
	from := l.Opacity()
	if math.Abs(opacity-from) <= opacityEpsilon {
		return false
	}
	d.history.Execute(command.NewChangeOpacity(d.stack, i, from, opacity))
	return true
}

// MergeWithNext merges the layer above i down into i.
func (d *Document) MergeWithNext(i canvas.StackIndex) bool {
	if d.stack.Layer(i) == nil || d.stack.Layer(i+1) == nil {
		return false
	}
	d.tools.Cancel()
	d.history.Execute(command.NewMergeWithNext(d.stack, i))
	return true
}
