package canvas

import (
	"image"
)

// StackIndex is a position in storage order: 0 is the bottom layer,
// painted first.
type StackIndex int

// DisplayRow is a position in a top-down layer list: 0 is the topmost layer.
type DisplayRow int

// NoLayer is the StackIndex reported when there is no active layer.
const NoLayer StackIndex = -1

// Listener receives change notifications from a Stack.
type Listener interface {
	// LayersChanged is called after the sequence or any layer's content
	// or metadata changed.
	LayersChanged()
	// ActiveLayerChanged is called after the active layer reference changed.
	// index is NoLayer when the selection was cleared.
	ActiveLayerChanged(index StackIndex)
}

// ListenerFuncs adapts plain functions to the Listener interface.
// Nil fields are skipped.
type ListenerFuncs struct {
	OnLayersChanged      func()
	OnActiveLayerChanged func(index StackIndex)
}

// LayersChanged implements Listener.
func (f ListenerFuncs) LayersChanged() {
	if f.OnLayersChanged != nil {
		f.OnLayersChanged()
	}
}

// ActiveLayerChanged implements Listener.
func (f ListenerFuncs) ActiveLayerChanged(index StackIndex) {
	if f.OnActiveLayerChanged != nil {
		f.OnActiveLayerChanged(index)
	}
}

// Stack is the ordered collection of layers of one document together with
// the active-layer selection.
//
// Invariants: the active layer, when set, is always a member of the stack;
// an empty stack has no active layer.
//
// Index arguments out of range are ignored (silent no-op), so callers check
// preconditions such as "more than one layer remains" themselves.
type Stack struct {
	layers    []*Layer
	active    *Layer
	listeners []Listener
}

// NewStack creates an empty stack.
func NewStack(opts ...StackOption) *Stack {
	o := defaultStackOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Stack{listeners: o.listeners}
}

// AddListener registers l for change notifications.
func (s *Stack) AddListener(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// NotifyChanged emits a LayersChanged notification. Tools call it after
// drawing into a layer buffer directly.
func (s *Stack) NotifyChanged() {
	for _, l := range s.listeners {
		l.LayersChanged()
	}
}

func (s *Stack) notifyActive(index StackIndex) {
	for _, l := range s.listeners {
		l.ActiveLayerChanged(index)
	}
}

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

func (s *Stack) valid(i StackIndex) bool {
	return i >= 0 && int(i) < len(s.layers)
}

// Layer returns the layer at i, or nil if i is out of range.
func (s *Stack) Layer(i StackIndex) *Layer {
	if !s.valid(i) {
		return nil
	}
	return s.layers[i]
}

// Layers returns the layers bottom-to-top. The slice is a copy; the layers
// are not.
func (s *Stack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// IndexOfLayer returns the position of l, or NoLayer if l is not in the stack.
func (s *Stack) IndexOfLayer(l *Layer) StackIndex {
	if l == nil {
		return NoLayer
	}
	for i, x := range s.layers {
		if x == l {
			return StackIndex(i)
		}
	}
	return NoLayer
}

// ActiveLayer returns the active layer or nil.
func (s *Stack) ActiveLayer() *Layer { return s.active }

// ActiveIndex returns the position of the active layer or NoLayer.
func (s *Stack) ActiveIndex() StackIndex { return s.IndexOfLayer(s.active) }

// RowOf converts a storage index to a display row.
func (s *Stack) RowOf(i StackIndex) DisplayRow {
	if !s.valid(i) {
		return -1
	}
	return DisplayRow(len(s.layers) - 1 - int(i))
}

// IndexOf converts a display row to a storage index.
func (s *Stack) IndexOf(r DisplayRow) StackIndex {
	if r < 0 || int(r) >= len(s.layers) {
		return NoLayer
	}
	return StackIndex(len(s.layers) - 1 - int(r))
}

// AddLayer appends l at the top. If no layer is active, l becomes active.
func (s *Stack) AddLayer(l *Layer) {
	if l == nil {
		return
	}
	s.layers = append(s.layers, l)
	if s.active == nil {
		s.SetActiveLayer(StackIndex(len(s.layers) - 1))
	}
	s.NotifyChanged()
}

// InsertLayer inserts l so that it ends up at position i. i must be in
// [0, Len()]; anything else is ignored. If no layer is active, l becomes
// active.
func (s *Stack) InsertLayer(i StackIndex, l *Layer) {
	if l == nil || i < 0 || int(i) > len(s.layers) {
		Logger().Debug("canvas: insert ignored", "index", int(i), "len", len(s.layers))
		return
	}
	s.layers = append(s.layers, nil)
	copy(s.layers[i+1:], s.layers[i:])
	s.layers[i] = l
	if s.active == nil {
		s.SetActiveLayer(i)
	}
	s.NotifyChanged()
}

// RemoveLayer detaches the layer at i and returns it, or returns nil if i
// is out of range.
//
// If the removed layer was active (or nothing was active) the new active
// layer is min(i, Len()-1), or none when the stack became empty.
func (s *Stack) RemoveLayer(i StackIndex) *Layer {
	if !s.valid(i) {
		Logger().Debug("canvas: remove ignored", "index", int(i), "len", len(s.layers))
		return nil
	}
	l := s.layers[i]
	wasActive := s.active == l

	copy(s.layers[i:], s.layers[i+1:])
	s.layers[len(s.layers)-1] = nil
	s.layers = s.layers[:len(s.layers)-1]

	if wasActive || s.active == nil {
		if len(s.layers) == 0 {
			s.active = nil
			s.notifyActive(NoLayer)
		} else {
			s.active = nil
			s.SetActiveLayer(min(i, StackIndex(len(s.layers)-1)))
		}
	}
	s.NotifyChanged()
	return l
}

// MoveLayer moves the layer at from so that it ends up at to.
// Equal or out-of-range indices are ignored.
func (s *Stack) MoveLayer(from, to StackIndex) {
	if !s.valid(from) || !s.valid(to) || from == to {
		return
	}
	l := s.layers[from]
	copy(s.layers[from:], s.layers[from+1:])
	s.layers = s.layers[:len(s.layers)-1]
	s.layers = append(s.layers, nil)
	copy(s.layers[to+1:], s.layers[to:])
	s.layers[to] = l
	s.NotifyChanged()
}

// DuplicateLayer appends a deep copy of the layer at i, named
// "<name> Copy", at the top of the stack. The copy is not placed next to
// its source. Returns the copy, or nil if i is out of range.
func (s *Stack) DuplicateLayer(i StackIndex) *Layer {
	src := s.Layer(i)
	if src == nil {
		return nil
	}
	dup := src.Clone()
	dup.SetName(src.Name() + " Copy")
	s.AddLayer(dup)
	return dup
}

// CreateNewLayer appends a transparent layer of the given size.
func (s *Stack) CreateNewLayer(size image.Point, name string) *Layer {
	l := NewLayer(size, name)
	s.AddLayer(l)
	return l
}

// CreateBackgroundLayer appends a layer named "Background" filled with c.
// The fill is forced opaque.
func (s *Stack) CreateBackgroundLayer(size image.Point, c RGBA) *Layer {
	l := NewLayer(size, "Background")
	l.Pixmap().Fill(c.WithAlpha(1))
	s.AddLayer(l)
	return l
}

// SetActiveLayer selects the layer at i. An out-of-range index clears the
// selection. Re-selecting the current layer emits nothing.
func (s *Stack) SetActiveLayer(i StackIndex) {
	if !s.valid(i) {
		if s.active != nil {
			s.active = nil
			s.notifyActive(NoLayer)
		}
		return
	}
	l := s.layers[i]
	if s.active != l {
		s.active = l
		s.notifyActive(i)
	}
}

// Clear removes every layer.
func (s *Stack) Clear() {
	s.replace(nil, NoLayer)
}

// replace swaps in a complete layer sequence in one step.
func (s *Stack) replace(layers []*Layer, active StackIndex) {
	s.layers = layers
	s.active = nil
	if s.valid(active) {
		s.active = s.layers[active]
	}
	s.notifyActive(s.ActiveIndex())
	s.NotifyChanged()
}

// Size returns the canvas size, taken from the bottom layer. An empty stack
// has size zero.
func (s *Stack) Size() image.Point {
	if len(s.layers) == 0 {
		return image.Point{}
	}
	return s.layers[0].Size()
}

// Render paints every layer bottom-to-top into dst within destRect.
func (s *Stack) Render(dst *Pixmap, destRect image.Rectangle) {
	for _, l := range s.layers {
		l.Paint(dst, destRect)
	}
}

// CompositeImage flattens the stack into a fresh transparent pixmap of the
// given size. Higher layers cover lower ones according to their alpha and
// opacity; hidden layers are skipped.
func (s *Stack) CompositeImage(size image.Point) *Pixmap {
	out := NewPixmap(size.X, size.Y)
	s.Render(out, out.Bounds())
	return out
}
