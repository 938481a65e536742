package tool

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/history"
)

// setup returns a stack holding one active transparent w×h layer.
func setup(w, h int) (*canvas.Stack, *history.Manager, *Settings) {
	st := canvas.NewStack()
	st.CreateNewLayer(image.Pt(w, h), "Paint")
	return st, history.New(), DefaultSettings()
}

func pixel(st *canvas.Stack, x, y int) color.NRGBA {
	return st.ActiveLayer().Pixmap().NRGBAAt(x, y)
}

var (
	opaqueBlack = color.NRGBA{A: 255}
	opaqueRed   = color.NRGBA{R: 255, A: 255}
	opaqueBlue  = color.NRGBA{B: 255, A: 255}
	clearPixel  = color.NRGBA{}
)

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("%v.MarshalText() error: %v", k, err)
		}
		var got Kind
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error: %v", text, err)
		}
		if got != k {
			t.Errorf("UnmarshalText(%q) = %v, want %v", text, got, k)
		}
	}
	if _, err := ParseKind("airbrush"); err == nil {
		t.Error("ParseKind(airbrush) should fail")
	}
	if k, err := ParseKind("Ellipse"); err != nil || k != Ellipse {
		t.Errorf("ParseKind(Ellipse) = %v, %v, want ellipse", k, err)
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("Kind(42).String() = %q", got)
	}
}

func TestPencilStroke(t *testing.T) {
	st, h, s := setup(20, 20)
	p := NewPencil(st, h, s, s)

	p.Press(image.Pt(2, 2), 0)
	if !p.Active() {
		t.Fatal("Active() = false after Press")
	}
	p.Move(image.Pt(10, 2), 0)
	if h.UndoLen() != 0 {
		t.Errorf("UndoLen() = %d during gesture, want 0", h.UndoLen())
	}
	p.Release(image.Pt(10, 2), 0)

	if p.Active() {
		t.Error("Active() = true after Release")
	}
	if got := pixel(st, 5, 2); got != opaqueBlack {
		t.Errorf("pixel(5,2) = %v, want %v", got, opaqueBlack)
	}
	if got := pixel(st, 5, 8); got != clearPixel {
		t.Errorf("pixel(5,8) = %v, want transparent", got)
	}
	if h.UndoLen() != 1 {
		t.Fatalf("UndoLen() = %d, want 1", h.UndoLen())
	}
	h.Undo()
	if got := pixel(st, 5, 2); got != clearPixel {
		t.Errorf("after Undo pixel(5,2) = %v, want transparent", got)
	}
	h.Redo()
	if got := pixel(st, 5, 2); got != opaqueBlack {
		t.Errorf("after Redo pixel(5,2) = %v, want %v", got, opaqueBlack)
	}
}

func TestPencilIsAliased(t *testing.T) {
	st, h, s := setup(20, 20)
	s.SetBrushSize(5)
	p := NewPencil(st, h, s, s)
	p.Press(image.Pt(3, 10), 0)
	p.Move(image.Pt(16, 7), 0)
	p.Release(image.Pt(16, 7), 0)

	pm := st.ActiveLayer().Pixmap()
	for y := range 20 {
		for x := range 20 {
			if a := pm.NRGBAAt(x, y).A; a != 0 && a != 255 {
				t.Fatalf("pixel(%d,%d) alpha = %d, want 0 or 255", x, y, a)
			}
		}
	}
}

func TestPressReleaseWithoutMove(t *testing.T) {
	st, h, s := setup(10, 10)
	p := NewPencil(st, h, s, s)
	before := st.ActiveLayer().Pixmap().Clone()

	p.Press(image.Pt(4, 4), 0)
	p.Release(image.Pt(4, 4), 0)

	if !st.ActiveLayer().Pixmap().Equal(before) {
		t.Error("click without move changed pixels")
	}
	if h.UndoLen() != 0 {
		t.Errorf("UndoLen() = %d, want 0", h.UndoLen())
	}
}

func TestEraser(t *testing.T) {
	st, h, s := setup(20, 20)
	st.ActiveLayer().Pixmap().Fill(canvas.White)
	e := NewEraser(st, h, s)

	e.Press(image.Pt(2, 10), 0)
	e.Move(image.Pt(15, 10), 0)
	e.Release(image.Pt(15, 10), 0)

	if got := pixel(st, 8, 10); got != clearPixel {
		t.Errorf("pixel(8,10) = %v, want transparent", got)
	}
	if got := pixel(st, 8, 2); got.A != 255 {
		t.Errorf("pixel(8,2) alpha = %d, want 255", got.A)
	}
	if h.UndoLen() != 1 {
		t.Errorf("UndoLen() = %d, want 1", h.UndoLen())
	}
}

func TestBrushSteps(t *testing.T) {
	tests := []struct {
		from, to image.Point
		want     int
	}{
		{image.Pt(0, 0), image.Pt(0, 0), 1},
		{image.Pt(0, 0), image.Pt(3, 0), 1},
		{image.Pt(0, 0), image.Pt(8, 0), 2},
		{image.Pt(0, 0), image.Pt(4, 4), 2},
		{image.Pt(5, 5), image.Pt(-5, -5), 5},
	}
	for _, tt := range tests {
		if got := BrushSteps(tt.from, tt.to); got != tt.want {
			t.Errorf("BrushSteps(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestBrushSoftEdge(t *testing.T) {
	st, h, s := setup(30, 30)
	s.SetBrushSize(10)
	b := NewBrush(st, h, s, s)

	b.Press(image.Pt(10, 10), 0)
	b.Move(image.Pt(10, 10), 0)
	b.Release(image.Pt(10, 10), 0)

	if got := pixel(st, 10, 10).A; got != 255 {
		t.Errorf("centre alpha = %d, want 255", got)
	}
	if got := pixel(st, 13, 10).A; got == 0 || got == 255 {
		t.Errorf("edge alpha = %d, want partial coverage", got)
	}
	if got := pixel(st, 20, 10).A; got != 0 {
		t.Errorf("outside alpha = %d, want 0", got)
	}
	if h.UndoLen() != 1 {
		t.Errorf("UndoLen() = %d, want 1", h.UndoLen())
	}
}

func TestLineRerendersFromSnapshot(t *testing.T) {
	st, h, s := setup(20, 20)
	l := NewLine(st, h, s, s)

	l.Press(image.Pt(2, 2), 0)
	l.Move(image.Pt(15, 2), 0)
	if got := pixel(st, 10, 2); got != opaqueBlack {
		t.Errorf("preview pixel(10,2) = %v, want %v", got, opaqueBlack)
	}
	l.Move(image.Pt(2, 15), 0)
	l.Release(image.Pt(2, 15), 0)

	if got := pixel(st, 10, 2); got != clearPixel {
		t.Errorf("stale preview pixel(10,2) = %v, want transparent", got)
	}
	if got := pixel(st, 2, 10); got != opaqueBlack {
		t.Errorf("pixel(2,10) = %v, want %v", got, opaqueBlack)
	}
	if h.UndoLen() != 1 {
		t.Errorf("UndoLen() = %d, want 1", h.UndoLen())
	}
}

func TestConstrainRect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   image.Point
		square bool
		want   image.Rectangle
	}{
		{"free", image.Pt(2, 2), image.Pt(12, 6), false, image.Rect(2, 2, 12, 6)},
		{"canonical", image.Pt(12, 6), image.Pt(2, 2), false, image.Rect(2, 2, 12, 6)},
		{"wide", image.Pt(2, 2), image.Pt(12, 6), true, image.Rect(2, 2, 6, 6)},
		{"tall", image.Pt(2, 2), image.Pt(4, 10), true, image.Rect(2, 2, 4, 4)},
		{"up-left", image.Pt(10, 10), image.Pt(0, 7), true, image.Rect(7, 7, 10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConstrainRect(tt.a, tt.b, tt.square); got != tt.want {
				t.Errorf("ConstrainRect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectFillAndOutline(t *testing.T) {
	st, h, s := setup(20, 20)
	s.SetPrimaryColor(canvas.Red)
	s.SetSecondaryColor(canvas.Blue)
	s.SetBrushSize(1)
	r := NewRect(st, h, s, s)

	r.Press(image.Pt(2, 2), Shift)
	r.Move(image.Pt(12, 6), Shift)
	r.Release(image.Pt(12, 6), Shift)

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{4, 4, opaqueRed},
		{2, 4, opaqueBlue},
		{6, 6, opaqueBlue},
		{4, 2, opaqueBlue},
		{8, 4, clearPixel},
		{4, 7, clearPixel},
	}
	for _, tt := range tests {
		if got := pixel(st, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if h.UndoLen() != 1 {
		t.Errorf("UndoLen() = %d, want 1", h.UndoLen())
	}
}

func TestEllipseShift(t *testing.T) {
	tests := []struct {
		name   string
		mods   Modifiers
		inside bool
	}{
		{"ellipse", 0, true},
		{"circle", Shift, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, h, s := setup(20, 20)
			e := NewEllipse(st, h, s, s)
			e.Press(image.Pt(0, 0), tt.mods)
			e.Release(image.Pt(10, 4), tt.mods)

			if got := pixel(st, 8, 2).A != 0; got != tt.inside {
				t.Errorf("pixel(8,2) painted = %v, want %v", got, tt.inside)
			}
			if got := pixel(st, 2, 2).A; got == 0 {
				t.Error("pixel(2,2) not painted")
			}
			if got := pixel(st, 10, 0).A; got != 0 {
				t.Errorf("pixel(10,0) alpha = %d, want 0", got)
			}
		})
	}
}

func TestFillTool(t *testing.T) {
	st, h, s := setup(50, 50)
	st.ActiveLayer().Pixmap().Fill(canvas.Red)
	s.SetPrimaryColor(canvas.Blue)
	f := NewFill(st, h, s, s)

	f.Press(image.Pt(25, 25), 0)
	if got := pixel(st, 0, 49); got != opaqueBlue {
		t.Errorf("after Press pixel(0,49) = %v, want %v", got, opaqueBlue)
	}
	if h.UndoLen() != 0 {
		t.Errorf("UndoLen() before Release = %d, want 0", h.UndoLen())
	}
	f.Release(image.Pt(25, 25), 0)
	if h.UndoLen() != 1 {
		t.Fatalf("UndoLen() = %d, want 1", h.UndoLen())
	}

	h.Undo()
	if got := pixel(st, 0, 49); got != opaqueRed {
		t.Errorf("after Undo pixel(0,49) = %v, want %v", got, opaqueRed)
	}
}

func TestFillSameColorNoCommand(t *testing.T) {
	st, h, s := setup(10, 10)
	st.ActiveLayer().Pixmap().Fill(canvas.Black)
	f := NewFill(st, h, s, s)

	f.Press(image.Pt(5, 5), 0)
	f.Release(image.Pt(5, 5), 0)
	if h.UndoLen() != 0 {
		t.Errorf("UndoLen() = %d, want 0", h.UndoLen())
	}
}

func TestFillTransparentLayer(t *testing.T) {
	tests := []struct {
		name    string
		primary canvas.RGBA
		want    int
	}{
		// Transparent pixels carry black RGB, so the default primary matches.
		{"black", canvas.Black, 0},
		{"red", canvas.Red, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, h, s := setup(10, 10)
			s.SetPrimaryColor(tt.primary)
			f := NewFill(st, h, s, s)
			f.Press(image.Pt(5, 5), 0)
			f.Release(image.Pt(5, 5), 0)
			if h.UndoLen() != tt.want {
				t.Errorf("UndoLen() = %d, want %d", h.UndoLen(), tt.want)
			}
		})
	}
}

func TestEyedropper(t *testing.T) {
	st, h, s := setup(10, 10)
	st.ActiveLayer().Pixmap().SetPixel(3, 3, canvas.Green)
	e := NewEyedropper(st, s)

	e.Press(image.Pt(3, 3), 0)
	e.Release(image.Pt(3, 3), 0)

	if got := s.PrimaryColor().NRGBA(); got != canvas.Green.NRGBA() {
		t.Errorf("PrimaryColor() = %v, want green", got)
	}
	if len(s.History) != 1 {
		t.Errorf("len(History) = %d, want 1", len(s.History))
	}
	if h.UndoLen() != 0 {
		t.Errorf("UndoLen() = %d, want 0", h.UndoLen())
	}

	e.Press(image.Pt(30, 30), 0)
	if got := s.PrimaryColor().NRGBA(); got != canvas.Green.NRGBA() {
		t.Errorf("out-of-bounds pick changed PrimaryColor() to %v", got)
	}
}

func TestCancelRestoresSnapshot(t *testing.T) {
	st, h, s := setup(20, 20)
	before := st.ActiveLayer().Pixmap().Clone()
	tools := []Tool{
		NewPencil(st, h, s, s),
		NewBrush(st, h, s, s),
		NewEraser(st, h, s),
		NewLine(st, h, s, s),
		NewRect(st, h, s, s),
		NewEllipse(st, h, s, s),
		NewFill(st, h, s, s),
	}
	for _, tl := range tools {
		t.Run(tl.Kind().String(), func(t *testing.T) {
			tl.Press(image.Pt(2, 2), 0)
			tl.Move(image.Pt(12, 12), 0)
			tl.Cancel()

			if tl.Active() {
				t.Error("Active() = true after Cancel")
			}
			if !st.ActiveLayer().Pixmap().Equal(before) {
				t.Error("Cancel did not restore the layer")
			}
			if h.UndoLen() != 0 {
				t.Errorf("UndoLen() = %d, want 0", h.UndoLen())
			}
		})
	}
}

func TestPressDuringGesture(t *testing.T) {
	st, h, s := setup(20, 20)
	p := NewPencil(st, h, s, s)

	p.Press(image.Pt(1, 1), 0)
	p.Move(image.Pt(8, 1), 0)
	p.Press(image.Pt(1, 12), 0)
	p.Move(image.Pt(8, 12), 0)
	p.Release(image.Pt(8, 12), 0)

	if got := pixel(st, 4, 1); got != clearPixel {
		t.Errorf("abandoned stroke pixel(4,1) = %v, want transparent", got)
	}
	if got := pixel(st, 4, 12); got != opaqueBlack {
		t.Errorf("pixel(4,12) = %v, want %v", got, opaqueBlack)
	}
	if h.UndoLen() != 1 {
		t.Errorf("UndoLen() = %d, want 1", h.UndoLen())
	}
}

func TestNoActiveLayer(t *testing.T) {
	st := canvas.NewStack()
	h := history.New()
	s := DefaultSettings()
	p := NewPencil(st, h, s, s)

	p.Press(image.Pt(1, 1), 0)
	p.Move(image.Pt(5, 5), 0)
	p.Release(image.Pt(5, 5), 0)
	if p.Active() {
		t.Error("Active() = true without a layer")
	}
	if h.UndoLen() != 0 {
		t.Errorf("UndoLen() = %d, want 0", h.UndoLen())
	}
}

func TestLayerRemovedMidGesture(t *testing.T) {
	st, h, s := setup(20, 20)
	st.CreateNewLayer(image.Pt(20, 20), "Other")
	l := NewLine(st, h, s, s)

	l.Press(image.Pt(2, 2), 0)
	st.RemoveLayer(0)
	l.Move(image.Pt(10, 10), 0)
	l.Release(image.Pt(10, 10), 0)

	if l.Active() {
		t.Error("Active() = true after Release")
	}
	if h.UndoLen() != 0 {
		t.Errorf("UndoLen() = %d, want 0", h.UndoLen())
	}
}
