package checkpoint

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/gogpu/canvas"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "checkpoints.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(names ...string) *canvas.Stack {
	st := canvas.NewStack()
	st.CreateBackgroundLayer(image.Pt(8, 6), canvas.White)
	for _, n := range names {
		st.CreateNewLayer(image.Pt(8, 6), n).Pixmap().SetPixel(1, 1, canvas.Red)
	}
	return st
}

func TestSaveRestore(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	doc := uuid.New()

	src := sample("Ink")
	src.Layer(1).SetOpacity(0.4)
	cp, err := s.Save(ctx, doc, "before merge", src)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if cp.DocID != doc || cp.Layers != 2 || cp.Width != 8 || cp.Height != 6 || cp.Label != "before merge" {
		t.Errorf("Save() = %+v", cp)
	}

	dst := sample("Other", "Layers")
	if err := s.Restore(ctx, cp.ID, dst); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if dst.Len() != 2 || dst.Layer(1).Name() != "Ink" || dst.Layer(1).Opacity() != 0.4 {
		t.Fatalf("Restore() stack = %d layers", dst.Len())
	}
	if !dst.Layer(1).Pixmap().Equal(src.Layer(1).Pixmap()) {
		t.Error("restored pixels differ")
	}
	if dst.ActiveIndex() != 0 {
		t.Errorf("ActiveIndex() = %d, want 0", dst.ActiveIndex())
	}
}

func TestSaveEmpty(t *testing.T) {
	s := openStore(t)
	_, err := s.Save(context.Background(), uuid.New(), "", canvas.NewStack())
	if !errors.Is(err, canvas.ErrEmptyStack) {
		t.Errorf("Save() = %v, want ErrEmptyStack", err)
	}
}

func TestListLatestPrune(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	doc, other := uuid.New(), uuid.New()

	var ids []uuid.UUID
	for _, label := range []string{"one", "two", "three"} {
		cp, err := s.Save(ctx, doc, label, sample(label))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, cp.ID)
	}
	if _, err := s.Save(ctx, other, "elsewhere", sample()); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx, doc)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d checkpoints, want 3", len(list))
	}
	for i, want := range []string{"three", "two", "one"} {
		if list[i].Label != want {
			t.Errorf("List()[%d].Label = %q, want %q", i, list[i].Label, want)
		}
	}

	latest, err := s.Latest(ctx, doc)
	if err != nil || latest.ID != ids[2] {
		t.Errorf("Latest() = %v, %v, want %v", latest.ID, err, ids[2])
	}

	n, err := s.Prune(ctx, doc, 1)
	if err != nil || n != 2 {
		t.Errorf("Prune(1) = %d, %v, want 2", n, err)
	}
	list, _ = s.List(ctx, doc)
	if len(list) != 1 || list[0].ID != ids[2] {
		t.Errorf("after Prune List() = %+v", list)
	}
	if rest, _ := s.List(ctx, other); len(rest) != 1 {
		t.Errorf("Prune touched another document: %d left", len(rest))
	}

	if n, _ := s.Prune(ctx, doc, -3); n != 1 {
		t.Errorf("Prune(-3) removed %d, want 1", n)
	}
	if _, err := s.Latest(ctx, doc); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() on empty = %v, want ErrNotFound", err)
	}
}

func TestRestoreMissing(t *testing.T) {
	s := openStore(t)
	st := sample("Keep")
	if err := s.Restore(context.Background(), uuid.New(), st); !errors.Is(err, ErrNotFound) {
		t.Errorf("Restore() = %v, want ErrNotFound", err)
	}
	if st.Len() != 2 {
		t.Errorf("stack changed: %d layers", st.Len())
	}
}

func TestRestoreCorrupt(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	cp, err := s.Save(ctx, uuid.New(), "", sample("A"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE checkpoints SET data = ? WHERE id = ?`, []byte("garbage"), cp.ID); err != nil {
		t.Fatal(err)
	}

	st := sample("Keep", "Me")
	if err := s.Restore(ctx, cp.ID, st); err == nil {
		t.Error("Restore() of a corrupt blob succeeded")
	}
	if st.Len() != 3 {
		t.Errorf("stack changed: %d layers", st.Len())
	}
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "c.db")
	doc := uuid.New()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, doc, "kept", sample()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	defer s.Close()
	if cp, err := s.Latest(ctx, doc); err != nil || cp.Label != "kept" {
		t.Errorf("Latest() after reopen = %+v, %v", cp, err)
	}
}
