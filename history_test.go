package paint

import (
	"errors"
	"testing"
)

func TestUndoRedoInverseSequence(t *testing.T) {
	a := newTestArea(t, 32, 32, 2)
	a.SetToolOptions(WithSize(6))
	before := stateOf(a)

	if _, err := a.CreateLayer(1, nil); err != nil {
		t.Fatal(err)
	}
	stroke(a, 5, 5)
	a.MoveLayer(1, -1)
	a.SetLayerOpacity(0, 0.5)
	a.MergeDown(0)
	a.DeleteLayer(1)
	if err := a.SetLayerBlendMode(0, "multiply"); err != nil {
		t.Fatal(err)
	}
	after := stateOf(a)

	undos, _ := a.History()
	if len(undos) != 7 {
		t.Fatalf("%d undo records, want 7", len(undos))
	}
	for range 7 {
		if err := a.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	checkState(t, "after undoing everything", stateOf(a), before)
	if a.CanUndo() {
		t.Error("CanUndo() after undoing everything")
	}

	for range 7 {
		if err := a.Redo(); err != nil {
			t.Fatal(err)
		}
	}
	checkState(t, "after redoing everything", stateOf(a), after)
	if a.CanRedo() {
		t.Error("CanRedo() after redoing everything")
	}
}

func TestHistoryBounded(t *testing.T) {
	tests := []struct {
		name  string
		opts  []AreaOption
		limit int
	}{
		{"default", nil, DefaultHistoryLimit},
		{"custom", []AreaOption{WithHistoryLimit(4)}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArea(append(tt.opts, WithDocumentSize(8, 8))...)
			defer a.Close()
			a.CreateLayer(0, nil)
			for i := range tt.limit + 5 {
				stroke(a, float64(i%8), 4)
			}
			undos, _ := a.History()
			if len(undos) != tt.limit {
				t.Fatalf("undo depth = %d, want %d", len(undos), tt.limit)
			}

			n := 0
			for a.CanUndo() {
				if err := a.Undo(); err != nil {
					t.Fatal(err)
				}
				n++
			}
			if n != tt.limit {
				t.Errorf("undid %d records, want %d", n, tt.limit)
			}
			if _, redos := a.History(); len(redos) != tt.limit {
				t.Errorf("redo depth = %d, want %d", len(redos), tt.limit)
			}
			if err := a.Undo(); err != nil {
				t.Errorf("Undo on empty stack = %v", err)
			}
		})
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	a := newTestArea(t, 10, 10, 1)
	stroke(a, 2, 2)
	a.Undo()
	if !a.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}
	stroke(a, 5, 5)
	if a.CanRedo() {
		t.Error("CanRedo() = true after a new edit")
	}
	if err := a.Redo(); err != nil {
		t.Errorf("Redo on empty stack = %v", err)
	}
}

func TestUndoAfterRedoKeepsRedoable(t *testing.T) {
	a := newTestArea(t, 10, 10, 1)
	a.CreateLayer(0, nil)
	a.CreateLayer(0, nil)
	a.Undo()
	a.Undo()
	a.Redo()
	if _, redos := a.History(); len(redos) != 1 {
		t.Fatalf("redo depth = %d after one redo, want 1", len(redos))
	}
	a.Redo()
	if a.Len() != 3 || a.CanRedo() {
		t.Errorf("Len() = %d, CanRedo() = %v, want 3, false", a.Len(), a.CanRedo())
	}
}

func TestUndoCorruptRecordStays(t *testing.T) {
	a := newTestArea(t, 10, 10, 1)
	before := stateOf(a)
	bad := Record{Action: ActionDraw, Index: 0, State: &Snapshot{W: -1, Opacity: 1}}
	a.undos = append(a.undos, bad)

	err := a.Undo()
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("Undo() = %v, want ErrCorruptSnapshot", err)
	}
	undos, redos := a.History()
	if len(undos) != 1 || len(redos) != 0 {
		t.Errorf("stacks = %d/%d after failed undo, want 1/0", len(undos), len(redos))
	}
	checkState(t, "failed undo", stateOf(a), before)

	a.undos[0].Action = ActionMergeDown
	a.undos[0].Below = &Snapshot{W: 1, H: 1, Opacity: 7}
	if err := a.Undo(); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("Undo(merge) = %v, want ErrCorruptSnapshot", err)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d after failed unmerge, want 1", a.Len())
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{ActionDraw, "draw"},
		{ActionAddLayer, "add-layer"},
		{ActionMergeDown, "merge-down"},
		{ActionUnmerge, "unmerge"},
		{Action(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("Action(%d).String() = %q, want %q", tt.a, got, tt.want)
		}
	}
}
