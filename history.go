package paint

// Action tags an undo record.
type Action uint8

const (
	ActionDraw        Action = iota // pixel or property edit of one layer
	ActionAddLayer                  // inverse: delete the layer
	ActionDeleteLayer               // inverse: recreate from State
	ActionMoveLayer                 // inverse: move back by -Delta
	ActionMergeDown                 // inverse: unmerge from State and Below
	ActionUnmerge                   // inverse: merge down again
)

var actionNames = [...]string{
	ActionDraw:        "draw",
	ActionAddLayer:    "add-layer",
	ActionDeleteLayer: "delete-layer",
	ActionMoveLayer:   "move-layer",
	ActionMergeDown:   "merge-down",
	ActionUnmerge:     "unmerge",
}

// String returns the record name used in logs.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Record is one entry of the undo or redo stack.
type Record struct {
	Action Action
	Index  int
	State  *Snapshot // layer state to restore, nil for AddLayer and Unmerge
	Below  *Snapshot // MergeDown: the lower layer before the merge
	Delta  int       // MoveLayer
}

// History returns copies of the undo and redo stacks, oldest record first.
func (a *Area) History() (undos, redos []Record) {
	return append([]Record(nil), a.undos...), append([]Record(nil), a.redos...)
}

// CanUndo reports whether Undo has a record to revert.
func (a *Area) CanUndo() bool { return len(a.undos) > 0 }

// CanRedo reports whether Redo has a record to reapply.
func (a *Area) CanRedo() bool { return len(a.redos) > 0 }

// ClearHistory drops every undo and redo record.
func (a *Area) ClearHistory() {
	a.undos, a.redos = nil, nil
}

// snap pushes rec onto the undo stack, first capturing layers[rec.Index]
// into rec.State when capture is set. The redo stack is cleared and the
// oldest records beyond the limit are dropped.
func (a *Area) snap(rec Record, capture bool) {
	if capture {
		if l := a.Layer(rec.Index); l != nil {
			rec.State = l.Snapshot()
		}
	}
	a.redos = nil
	a.undos = pushBounded(a.undos, rec, a.limit)
	a.pushes++
	Logger().Debug("paint: history push", "action", rec.Action, "index", rec.Index, "depth", len(a.undos))
}

func pushBounded(stack []Record, rec Record, limit int) []Record {
	stack = append(stack, rec)
	if n := len(stack) - limit; n > 0 {
		// copy so the evicted snapshots can be collected
		stack = append([]Record(nil), stack[n:]...)
	}
	return stack
}

// Undo reverts the most recent record and moves it onto the redo stack.
// It is a no-op when there is nothing to undo. If the record cannot be
// applied, it stays on the undo stack and the error is returned.
func (a *Area) Undo() error {
	return a.replay(false)
}

// Redo reapplies the most recently undone record.
func (a *Area) Redo() error {
	return a.replay(true)
}

// replay pops a record from the undo stack (or the redo stack when redo is
// set) and performs its inverse with the ordinary layer primitives. Those
// primitives push a fresh record and clear the redo stack, so the redo stack
// is saved around the dispatch; when undoing, the freshly pushed record is
// then moved onto it.
func (a *Area) replay(redo bool) error {
	from := &a.undos
	if redo {
		from = &a.redos
	}
	if len(*from) == 0 {
		return nil
	}
	rec := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]

	redos := a.redos
	pushes := a.pushes
	err := a.invert(rec)
	a.redos = redos

	if err != nil {
		*from = append(*from, rec)
		return err
	}
	if !redo && a.pushes != pushes && len(a.undos) > 0 {
		top := a.undos[len(a.undos)-1]
		a.undos = a.undos[:len(a.undos)-1]
		a.redos = pushBounded(a.redos, top, a.limit)
	}
	return nil
}

func (a *Area) invert(rec Record) error {
	switch rec.Action {
	case ActionAddLayer:
		a.DeleteLayer(rec.Index)

	case ActionDeleteLayer:
		if _, err := a.CreateLayer(rec.Index, rec.State); err != nil {
			return err
		}

	case ActionMoveLayer:
		a.MoveLayer(rec.Index+rec.Delta, -rec.Delta)

	case ActionMergeDown:
		if err := rec.Below.validate(); err != nil {
			return err
		}
		if _, err := a.CreateLayer(rec.Index, rec.State); err != nil {
			return err
		}
		if l := a.Layer(rec.Index + 1); l != nil {
			l.restore(rec.Below)
		}
		// CreateLayer pushed an AddLayer record; undoing it must merge again.
		a.undos[len(a.undos)-1].Action = ActionUnmerge

	case ActionUnmerge:
		a.MergeDown(rec.Index)

	default:
		if err := rec.State.validate(); err != nil {
			return err
		}
		l := a.Layer(rec.Index)
		if l == nil {
			return nil
		}
		a.snap(Record{Action: ActionDraw, Index: rec.Index}, true)
		l.restore(rec.State)
	}
	return nil
}
