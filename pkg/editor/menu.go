package editor

import (
	"fmt"

	"github.com/ha1tch/gasplan/pkg/plan"
)

// MenuAction is a context-menu command.
type MenuAction string

const (
	ActionDelete MenuAction = "DELETE"
	ActionRotate MenuAction = "ROTATE"
)

// ContextMenu is an open context menu. Target is captured when the menu
// opens and is what the chosen action applies to, whatever the selection
// is by then.
type ContextMenu struct {
	Kind    plan.EntityKind
	Target  string
	Actions []MenuAction
}

// OpenContextMenu opens a menu for an entity and returns it.
func (e *Editor) OpenContextMenu(kind plan.EntityKind, id string) (ContextMenu, error) {
	if !e.exists(kind, id) {
		return ContextMenu{}, fmt.Errorf("%w: %s %s", plan.ErrUnknownEntity, kind, id)
	}
	actions := []MenuAction{ActionDelete}
	if kind == plan.EntityItem || kind == plan.EntityDrawable {
		actions = append(actions, ActionRotate)
	}
	e.menu = &ContextMenu{Kind: kind, Target: id, Actions: actions}
	return *e.menu, nil
}

// Menu returns the open context menu, if any.
func (e *Editor) Menu() (ContextMenu, bool) {
	if e.menu == nil {
		return ContextMenu{}, false
	}
	return *e.menu, true
}

// CloseMenu dismisses the context menu.
func (e *Editor) CloseMenu() {
	e.menu = nil
}

// ApplyMenu runs an action on the menu's captured target and closes it.
// ROTATE turns by +90 degrees.
func (e *Editor) ApplyMenu(action MenuAction) error {
	m := e.menu
	if m == nil {
		return fmt.Errorf("no context menu open")
	}
	e.menu = nil
	switch action {
	case ActionDelete:
		return e.Delete(m.Kind, m.Target)
	case ActionRotate:
		return e.Rotate(m.Kind, m.Target, 90)
	}
	return fmt.Errorf("unknown menu action %q", action)
}

func (e *Editor) exists(kind plan.EntityKind, id string) bool {
	switch kind {
	case plan.EntityItem:
		_, ok := e.doc.Item(id)
		return ok
	case plan.EntityConnection:
		_, ok := e.doc.Connection(id)
		return ok
	case plan.EntityDrawable:
		_, ok := e.doc.Drawable(id)
		return ok
	case plan.EntityBackground:
		_, ok := e.doc.BackgroundEntity(id)
		return ok
	}
	return false
}
