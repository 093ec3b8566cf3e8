// Package scene holds the entity tree the application draws from. Entities may be
// registered under a scope and are despawned together when the scope is dropped.
package scene

import (
	"sort"

	"github.com/gdamore/tcell/v2"

	"igo-local/types"
)

// EntityID identifies a node. Zero is never assigned and means "no parent".
type EntityID uint64

// Kind says how a node is drawn.
type Kind int

const (
	KindPanel Kind = iota
	KindText
	KindButton
	KindCell
	KindBoard
)

func (k Kind) String() string {
	switch k {
	case KindPanel:
		return "panel"
	case KindText:
		return "text"
	case KindButton:
		return "button"
	case KindCell:
		return "cell"
	case KindBoard:
		return "board"
	}
	return "unknown"
}

// Node is a single entity.
type Node struct {
	ID         EntityID
	Kind       Kind
	Name       string
	Text       string
	Color      tcell.Color
	Background tcell.Color
	Visible    bool
	// Z orders roots; higher is drawn later.
	Z int
	// Slot orders siblings; a child is inserted after every sibling with a lower
	// or equal slot.
	Slot  int
	Pos   types.BoardPos
	Hoshi bool

	Parent   EntityID
	Children []EntityID
	OnClick  func()
}

// World owns every node.
type World struct {
	nextID EntityID
	nodes  map[EntityID]*Node
	roots  []EntityID
	scopes map[any][]EntityID
}

func NewWorld() *World {
	return &World{
		nodes:  map[EntityID]*Node{},
		scopes: map[any][]EntityID{},
	}
}

// Spawn adds n under parent (0 for a root) and registers it in scope when scope is
// not nil. Unknown parents make n a root.
func (w *World) Spawn(parent EntityID, scope any, n Node) *Node {
	w.nextID++
	n.ID = w.nextID
	n.Children = nil
	node := &n
	w.nodes[node.ID] = node

	if p, ok := w.nodes[parent]; ok && parent != 0 {
		node.Parent = parent
		p.Children = w.insertBySlot(p.Children, node)
	} else {
		node.Parent = 0
		w.roots = append(w.roots, node.ID)
	}
	if scope != nil {
		w.scopes[scope] = append(w.scopes[scope], node.ID)
	}
	return node
}

func (w *World) insertBySlot(ids []EntityID, n *Node) []EntityID {
	i := len(ids)
	for i > 0 && w.nodes[ids[i-1]].Slot > n.Slot {
		i--
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = n.ID
	return ids
}

// Despawn removes id and its descendants and returns how many nodes were removed.
func (w *World) Despawn(id EntityID) int {
	n, ok := w.nodes[id]
	if !ok {
		return 0
	}
	if p, ok := w.nodes[n.Parent]; ok {
		p.Children = without(p.Children, id)
	} else {
		w.roots = without(w.roots, id)
	}
	return w.despawnTree(n)
}

func (w *World) despawnTree(n *Node) int {
	count := 1
	for _, c := range n.Children {
		if child, ok := w.nodes[c]; ok {
			count += w.despawnTree(child)
		}
	}
	delete(w.nodes, n.ID)
	return count
}

// DespawnScope removes every live node registered under scope, with descendants.
func (w *World) DespawnScope(scope any) int {
	ids := w.scopes[scope]
	delete(w.scopes, scope)
	count := 0
	for _, id := range ids {
		count += w.Despawn(id)
	}
	return count
}

// Get returns the node with id.
func (w *World) Get(id EntityID) (*Node, bool) {
	n, ok := w.nodes[id]
	return n, ok
}

// Len returns the number of live nodes.
func (w *World) Len() int {
	return len(w.nodes)
}

// ScopeLen returns the number of live nodes registered under scope.
func (w *World) ScopeLen(scope any) int {
	count := 0
	for _, id := range w.scopes[scope] {
		if _, ok := w.nodes[id]; ok {
			count++
		}
	}
	return count
}

// Roots returns root nodes ordered by Z, then by spawn order.
func (w *World) Roots() []*Node {
	roots := make([]*Node, 0, len(w.roots))
	for _, id := range w.roots {
		roots = append(roots, w.nodes[id])
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Z < roots[j].Z })
	return roots
}

// Children returns the children of id in slot order.
func (w *World) Children(id EntityID) []*Node {
	n, ok := w.nodes[id]
	if !ok {
		return nil
	}
	children := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, w.nodes[c])
	}
	return children
}

// Find returns every node of kind in spawn order.
func (w *World) Find(kind Kind) []*Node {
	var found []*Node
	for _, n := range w.nodes {
		if n.Kind == kind {
			found = append(found, n)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found
}

// Buttons returns the buttons of the topmost visible panel in tree order. Panels
// drawn over others capture input.
func (w *World) Buttons() []*Node {
	roots := w.Roots()
	for i := len(roots) - 1; i >= 0; i-- {
		r := roots[i]
		if r.Kind != KindPanel || !r.Visible {
			continue
		}
		var buttons []*Node
		w.walk(r, func(n *Node) {
			if n.Kind == KindButton {
				buttons = append(buttons, n)
			}
		})
		if len(buttons) > 0 {
			return buttons
		}
	}
	return nil
}

// Button returns the clickable button labelled text.
func (w *World) Button(text string) (*Node, bool) {
	for _, b := range w.Buttons() {
		if b.Text == text {
			return b, true
		}
	}
	return nil, false
}

// Walk visits n and its descendants depth first.
func (w *World) Walk(n *Node, fn func(*Node)) {
	w.walk(n, fn)
}

func (w *World) walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		if child, ok := w.nodes[c]; ok {
			w.walk(child, fn)
		}
	}
}

func without(ids []EntityID, id EntityID) []EntityID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
