package translate

import (
	"github.com/roach88/sql2ra/internal/ra"
)

// nodeID addresses a node in a Tree's arena.
type nodeID int

const noNode nodeID = -1

// nodeState is the fold state of an intermediate node.
//
// Transitions (see Fold):
//
//	stateRelation ─────────────────────────────┐
//	stateCross     ── both children carry expr ─┤
//	stateSelection ── child carries expr ───────┼─▶ stateResolved
//	stateProjection ─ child carries expr ───────┘
//
// A selection or projection may also be absorbed by its parent of the
// same kind, in which case it resolves to its child's expression.
type nodeState int

const (
	stateRelation   nodeState = iota + 1 // leaf holding a RelRef or Rename
	stateSelection                       // holds one predicate
	stateProjection                      // holds attributes, accumulated during fold
	stateCross                           // pairs left and right
	stateResolved                        // holds the folded expression of its subtree
)

var stateNames = map[nodeState]string{
	stateRelation:   "relation",
	stateSelection:  "selection",
	stateProjection: "projection",
	stateCross:      "cross",
	stateResolved:   "resolved",
}

func (s nodeState) String() string {
	return stateNames[s]
}

type node struct {
	state  nodeState
	expr   ra.RelExpr   // stateRelation, stateResolved
	pred   ra.ValExpr   // stateSelection
	attrs  []*ra.AttrRef // stateProjection
	parent nodeID
	left   nodeID
	right  nodeID
}

// hasExpr reports whether the node's payload is a relation expression.
func (n *node) hasExpr() bool {
	return n.state == stateRelation || n.state == stateResolved
}

// Tree is the intermediate tree a statement is assembled in.
//
// Relations are inserted first, then selections, then projections. Fold
// turns the tree into a single RA expression. A Tree serves exactly one
// translation.
type Tree struct {
	nodes []node
	root  nodeID
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: noNode}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) add(n node) nodeID {
	n.parent, n.left, n.right = noNode, noNode, noNode
	t.nodes = append(t.nodes, n)
	return nodeID(len(t.nodes) - 1)
}

// InsertRelation adds a relation to the cross-product chain.
//
//   - empty tree: the relation becomes the root
//   - relation root, or cross root with both children: a new cross root
//     pairs the old root (left) with the relation (right)
//   - cross root with an empty right child: the relation fills it
func (t *Tree) InsertRelation(expr ra.RelExpr) error {
	if t.root == noNode {
		t.root = t.add(node{state: stateRelation, expr: expr})
		return nil
	}

	root := &t.nodes[t.root]
	switch root.state {
	case stateRelation:
		t.insertCross(expr)
	case stateCross:
		if root.right == noNode {
			id := t.add(node{state: stateRelation, expr: expr})
			t.nodes[id].parent = t.root
			t.nodes[t.root].right = id
			return nil
		}
		t.insertCross(expr)
	default:
		return structural("relation %s inserted above a %s node", expr, root.state)
	}
	return nil
}

func (t *Tree) insertCross(expr ra.RelExpr) {
	left := t.root
	right := t.add(node{state: stateRelation, expr: expr})
	cross := t.add(node{state: stateCross})

	t.nodes[cross].left = left
	t.nodes[cross].right = right
	t.nodes[left].parent = cross
	t.nodes[right].parent = cross
	t.root = cross
}

// InsertSelection wraps the current root in a selection on pred.
func (t *Tree) InsertSelection(pred ra.ValExpr) error {
	return t.wrap(node{state: stateSelection, pred: pred})
}

// InsertProjection wraps the current root in a projection of attr.
func (t *Tree) InsertProjection(attr *ra.AttrRef) error {
	return t.wrap(node{state: stateProjection, attrs: []*ra.AttrRef{attr}})
}

func (t *Tree) wrap(n node) error {
	if t.root == noNode {
		return structural("%s inserted into an empty tree", n.state)
	}
	id := t.add(n)
	t.nodes[id].left = t.root
	t.nodes[t.root].parent = id
	t.root = id
	return nil
}

// leftmost returns the node reached by following left links from the root:
// the first relation inserted.
func (t *Tree) leftmost() nodeID {
	id := t.root
	for t.nodes[id].left != noNode {
		id = t.nodes[id].left
	}
	return id
}

// Fold converts the tree into its RA expression.
//
// Folding starts at the leftmost leaf and walks parent links to the root.
// At every step the current node carries a relation expression, and its
// parent is resolved according to the parent's state:
//
//   - cross: Cross(left, right) once both children carry expressions
//   - selection under a selection: the two predicates merge into the outer
//     node as (inner and outer); the inner node passes its input through
//   - selection: Select(pred, current)
//   - projection under a projection: the inner attributes are prepended to
//     the outer node's list; the inner node passes its input through
//   - projection at the root: Project(attrs, current)
//
// Consecutive selections therefore fold into one Select with a left-deep
// conjunction in clause order, and consecutive projections into one
// Project listing the attributes in SELECT order.
func (t *Tree) Fold() (ra.RelExpr, error) {
	if t.root == noNode {
		return nil, malformed("", "statement has no relations")
	}

	cur := t.leftmost()
	for steps := 0; steps <= len(t.nodes); steps++ {
		n := &t.nodes[cur]
		if !n.hasExpr() {
			return nil, structural("fold reached an unresolved %s node", n.state)
		}
		if n.parent == noNode {
			return n.expr, nil
		}

		var err error
		parent := n.parent
		switch t.nodes[parent].state {
		case stateCross:
			err = t.foldCross(parent)
		case stateSelection:
			err = t.foldSelection(cur, parent)
		case stateProjection:
			err = t.foldProjection(cur, parent)
		default:
			err = structural("%s node has a %s parent", n.state, t.nodes[parent].state)
		}
		if err != nil {
			return nil, err
		}
		cur = parent
	}
	return nil, structural("fold did not reach the root")
}

func (t *Tree) foldCross(id nodeID) error {
	c := &t.nodes[id]
	if c.left == noNode || c.right == noNode {
		return structural("cross node is missing an operand")
	}
	left, right := &t.nodes[c.left], &t.nodes[c.right]
	if !left.hasExpr() || !right.hasExpr() {
		return structural("cross operands are %s and %s", left.state, right.state)
	}
	c.expr = &ra.Cross{Left: left.expr, Right: right.expr}
	c.state = stateResolved
	return nil
}

func (t *Tree) foldSelection(cur, id nodeID) error {
	s := &t.nodes[id]
	input := t.nodes[cur].expr

	if s.parent != noNode && t.nodes[s.parent].state == stateSelection {
		outer := &t.nodes[s.parent]
		outer.pred = ra.And(s.pred, outer.pred)
		s.pred = nil
		s.expr = input
		s.state = stateResolved
		return nil
	}

	s.expr = &ra.Select{Cond: s.pred, Input: input}
	s.pred = nil
	s.state = stateResolved
	return nil
}

func (t *Tree) foldProjection(cur, id nodeID) error {
	p := &t.nodes[id]
	input := t.nodes[cur].expr

	if p.parent == noNode {
		p.expr = &ra.Project{Attrs: p.attrs, Input: input}
		p.attrs = nil
		p.state = stateResolved
		return nil
	}

	outer := &t.nodes[p.parent]
	if outer.state != stateProjection {
		return structural("projection node has a %s parent", outer.state)
	}
	outer.attrs = append(append([]*ra.AttrRef{}, p.attrs...), outer.attrs...)
	p.attrs = nil
	p.expr = input
	p.state = stateResolved
	return nil
}
