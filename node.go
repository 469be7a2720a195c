package nodebalance

import (
	"fmt"

	"go.uber.org/atomic"
)

// Node is a backend that can receive work. Its identity is fixed at
// construction; load and weight may be replaced at any time by whatever
// instrumentation feeds them, without holding any selector lock.
type Node struct {
	id     string
	load   *atomic.Float64
	weight *atomic.Int64
}

// NewNode creates a node whose identity is taken from ids. ids is called
// exactly once. The node starts with zero load and zero weight.
func NewNode(ids IDProvider) *Node {
	return &Node{
		id:     ids.ID(),
		load:   atomic.NewFloat64(0),
		weight: atomic.NewInt64(0),
	}
}

// ID returns the node's identity. Two nodes with the same ID are the same
// node as far as every selector is concerned.
func (n *Node) ID() string {
	return n.id
}

// Equal reports whether n and o share the same identity, regardless of
// their load and weight.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.id == o.id
}

func (n *Node) Load() Load {
	return Load(n.load.Load())
}

func (n *Node) SetLoad(l Load) {
	n.load.Store(float64(l))
}

func (n *Node) Weight() Weight {
	return Weight{v: n.weight.Load()}
}

func (n *Node) SetWeight(w Weight) {
	n.weight.Store(w.v)
}

func (n *Node) String() string {
	return fmt.Sprintf("Node[id:%s, %s, %s]", n.id, n.Load(), n.Weight())
}
