package nodebalance

import (
	"slices"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// registry is the roster shared by every strategy. nodes keeps insertion
// order; index mirrors it by identity so that Get and Size never lock.
// Everything strategy specific is mutated only while mtx is held for writing.
type registry struct {
	strategy Strategy
	mtx      sync.RWMutex
	nodes    []*Node
	index    *haxmap.Map[string, *Node]

	// called with the write lock held
	onAdd    func(*Node)
	onRemove func(*Node)

	logger  log.Logger
	metrics *Metrics
}

func newRegistry(s Strategy, o options) *registry {
	return &registry{
		strategy: s,
		nodes:    make([]*Node, 0, 8),
		index:    haxmap.New[string, *Node](8),
		logger:   log.With(o.logger, "strategy", s),
		metrics:  o.metrics,
	}
}

func (r *registry) Strategy() Strategy {
	return r.strategy
}

func (r *registry) AddNode(node *Node) (bool, error) {
	if node == nil {
		return false, errors.Wrap(ErrInvalidArgument, "cannot add a nil node")
	}
	if !r.mtx.TryLock() {
		r.metrics.operation(r.strategy, operationAdd, resultBusy)
		return false, nil
	}
	defer r.mtx.Unlock()

	id := node.ID()
	if _, ok := r.index.Get(id); ok {
		r.metrics.operation(r.strategy, operationAdd, resultDuplicate)
		level.Debug(r.logger).Log("msg", "node already registered", "node", id)
		return false, nil
	}
	r.nodes = append(r.nodes, node)
	r.index.Set(id, node)
	if r.onAdd != nil {
		r.onAdd(node)
	}

	r.metrics.operation(r.strategy, operationAdd, resultApplied)
	r.metrics.nodesDelta(r.strategy, 1)
	level.Info(r.logger).Log("msg", "node added", "node", id, "load", float64(node.Load()), "weight", node.Weight().Value(), "nodes", len(r.nodes))
	return true, nil
}

func (r *registry) RemoveNode(node *Node) (bool, error) {
	if node == nil {
		return false, errors.Wrap(ErrInvalidArgument, "cannot remove a nil node")
	}
	if !r.mtx.TryLock() {
		r.metrics.operation(r.strategy, operationRemove, resultBusy)
		return false, nil
	}
	defer r.mtx.Unlock()

	id := node.ID()
	i := slices.IndexFunc(r.nodes, func(n *Node) bool { return n.ID() == id })
	if i < 0 {
		r.metrics.operation(r.strategy, operationRemove, resultNotFound)
		return false, nil
	}
	removed := r.nodes[i]
	r.nodes = slices.Delete(r.nodes, i, i+1)
	r.index.Del(id)
	if r.onRemove != nil {
		r.onRemove(removed)
	}

	r.metrics.operation(r.strategy, operationRemove, resultApplied)
	r.metrics.nodesDelta(r.strategy, -1)
	level.Info(r.logger).Log("msg", "node removed", "node", id, "nodes", len(r.nodes))
	return true, nil
}

func (r *registry) ListNodes() []*Node {
	if !r.mtx.TryRLock() {
		return []*Node{}
	}
	defer r.mtx.RUnlock()

	nodes := make([]*Node, len(r.nodes))
	copy(nodes, r.nodes)
	return nodes
}

func (r *registry) Get(id string) (*Node, bool) {
	return r.index.Get(id)
}

func (r *registry) Size() int {
	return int(r.index.Len())
}

// selectWith runs pick over the roster with the write lock held. pick is
// never called with an empty roster.
func (r *registry) selectWith(pick func(nodes []*Node) (*Node, error)) (*Node, error) {
	if !r.mtx.TryLock() {
		r.metrics.selection(r.strategy, resultBusy)
		return nil, nil
	}
	defer r.mtx.Unlock()

	if len(r.nodes) == 0 {
		r.metrics.selection(r.strategy, resultFailed)
		return nil, errors.Wrap(ErrPreconditionFailed, "no nodes registered")
	}
	node, err := pick(r.nodes)
	if err != nil {
		r.metrics.selection(r.strategy, resultFailed)
		level.Debug(r.logger).Log("msg", "selection failed", "nodes", len(r.nodes), "err", err)
		return nil, err
	}

	r.metrics.selection(r.strategy, resultSelected)
	level.Debug(r.logger).Log("msg", "node selected", "node", node.ID(), "load", float64(node.Load()), "weight", node.Weight().Value())
	return node, nil
}

// tryUpdate runs fn with the write lock held and reports whether the lock
// could be taken.
func (r *registry) tryUpdate(fn func()) bool {
	if !r.mtx.TryLock() {
		return false
	}
	defer r.mtx.Unlock()
	fn()
	return true
}
