package nodebalance

import (
	"github.com/alphadose/haxmap"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// WeightedRoundRobin rotates over the roster like RoundRobin but gives each
// node only as many selections per round as its weight. A node whose
// remaining capacity reaches zero is skipped; once every node is drained the
// capacities are refilled from the nodes' current weights and a new round
// begins.
//
// A node with weight 0 is never selected unless it is the only node
// registered. Weight changes take effect at the next refill.
//
// Each selection scans the roster linearly, so this is meant for tens or
// hundreds of nodes, not for very large fleets.
type WeightedRoundRobin struct {
	*registry
	cursor int
	// remaining capacity per node ID, one entry per registered node
	remaining *haxmap.Map[string, int64]
}

func NewWeightedRoundRobin(opts ...Option) *WeightedRoundRobin {
	wrr := &WeightedRoundRobin{
		registry:  newRegistry(StrategyWeightedRoundRobin, newOptions(opts)),
		remaining: haxmap.New[string, int64](8),
	}
	wrr.onAdd = func(n *Node) {
		wrr.remaining.Set(n.ID(), n.Weight().Value())
	}
	wrr.onRemove = func(n *Node) {
		wrr.remaining.Del(n.ID())
	}
	return wrr
}

// RemainingCapacity returns how many more selections node id can receive in
// the current round.
func (wrr *WeightedRoundRobin) RemainingCapacity(id string) (int64, bool) {
	return wrr.remaining.Get(id)
}

func (wrr *WeightedRoundRobin) SelectNode() (*Node, error) {
	return wrr.selectWith(func(nodes []*Node) (*Node, error) {
		if len(nodes) == 1 {
			return nodes[0], nil
		}
		if wrr.drained() {
			wrr.refill(nodes)
			if wrr.drained() {
				return nil, errors.Wrap(ErrPreconditionFailed, "no registered node has a positive weight")
			}
		}

		// drained() is false, so some node has capacity left and this ends
		// within one pass over the roster.
		for {
			idx := wrr.cursor % len(nodes)
			wrr.cursor = idx + 1
			node := nodes[idx]
			if left, _ := wrr.remaining.Get(node.ID()); left > 0 {
				wrr.remaining.Set(node.ID(), left-1)
				return node, nil
			}
		}
	})
}

func (wrr *WeightedRoundRobin) drained() bool {
	drained := true
	wrr.remaining.ForEach(func(_ string, left int64) bool {
		if left > 0 {
			drained = false
		}
		return drained
	})
	return drained
}

// refill rebuilds the capacity map from the roster, dropping anything left
// over from nodes that are no longer registered.
func (wrr *WeightedRoundRobin) refill(nodes []*Node) {
	stale := make([]string, 0, wrr.remaining.Len())
	wrr.remaining.ForEach(func(id string, _ int64) bool {
		stale = append(stale, id)
		return true
	})
	for _, id := range stale {
		wrr.remaining.Del(id)
	}
	for _, n := range nodes {
		wrr.remaining.Set(n.ID(), n.Weight().Value())
	}
	level.Debug(wrr.logger).Log("msg", "remaining capacity refilled", "nodes", len(nodes))
}
