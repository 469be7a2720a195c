package nodebalance

// RoundRobin hands out nodes one after another in insertion order.
type RoundRobin struct {
	*registry
	cursor int
}

func NewRoundRobin(opts ...Option) *RoundRobin {
	return &RoundRobin{
		registry: newRegistry(StrategyRoundRobin, newOptions(opts)),
	}
}

func (rr *RoundRobin) SelectNode() (*Node, error) {
	return rr.selectWith(func(nodes []*Node) (*Node, error) {
		if len(nodes) == 1 {
			return nodes[0], nil
		}
		idx := rr.cursor % len(nodes)
		rr.cursor = idx + 1
		return nodes[idx], nil
	})
}
