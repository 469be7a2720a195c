// Package nodebalance chooses which backend node receives the next unit of
// work. It holds a mutable roster of nodes and one of three selection
// strategies; it never dials, proxies or health-checks anything itself.
//
// Every selector guards its roster with a single read-write lock and never
// waits for it: an operation that cannot take the lock immediately returns its
// no-op result (a nil node, false, or an empty listing) and the caller decides
// whether to retry.
package nodebalance

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument reports a caller bug: a nil node, a negative weight,
	// a non-positive number of random choices or an unknown strategy.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPreconditionFailed reports that the current roster cannot satisfy a
	// selection: it is empty, it holds fewer nodes than the number of random
	// choices, or no node has any weight left to allocate.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// Strategy names the selection algorithm bound to a selector.
type Strategy int

const (
	StrategyRandomRChoices Strategy = iota
	StrategyRoundRobin
	StrategyWeightedRoundRobin
)

var strategyNames = map[Strategy]string{
	StrategyRandomRChoices:     "random-r-choices",
	StrategyRoundRobin:         "round-robin",
	StrategyWeightedRoundRobin: "weighted-round-robin",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown strategy %q", name)
}

// StrategyNames lists the accepted strategy names.
func StrategyNames() []string {
	return []string{
		StrategyRoundRobin.String(),
		StrategyWeightedRoundRobin.String(),
		StrategyRandomRChoices.String(),
	}
}

// Selector is implemented by RoundRobin, WeightedRoundRobin and
// RandomRChoices.
type Selector interface {
	// SelectNode returns the node that should receive the next unit of work.
	// A nil node with a nil error means the selector was busy.
	SelectNode() (*Node, error)
	// ListNodes returns a copy of the roster in insertion order. It is empty
	// when the roster is empty or the selector was busy.
	ListNodes() []*Node
	// AddNode appends node to the roster. It returns false when the selector
	// was busy or a node with the same identity is already registered.
	AddNode(node *Node) (bool, error)
	// RemoveNode removes the node with the same identity. It returns false
	// when the selector was busy or no such node is registered.
	RemoveNode(node *Node) (bool, error)
	// Get looks a registered node up by identifier without locking.
	Get(id string) (*Node, bool)
	// Size returns the number of registered nodes without locking.
	Size() int
	Strategy() Strategy
}

var (
	_ Selector = (*RoundRobin)(nil)
	_ Selector = (*WeightedRoundRobin)(nil)
	_ Selector = (*RandomRChoices)(nil)
)
