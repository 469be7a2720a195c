package nodebalance

import (
	"math/rand/v2"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// RandomRChoices samples r distinct nodes at random and picks the least
// loaded of them. Looking at a few random candidates instead of the whole
// roster keeps a burst of requests from piling onto the single globally
// least loaded node.
//
// Ties on load go to the candidate sampled first.
type RandomRChoices struct {
	*registry
	r   int
	rng *rand.Rand
}

// NewRandomRChoices returns a selector that samples r candidates per
// selection. r must be at least 1. The roster may hold fewer than r nodes
// while it is being populated, but SelectNode fails until it holds r.
func NewRandomRChoices(r int, opts ...Option) (*RandomRChoices, error) {
	if err := validateRandomChoices(r); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &RandomRChoices{
		registry: newRegistry(StrategyRandomRChoices, o),
		r:        r,
		rng:      rand.New(NewXorShift64(o.seed)),
	}, nil
}

func validateRandomChoices(r int) error {
	if r < 1 {
		return errors.Wrapf(ErrInvalidArgument, "random choices must be at least 1, got %d", r)
	}
	return nil
}

// RandomChoices returns the number of candidates currently sampled per
// selection, or 0 when the selector was busy.
func (rc *RandomRChoices) RandomChoices() int {
	if !rc.mtx.TryRLock() {
		return 0
	}
	defer rc.mtx.RUnlock()
	return rc.r
}

// OverrideRandomChoices changes the number of candidates sampled by later
// selections. It returns false when the selector was busy.
func (rc *RandomRChoices) OverrideRandomChoices(r int) (bool, error) {
	if err := validateRandomChoices(r); err != nil {
		return false, err
	}
	var previous int
	changed := rc.tryUpdate(func() {
		previous = rc.r
		rc.r = r
	})
	if !changed {
		rc.metrics.operation(rc.strategy, operationOverride, resultBusy)
		return false, nil
	}
	rc.metrics.operation(rc.strategy, operationOverride, resultApplied)
	level.Info(rc.logger).Log("msg", "random choices overridden", "previous", previous, "random_choices", r)
	return true, nil
}

func (rc *RandomRChoices) SelectNode() (*Node, error) {
	return rc.selectWith(func(nodes []*Node) (*Node, error) {
		if len(nodes) < rc.r {
			return nil, errors.Wrapf(ErrPreconditionFailed, "%d random choices requested but only %d nodes registered", rc.r, len(nodes))
		}

		var (
			best     *Node
			bestLoad Load
		)
		for _, idx := range sampleDistinct(rc.rng, len(nodes), rc.r) {
			n := nodes[idx]
			if l := n.Load(); best == nil || l.Less(bestLoad) {
				best, bestLoad = n, l
			}
		}
		return best, nil
	})
}

// sampleDistinct draws r distinct indices from [0, n) in the order they were
// drawn. It requires 0 < r <= n.
func sampleDistinct(rng *rand.Rand, n, r int) []int {
	picked := make([]int, 0, r)
	seen := make(map[int]struct{}, r)
	for len(picked) < r {
		idx := rng.IntN(n)
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		picked = append(picked, idx)
	}
	return picked
}
