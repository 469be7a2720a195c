package nodebalance

import (
	"cmp"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Load is the utilization reported for a node. Lower is less busy.
type Load float64

// Compare returns -1, 0 or +1 depending on whether l is less than, equal to
// or greater than o. NaN orders above every number, so a node reporting an
// unknown load is never preferred over one reporting a real value.
func (l Load) Compare(o Load) int {
	ln, on := math.IsNaN(float64(l)), math.IsNaN(float64(o))
	switch {
	case ln && on:
		return 0
	case ln:
		return 1
	case on:
		return -1
	}
	return cmp.Compare(l, o)
}

func (l Load) Less(o Load) bool {
	return l.Compare(o) < 0
}

func (l Load) String() string {
	return "load:" + strconv.FormatFloat(float64(l), 'g', -1, 64)
}

// Weight is a node's relative capacity share. It is never negative; the zero
// value is a weight of 0.
type Weight struct {
	v int64
}

// NewWeight returns a Weight of v, or ErrInvalidArgument when v is negative.
func NewWeight(v int64) (Weight, error) {
	if v < 0 {
		return Weight{}, errors.Wrapf(ErrInvalidArgument, "weight %d cannot be negative", v)
	}
	return Weight{v: v}, nil
}

// MustWeight is like NewWeight but panics on a negative value.
func MustWeight(v int64) Weight {
	w, err := NewWeight(v)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Weight) Value() int64 {
	return w.v
}

func (w Weight) Compare(o Weight) int {
	return cmp.Compare(w.v, o.v)
}

func (w Weight) String() string {
	return "weight:" + strconv.FormatInt(w.v, 10)
}
