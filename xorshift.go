package nodebalance

// XorShift64 is a xorshift64 pseudo random generator. It satisfies
// math/rand/v2's Source. It is not safe for concurrent use.
type XorShift64 struct {
	state uint64
}

// NewXorShift64 seeds a generator. A zero seed would only ever produce zero,
// so it is replaced with a fixed non-zero constant.
func NewXorShift64(seed uint64) *XorShift64 {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &XorShift64{state: seed}
}

func (xs *XorShift64) Uint64() uint64 {
	x := xs.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	xs.state = x
	return x
}
