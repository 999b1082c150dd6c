package workload

import "math"

// DefaultBatchSize is tuned so one unit costs low-single-digit milliseconds
// on current server hardware. Start/stop latency is bounded by one unit.
const DefaultBatchSize = 20000

// Unit is a bounded quantum of primality-testing work. One Run tests a
// fixed batch of consecutive odd candidates above a rolling cursor and
// returns the number of primality tests performed, which is the operation
// unit counted for throughput. Pure CPU, no I/O, no allocations in the loop.
type Unit struct {
	batch  uint64
	cursor uint64
	primes uint64
}

func NewUnit(batchSize int) *Unit {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Unit{batch: uint64(batchSize), cursor: 3}
}

// Run executes one workload unit and returns the op count (= batch size).
func (u *Unit) Run() uint64 {
	var tested uint64
	n := u.cursor
	for tested < u.batch {
		if IsPrime(n) {
			u.primes++
		}
		tested++
		n += 2
		if n < 3 {
			n = 3 // wrapped around
		}
	}
	u.cursor = n
	return tested
}

// PrimesFound reports how many candidates tested so far were prime.
func (u *Unit) PrimesFound() uint64 {
	return u.primes
}

// IsPrime checks primality by trial division over odd divisors up to sqrt(n).
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	limit := uint64(math.Sqrt(float64(n)))
	for i := uint64(3); i <= limit; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
