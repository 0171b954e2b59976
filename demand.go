package rx

import (
	"fmt"
	"math"
)

// Demand is the number of values a [Subscriber] is willing to receive.
//
// The zero value is [None].
// [Unlimited] is a marker for an unbounded count;
// unlimited demand is never decremented.
type Demand uint64

const (
	// None indicates no additional demand.
	None Demand = 0

	// Unlimited indicates the subscriber accepts every value.
	Unlimited Demand = math.MaxUint64
)

// Max returns a bounded demand of n values.
// Max panics if n is negative.
func Max(n int) Demand {
	if n < 0 {
		panic(fmt.Errorf("demand must not be negative (got %d)", n))
	}
	return Demand(n)
}

// IsUnlimited reports whether d is [Unlimited].
func (d Demand) IsUnlimited() bool {
	return d == Unlimited
}

// Add returns the sum of d and o,
// saturating at [Unlimited].
func (d Demand) Add(o Demand) Demand {
	if d.IsUnlimited() || o.IsUnlimited() {
		return Unlimited
	}
	sum := d + o
	if sum < d {
		// Overflow.
		return Unlimited
	}
	return sum
}

func (d Demand) String() string {
	if d.IsUnlimited() {
		return "unlimited"
	}
	return fmt.Sprintf("max(%d)", uint64(d))
}
