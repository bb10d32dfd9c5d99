package polystash

import (
	"fmt"
	"math"
	"time"
)

// Unit is the granularity an Expiration is expressed in.
type Unit uint8

const (
	UnitNever Unit = iota
	UnitMillis
	UnitSeconds
	UnitMinutes
	UnitHours
)

func (u Unit) factor() time.Duration {
	switch u {
	case UnitMillis:
		return time.Millisecond
	case UnitSeconds:
		return time.Second
	case UnitMinutes:
		return time.Minute
	case UnitHours:
		return time.Hour
	default:
		return 0
	}
}

func (u Unit) String() string {
	switch u {
	case UnitNever:
		return "never"
	case UnitMillis:
		return "ms"
	case UnitSeconds:
		return "s"
	case UnitMinutes:
		return "m"
	case UnitHours:
		return "h"
	default:
		return "unknown"
	}
}

// Expiration is the time-to-live attached to a single entry: either Never or
// a whole number of milliseconds, seconds, minutes or hours. The zero value is
// Never. Expirations are comparable with ==.
type Expiration struct {
	unit   Unit
	amount uint64
}

// Never is the policy of entries that only leave the cache by removal,
// replacement or capacity eviction.
var Never = Expiration{}

func Millis(n uint64) Expiration  { return Expiration{unit: UnitMillis, amount: n} }
func Seconds(n uint64) Expiration { return Expiration{unit: UnitSeconds, amount: n} }
func Minutes(n uint64) Expiration { return Expiration{unit: UnitMinutes, amount: n} }
func Hours(n uint64) Expiration   { return Expiration{unit: UnitHours, amount: n} }

func (e Expiration) Unit() Unit     { return e.unit }
func (e Expiration) Amount() uint64 { return e.amount }
func (e Expiration) IsNever() bool  { return e.unit == UnitNever }

// Duration resolves the policy. It returns false for Never. Products that do
// not fit a time.Duration saturate at the largest representable duration.
// A zero duration means the entry is due immediately.
func (e Expiration) Duration() (time.Duration, bool) {
	if e.IsNever() {
		return 0, false
	}
	f := e.unit.factor()
	if e.amount > uint64(math.MaxInt64/int64(f)) {
		return time.Duration(math.MaxInt64), true
	}
	return time.Duration(e.amount) * f, true
}

func (e Expiration) String() string {
	if e.IsNever() {
		return "never"
	}
	return fmt.Sprintf("%d%s", e.amount, e.unit)
}
