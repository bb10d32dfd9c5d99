// Package polystash is an in-process cache whose entries each carry their
// own expiration policy.
//
// Values are encoded with a Codec (gob by default) so a single Cache can
// hold values of many types:
//
//	c, _ := polystash.New(polystash.DefaultConfig())
//	polystash.Insert(c, "user:1", user, polystash.Minutes(5))
//	_, u, ok := polystash.Get[User](c, "user:1")
//
// # Expiration
//
// An entry expires when the duration of its Expiration has elapsed since it
// was inserted or last refreshed. Expiry is not exact: expired entries are
// hidden from reads at once, removed when a read touches them, and removed
// in bulk by RunPendingTasks, which Config.SweepInterval can schedule.
//
// # Eviction
//
// EvictionListeners see every removal with its Cause: explicit removal,
// replacement by Insert, expiration, or capacity eviction. Overwriting a
// live key reports the old entry as CauseReplaced.
//
// # Concurrency
//
// Cache methods and the generic helpers are safe for concurrent use. The
// global package offers a process-wide, set-once Cache for programs that
// prefer package-level calls.
package polystash
