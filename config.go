package polystash

import (
	"fmt"
	"time"

	"github.com/goelayush89/go-polystash/eviction"
)

type EvictionPolicy string

const (
	EvictionPolicyLRU     EvictionPolicy = EvictionPolicy(eviction.KindLRU)
	EvictionPolicyTinyLFU EvictionPolicy = EvictionPolicy(eviction.KindTinyLFU)
)

type Config struct {
	// MaxCapacity bounds the number of entries. 0 means unbounded.
	MaxCapacity int
	// Shards partitions the store for concurrency. MaxCapacity applies to
	// the whole cache; victims come from the fullest shard.
	Shards         int
	EvictionPolicy EvictionPolicy
	// SweepInterval runs RunPendingTasks on a ticker when positive.
	SweepInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxCapacity:    10000,
		Shards:         16,
		EvictionPolicy: EvictionPolicyLRU,
		SweepInterval:  10 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.MaxCapacity < 0 {
		return fmt.Errorf("MaxCapacity cannot be negative")
	}
	if c.Shards < 0 {
		return fmt.Errorf("Shards cannot be negative")
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("SweepInterval cannot be negative")
	}
	switch c.EvictionPolicy {
	case "", EvictionPolicyLRU:
	case EvictionPolicyTinyLFU:
		if c.MaxCapacity == 0 {
			return fmt.Errorf("MaxCapacity must be set when using TinyLFU eviction policy")
		}
	default:
		return fmt.Errorf("unknown EvictionPolicy %q", c.EvictionPolicy)
	}
	return nil
}
