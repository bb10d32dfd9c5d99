package polystash

import "sync/atomic"

type Metrics struct {
	Hits           atomic.Uint64
	Misses         atomic.Uint64
	Inserts        atomic.Uint64
	Loads          atomic.Uint64
	Removals       atomic.Uint64
	Replacements   atomic.Uint64
	Expirations    atomic.Uint64
	Evictions      atomic.Uint64
	EncodeErrors   atomic.Uint64
	DecodeErrors   atomic.Uint64
	ListenerPanics atomic.Uint64
}

type MetricsSnapshot struct {
	Hits           uint64
	Misses         uint64
	Inserts        uint64
	Loads          uint64
	Removals       uint64
	Replacements   uint64
	Expirations    uint64
	Evictions      uint64
	EncodeErrors   uint64
	DecodeErrors   uint64
	ListenerPanics uint64
	HitRate        float64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	hits := m.Hits.Load()
	misses := m.Misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return MetricsSnapshot{
		Hits:           hits,
		Misses:         misses,
		Inserts:        m.Inserts.Load(),
		Loads:          m.Loads.Load(),
		Removals:       m.Removals.Load(),
		Replacements:   m.Replacements.Load(),
		Expirations:    m.Expirations.Load(),
		Evictions:      m.Evictions.Load(),
		EncodeErrors:   m.EncodeErrors.Load(),
		DecodeErrors:   m.DecodeErrors.Load(),
		ListenerPanics: m.ListenerPanics.Load(),
		HitRate:        hitRate,
	}
}

func (m *Metrics) Reset() {
	m.Hits.Store(0)
	m.Misses.Store(0)
	m.Inserts.Store(0)
	m.Loads.Store(0)
	m.Removals.Store(0)
	m.Replacements.Store(0)
	m.Expirations.Store(0)
	m.Evictions.Store(0)
	m.EncodeErrors.Store(0)
	m.DecodeErrors.Store(0)
	m.ListenerPanics.Store(0)
}
