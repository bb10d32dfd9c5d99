package eviction

import (
	"math"
	"math/bits"
	"sync/atomic"
)

const counterMax = 15

var rowSeeds = [...]uint64{
	0xc3a5c85c97cb3127,
	0xb492b66fbe98f273,
	0x9ae16a3b2f90404f,
	0xcbf29ce484222325,
}

// CountMinSketch estimates access frequency with 4-bit saturating counters.
// Keys are pre-hashed to uint64 by the caller.
type CountMinSketch struct {
	rows    int
	cols    uint64
	matrix  [][]uint8
	counter atomic.Uint64
}

func NewCountMinSketch(width, depth int) *CountMinSketch {
	if depth > len(rowSeeds) {
		depth = len(rowSeeds)
	}
	matrix := make([][]uint8, depth)
	for i := range matrix {
		matrix[i] = make([]uint8, width)
	}
	return &CountMinSketch{
		rows:   depth,
		cols:   uint64(width),
		matrix: matrix,
	}
}

// NewCountMinSketchWithSize sizes the sketch for roughly expectedItems keys.
func NewCountMinSketchWithSize(expectedItems int) *CountMinSketch {
	width := int(math.Ceil(float64(expectedItems) / 4))
	width = max(width, 256)
	width = min(width, 65536)
	return NewCountMinSketch(width, 4)
}

// Increment bumps every row for hash and returns the new estimate.
func (c *CountMinSketch) Increment(hash uint64) uint8 {
	c.counter.Add(1)
	estimate := uint8(math.MaxUint8)
	for row := 0; row < c.rows; row++ {
		idx := c.index(row, hash)
		val := c.matrix[row][idx]
		if val < counterMax {
			val++
			c.matrix[row][idx] = val
		}
		estimate = min(estimate, val)
	}
	return estimate
}

func (c *CountMinSketch) Estimate(hash uint64) uint8 {
	estimate := uint8(math.MaxUint8)
	for row := 0; row < c.rows; row++ {
		estimate = min(estimate, c.matrix[row][c.index(row, hash)])
	}
	return estimate
}

// Reset halves every counter so old popularity decays.
func (c *CountMinSketch) Reset() {
	for _, row := range c.matrix {
		for j := range row {
			row[j] >>= 1
		}
	}
	c.counter.Store(0)
}

// Count is the number of increments since the last Reset.
func (c *CountMinSketch) Count() uint64 {
	return c.counter.Load()
}

func (c *CountMinSketch) index(row int, hash uint64) uint64 {
	h := (hash ^ rowSeeds[row]) * 0x9e3779b97f4a7c15
	h ^= bits.RotateLeft64(h, 31)
	return h % c.cols
}
