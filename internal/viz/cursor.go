package viz

import (
	"math"

	"github.com/san-kum/advsim/internal/grid"
)

// Cursor indexes a history. Next and Previous wrap around both ends.
type Cursor struct {
	history []grid.Field
	index   int
}

func NewCursor(history []grid.Field) Cursor {
	return Cursor{history: history}
}

func (c *Cursor) Len() int   { return len(c.history) }
func (c *Cursor) Index() int { return c.index }

// Slice returns the current snapshot, or nil for an empty history.
func (c *Cursor) Slice() grid.Field {
	if len(c.history) == 0 {
		return nil
	}
	return c.history[c.index]
}

func (c *Cursor) Next() int {
	return c.Seek(c.index + 1)
}

func (c *Cursor) Previous() int {
	return c.Seek(c.index - 1)
}

// Seek moves to i modulo the history length.
func (c *Cursor) Seek(i int) int {
	n := len(c.history)
	if n == 0 {
		c.index = 0
		return 0
	}
	c.index = ((i % n) + n) % n
	return c.index
}

// Limits returns fixed y-limits covering every finite value in history,
// widened by 5% away from zero at each end. A flat history is padded by
// one unit so the range never collapses.
func Limits(history []grid.Field) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, u := range history {
		for _, v := range u {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return -1, 1
	}

	if lo > 0 {
		lo *= 0.95
	} else {
		lo *= 1.05
	}
	if hi > 0 {
		hi *= 1.05
	} else {
		hi *= 0.95
	}

	if !(hi > lo) {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}
