package render

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/evecs/pkg/generic"
)

// Pool recycles sprites by shape parameters. Sprites obtained from a Pool go
// back to it on Release and come out again with their scale reset.
type Pool struct {
	pools map[uint64]*generic.Pool[*Sprite]
}

func NewPool() *Pool {
	return &Pool{pools: make(map[uint64]*generic.Pool[*Sprite])}
}

// Rect returns a pooled rectangle of the given size and colour.
func (p *Pool) Rect(w, h float64, color tcell.Color) *Sprite {
	return p.get(shapeKey(ShapeRect, w, h, color), func() *Sprite { return NewRect(w, h, color) })
}

// Circle returns a pooled circle of the given radius and colour.
func (p *Pool) Circle(r float64, color tcell.Color) *Sprite {
	return p.get(shapeKey(ShapeCircle, r, 0, color), func() *Sprite { return NewCircle(r, color) })
}

func (p *Pool) get(key uint64, create func() *Sprite) *Sprite {
	pool, ok := p.pools[key]
	if !ok {
		pool = generic.NewPool(func() *Sprite {
			s := create()
			s.release = func(s *Sprite) { pool.Put(s) }
			return s
		})
		p.pools[key] = pool
	}
	s := pool.Get()
	s.Scale = 1
	return s
}

// Idle returns the number of released sprites waiting for reuse.
func (p *Pool) Idle() int {
	n := 0
	for _, pool := range p.pools {
		n += pool.Idle()
	}
	return n
}

// Created returns the number of sprites ever allocated by the pool.
func (p *Pool) Created() int {
	n := 0
	for _, pool := range p.pools {
		n += pool.Created()
	}
	return n
}

func shapeKey(shape Shape, a, b float64, color tcell.Color) uint64 {
	var buf [25]byte
	buf[0] = byte(shape)
	binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(a))
	binary.LittleEndian.PutUint64(buf[9:], math.Float64bits(b))
	binary.LittleEndian.PutUint64(buf[17:], uint64(color))
	return xxhash.Sum64(buf[:])
}
