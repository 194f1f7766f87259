package generic

// Pool is a LIFO free list. Unlike sync.Pool it never drops values, so
// released objects are handed out again deterministically.
type Pool[T any] struct {
	free     []T
	generate func() T
	created  int
}

func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{generate: generate}
}

func NewHotPool[T any](generate func() T, hotSize int) *Pool[T] {
	p := NewPool[T](generate)
	for i := 0; i < hotSize; i++ {
		p.Put(p.fresh())
	}
	return p
}

// Get returns the most recently released value, or a new one.
func (p *Pool[T]) Get() T {
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		return v
	}
	return p.fresh()
}

func (p *Pool[T]) Put(value T) {
	p.free = append(p.free, value)
}

// Idle returns the number of values waiting to be reused.
func (p *Pool[T]) Idle() int { return len(p.free) }

// Created returns how many values the pool has generated.
func (p *Pool[T]) Created() int { return p.created }

func (p *Pool[T]) fresh() T {
	p.created++
	return p.generate()
}
