package buffer

import "sync"

// Pool provides sync.Pool-based reuse of float64 blocks to reduce GC
// pressure in block engines.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				s := make([]float64, 0)
				return &s
			},
		},
	}
}

// Get returns a zeroed block of the requested length. Callers must return it
// via Put when done.
func (p *Pool) Get(length int) []float64 {
	sp := p.pool.Get().(*[]float64)
	s := *sp
	if cap(s) < length {
		s = make([]float64, length)
	} else {
		s = s[:length]
		clear(s)
	}
	return s
}

// Put returns a block to the pool. The caller must not use it afterwards.
func (p *Pool) Put(s []float64) {
	if s == nil {
		return
	}
	p.pool.Put(&s)
}
