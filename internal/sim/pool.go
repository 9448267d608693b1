package sim

import "sync"

// RowPool recycles right-hand-side buffers of one mesh size between runs.
type RowPool struct {
	pool sync.Pool
	size int
}

func NewRowPool(nodes int) *RowPool {
	return &RowPool{
		size: nodes,
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]float64, nodes)
				return &buf
			},
		},
	}
}

func (p *RowPool) Size() int { return p.size }

func (p *RowPool) Get() []float64 {
	return *p.pool.Get().(*[]float64)
}

func (p *RowPool) Put(row []float64) {
	if len(row) != p.size {
		return
	}
	clear(row)
	p.pool.Put(&row)
}
