package store

import "sync"

// ring keeps the most recent rows, dropping the oldest at capacity.
type ring struct {
	mu  sync.Mutex
	max int
	buf []Row
}

func newRing(max int) *ring {
	if max < 1 {
		max = 1
	}
	return &ring{
		max: max,
		buf: make([]Row, 0, max),
	}
}

func (r *ring) push(row Row) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == r.max {
		copy(r.buf, r.buf[1:])
		r.buf[len(r.buf)-1] = row
		return
	}
	r.buf = append(r.buf, row)
}

// recent returns up to n rows, newest first.
func (r *ring) recent(n int) []Row {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || n > len(r.buf) {
		n = len(r.buf)
	}
	out := make([]Row, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[len(r.buf)-1-i]
	}
	return out
}

func (r *ring) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}
