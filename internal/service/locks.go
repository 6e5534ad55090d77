package service

import "sync"

// cerrojos serializes operations per record key: cost writes per product,
// item mutations and lifecycle transitions per presupuesto. Without this, a
// close-then-insert on the ledger can leave two open entries, and AgregarItem
// can race a borrador → enviado transition after the PDF was rendered.
//
// Mutexes are never removed from the map; the key space (active products and
// quotes) is small enough that this is not a concern.
type cerrojos struct {
	m sync.Map
}

// Lock acquires the mutex for key and returns its unlock function.
func (c *cerrojos) Lock(key string) func() {
	v, _ := c.m.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
