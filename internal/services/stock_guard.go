// internal/services/stock_guard.go
package services

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// StockGuard serializes stock validation + deduction per product. A
// transaction touching several products acquires their locks in ascending
// id order so two transactions touching the same two products in opposite
// orders cannot deadlock. The guarded region must do no external I/O beyond
// the deduction transaction itself.
type StockGuard struct {
	mtx   sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewStockGuard() *StockGuard {
	return &StockGuard{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (g *StockGuard) lockFor(id uuid.UUID) *sync.Mutex {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	l, ok := g.locks[id]
	if !ok {
		l = &sync.Mutex{}
		g.locks[id] = l
	}
	return l
}

// Lock acquires the locks for every product id, deduplicated, in ascending
// order. The returned func releases them in reverse order.
func (g *StockGuard) Lock(ids []uuid.UUID) (unlock func()) {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	held := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		l := g.lockFor(id)
		l.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// ownerGuard serializes cart mutations per owner. Cart mutation needs only
// per-owner exclusion, not the cross-product ordering checkout uses.
type ownerGuard struct {
	mtx   sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newOwnerGuard() *ownerGuard {
	return &ownerGuard{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (g *ownerGuard) Lock(ownerID uuid.UUID) (unlock func()) {
	g.mtx.Lock()
	l, ok := g.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[ownerID] = l
	}
	g.mtx.Unlock()

	l.Lock()
	return l.Unlock
}
