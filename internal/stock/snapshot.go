package stock

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Entry is the per-size slice of an inventory snapshot.
type Entry struct {
	AvailableQuantity int
	Price             decimal.Decimal
}

// Snapshot is a point-in-time copy of one product's inventory, tagged with
// the fetch sequence that produced it. Snapshots are immutable once built;
// a refresh replaces the whole snapshot, never patches it in place.
type Snapshot struct {
	ProductID uuid.UUID
	Seq       uint64
	entries   map[enums.Size]Entry
}

// NewSnapshot copies the entries into an immutable snapshot.
func NewSnapshot(productID uuid.UUID, seq uint64, entries map[enums.Size]Entry) *Snapshot {
	copied := make(map[enums.Size]Entry, len(entries))
	for size, entry := range entries {
		copied[size] = entry
	}
	return &Snapshot{ProductID: productID, Seq: seq, entries: copied}
}

// Entry returns the per-size stock data, reporting whether the size exists
// in the snapshot.
func (s *Snapshot) Entry(size enums.Size) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	entry, ok := s.entries[size]
	return entry, ok
}

// Sizes returns the sizes present in the snapshot in display order.
func (s *Snapshot) Sizes() []enums.Size {
	if s == nil {
		return nil
	}
	var sizes []enums.Size
	for _, size := range enums.SizesInDisplayOrder {
		if _, ok := s.entries[size]; ok {
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// Cache holds the freshest snapshot per product. Each fetch takes a token
// from NextSeq before issuing the read; Apply discards responses that carry
// a token older than the snapshot already held, so overlapping fetches that
// resolve out of order can never clobber fresher data.
type Cache struct {
	mu        sync.Mutex
	seq       uint64
	byProduct map[uuid.UUID]*Snapshot
}

// NewCache returns an empty snapshot cache.
func NewCache() *Cache {
	return &Cache{byProduct: make(map[uuid.UUID]*Snapshot)}
}

// NextSeq hands out the monotonic fetch token for the next inventory read.
func (c *Cache) NextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Apply installs the snapshot unless a fresher one is already held.
// It reports whether the snapshot was accepted.
func (c *Cache) Apply(snap *Snapshot) bool {
	if snap == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if held, ok := c.byProduct[snap.ProductID]; ok && held.Seq > snap.Seq {
		return false
	}
	c.byProduct[snap.ProductID] = snap
	return true
}

// Get returns the held snapshot for the product, or nil when none was
// fetched yet (callers treat nil as zero availability).
func (c *Cache) Get(productID uuid.UUID) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byProduct[productID]
}
