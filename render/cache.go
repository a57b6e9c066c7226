package render

import "sync"

// Cache maps board positions and professions to uploaded file references.
// Entries live for the process lifetime; both key sets are small and fixed.
type Cache struct {
	mu     sync.RWMutex
	boards map[int]string
	cards  map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		boards: make(map[int]string),
		cards:  make(map[string]string),
	}
}

// GetValue returns the cached board image reference for position.
func (c *Cache) GetValue(position int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ref, ok := c.boards[position]
	return ref, ok
}

// SetValue stores the board image reference for position.
func (c *Cache) SetValue(position int, ref string) {
	if ref == "" {
		return
	}
	c.mu.Lock()
	c.boards[position] = ref
	c.mu.Unlock()
}

// GetCardValue returns the cached profession card reference.
func (c *Cache) GetCardValue(profession string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ref, ok := c.cards[profession]
	return ref, ok
}

// SetCardValue stores the profession card reference.
func (c *Cache) SetCardValue(profession, ref string) {
	if ref == "" {
		return
	}
	c.mu.Lock()
	c.cards[profession] = ref
	c.mu.Unlock()
}

// Forget drops a board reference, used when the platform rejects a stale file id.
func (c *Cache) Forget(position int) {
	c.mu.Lock()
	delete(c.boards, position)
	c.mu.Unlock()
}

// ForgetCard drops a profession card reference.
func (c *Cache) ForgetCard(profession string) {
	c.mu.Lock()
	delete(c.cards, profession)
	c.mu.Unlock()
}

// Len returns the number of cached board and card references.
func (c *Cache) Len() (boards, cards int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.boards), len(c.cards)
}
