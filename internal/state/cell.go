package state

import "sync"

// Cell holds exactly one status value and fans replacements out to watchers.
// Values are replaced whole; readers never observe a partial update.
type Cell[S any] struct {
	mu     sync.RWMutex
	value  S
	seq    uint64
	clone  func(S) S
	subs   map[int]chan S
	nextID int
}

// NewCell creates a cell holding initial. clone, when non-nil, copies payloads
// on the way in and out so a published value is never shared mutably.
func NewCell[S any](initial S, clone func(S) S) *Cell[S] {
	if clone == nil {
		clone = func(s S) S { return s }
	}
	return &Cell[S]{value: clone(initial), clone: clone, subs: make(map[int]chan S)}
}

// Set replaces the current value and notifies watchers.
func (c *Cell[S]) Set(v S) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = c.clone(v)
	c.seq++
	for _, ch := range c.subs {
		offer(ch, c.clone(c.value))
	}
}

// Get returns a copy of the current value.
func (c *Cell[S]) Get() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clone(c.value)
}

// Seq counts replacements since construction.
func (c *Cell[S]) Seq() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}

// Subscribe returns a channel that first receives the current value and then
// every replacement. When the watcher falls behind by more than buffer values
// the oldest pending value is dropped, so the newest one always arrives.
// The returned func stops delivery and closes the channel.
func (c *Cell[S]) Subscribe(buffer int) (<-chan S, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan S, buffer)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	offer(ch, c.clone(c.value))
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
}

// Watchers reports the number of live subscriptions.
func (c *Cell[S]) Watchers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// offer delivers v without blocking, evicting the oldest pending value when
// the buffer is full. Callers hold the cell lock, so only one sender exists.
func offer[S any](ch chan S, v S) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
